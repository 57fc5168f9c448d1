package config

import (
	_ "embed"
)

//go:embed defaults/tetris.yaml
var defaultTetrisYAML []byte

// DefaultTetrisConfig returns the default configuration. The drop interval
// matches the classic 0.7 second fall timer.
func DefaultTetrisConfig() TetrisConfig {
	return TetrisConfig{
		Gravity: TetrisGravity{
			DropIntervalMS:    700,
			MinDropIntervalMS: 100,
		},
		Scoring: TetrisScoring{
			PointsPerLine: 100,
			LinesPerLevel: 10,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  ProgressionLines,
				MaxAt: 100,
			},
		},
	}
}
