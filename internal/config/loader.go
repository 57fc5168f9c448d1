package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// LoadTetris loads tetris configuration.
// Search order: customPath -> ~/.tetris/configs/tetris.yaml -> ./configs/tetris.yaml -> embedded default
func LoadTetris(customPath string) (TetrisConfig, error) {
	cfg := DefaultTetrisConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory, then the local configs directory
	for _, path := range []string{userConfigPath("tetris.yaml"), filepath.Join("configs", "tetris.yaml")} {
		if path == "" {
			continue
		}
		if loaded, ok := tryLoad(path); ok {
			return loaded, nil
		}
	}

	// Use embedded default YAML
	var embedded TetrisConfig
	if err := yaml.Unmarshal(defaultTetrisYAML, &embedded); err != nil || embedded.Validate() != nil {
		return DefaultTetrisConfig(), nil // Fallback to hardcoded if embed is broken
	}
	return embedded, nil
}

// tryLoad reads an optional config file. Missing or broken files are skipped.
func tryLoad(path string) (TetrisConfig, bool) {
	cfg := DefaultTetrisConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, false
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, false
	}
	if cfg.Validate() != nil {
		return cfg, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tetris", "configs", filename)
}

// Validate checks that every value is usable by the game adapter.
func (c TetrisConfig) Validate() error {
	if c.Gravity.DropIntervalMS <= 0 {
		return fmt.Errorf("%w: drop_interval_ms must be positive, got %d", ErrInvalid, c.Gravity.DropIntervalMS)
	}
	if c.Gravity.MinDropIntervalMS <= 0 || c.Gravity.MinDropIntervalMS > c.Gravity.DropIntervalMS {
		return fmt.Errorf("%w: min_drop_interval_ms must be in 1..%d, got %d",
			ErrInvalid, c.Gravity.DropIntervalMS, c.Gravity.MinDropIntervalMS)
	}
	if c.Scoring.PointsPerLine <= 0 {
		return fmt.Errorf("%w: points_per_line must be positive, got %d", ErrInvalid, c.Scoring.PointsPerLine)
	}
	if c.Scoring.LinesPerLevel <= 0 {
		return fmt.Errorf("%w: lines_per_level must be positive, got %d", ErrInvalid, c.Scoring.LinesPerLevel)
	}
	if c.Difficulty.InitialLevel < 0 || c.Difficulty.InitialLevel > 1 {
		return fmt.Errorf("%w: initial_level must be in [0, 1], got %g", ErrInvalid, c.Difficulty.InitialLevel)
	}
	switch c.Difficulty.Progression.Type {
	case ProgressionLines, ProgressionScore, ProgressionTime, ProgressionNone, "":
	default:
		return fmt.Errorf("%w: unknown progression type %q", ErrInvalid, c.Difficulty.Progression.Type)
	}
	return nil
}

// ApplyTetrisPreset modifies the config based on a difficulty preset.
func ApplyTetrisPreset(cfg *TetrisConfig, preset DifficultyPreset) {
	if IsFixedPreset(preset) {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}
}
