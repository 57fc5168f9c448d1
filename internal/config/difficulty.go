package config

import (
	"math"
	"time"
)

// DifficultyManager calculates the drop interval from game progress.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// SetEnabled enables or disables difficulty progression.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != ProgressionNone && d.cfg.Progression.Type != ""
}

// Progress describes how far a game has come. Elapsed is play time, so
// drivers running at different rates agree on time progression.
type Progress struct {
	Lines   int
	Score   int
	Elapsed time.Duration
}

// Level returns the current difficulty level (0.0 to 1.0).
func (d *DifficultyManager) Level(p Progress) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case ProgressionLines:
		progress = float64(p.Lines) / maxAt
	case ProgressionScore:
		progress = float64(p.Score) / maxAt
	case ProgressionTime:
		progress = p.Elapsed.Seconds() / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// DropInterval returns the automatic drop interval for the current level,
// interpolated from the gravity interval down to its minimum.
func (d *DifficultyManager) DropInterval(g TetrisGravity, p Progress) time.Duration {
	level := d.Level(p)
	slowest := float64(g.DropIntervalMS)
	fastest := float64(min(g.MinDropIntervalMS, g.DropIntervalMS))
	ms := slowest - level*(slowest-fastest)
	return time.Duration(math.Round(ms)) * time.Millisecond
}

// clampF restricts a float64 to [lo, hi].
func clampF(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, val))
}
