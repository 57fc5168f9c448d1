// Package tetris adapts the falling-block engine to the platform game
// contract: fixed-tick stepping, drop cadence and screen rendering.
package tetris

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/config"
	platformcore "github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris/core"
	"github.com/vovakirdan/tui-tetris/internal/registry"
)

// ID is the registry and score storage identifier.
const ID = "tetris"

// Layout constants, in screen characters.
const (
	cellW      = 2                    // Each board cell is two columns wide
	boardW     = core.Width*cellW + 2 // Board plus border
	boardH     = core.Height + 2      // Board plus border
	panelGap   = 2                    // Gap between board and side panel
	panelW     = 16                   // Side panel width
	previewW   = 4*cellW + 2          // NEXT box fits the 4x4 I matrix
	previewH   = 4 + 2
	playfieldW = boardW + panelGap + panelW
	playfieldH = boardH
)

var (
	configPath       string
	difficultyPreset config.DifficultyPreset
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names clear it.
func SetDifficultyPreset(preset string) {
	p, ok := config.ParsePreset(preset)
	if !ok {
		difficultyPreset = ""
		return
	}
	difficultyPreset = p
}

// Game hosts one Engine on the platform tick loop.
type Game struct {
	engine     *core.Engine
	rng        *rand.Rand
	cfg        config.TetrisConfig
	difficulty *config.DifficultyManager

	tickRate       int
	tick           uint64
	dropEveryTicks int
	dropTicker     int
	lastCleared    int // Rows cleared by the most recent lock

	paused   bool
	tooSmall bool
	screenW  int
	screenH  int
}

func init() {
	registry.Register(ID, func() registry.Game {
		return New()
	})
}

// New creates a game. Reset must be called before stepping.
func New() *Game {
	return &Game{}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return ID
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Tetris"
}

// Reset loads the configuration and starts a fresh engine.
func (g *Game) Reset(runtime platformcore.RuntimeConfig) {
	cfg, err := config.LoadTetris(configPath)
	if err != nil {
		cfg = config.DefaultTetrisConfig()
	}
	if difficultyPreset != "" {
		config.ApplyTetrisPreset(&cfg, difficultyPreset)
	}
	g.cfg = cfg
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)

	runtime = runtime.Normalized()
	g.tickRate = runtime.TickRate

	g.rng = rand.New(rand.NewSource(runtime.Seed))
	g.engine = core.New(core.NewGenerator(g.rng),
		core.WithPointsPerLine(cfg.Scoring.PointsPerLine),
		core.WithObserver(g.onEvent),
	)

	g.tick = 0
	g.dropTicker = 0
	g.lastCleared = 0
	g.paused = false
	g.layout(runtime.ScreenW, runtime.ScreenH)
	g.updateDropRate()
}

// onEvent keeps the drop cadence in step with the engine.
func (g *Game) onEvent(evt core.Event) {
	switch evt.Type {
	case core.EventLocked:
		g.lastCleared = evt.LinesCleared
		g.dropTicker = 0
		g.updateDropRate()
	case core.EventRestarted:
		g.lastCleared = 0
		g.dropTicker = 0
		g.updateDropRate()
	}
}

// updateDropRate converts the current drop interval into simulation ticks.
func (g *Game) updateDropRate() {
	interval := g.difficulty.DropInterval(g.cfg.Gravity, g.progress())
	ticks := int(math.Round(interval.Seconds() * float64(g.tickRate)))
	g.dropEveryTicks = max(1, ticks)
}

func (g *Game) progress() config.Progress {
	p := config.Progress{Elapsed: g.elapsed()}
	if g.engine != nil {
		p.Lines = g.engine.Lines()
		p.Score = g.engine.Score()
	}
	return p
}

// elapsed converts simulation ticks into play time.
func (g *Game) elapsed() time.Duration {
	if g.tickRate <= 0 {
		return 0
	}
	return time.Duration(g.tick) * time.Second / time.Duration(g.tickRate)
}

// layout records the screen size and whether the playfield fits.
func (g *Game) layout(w, h int) {
	g.screenW = w
	g.screenH = h
	g.tooSmall = w < playfieldW || h < playfieldH
}

// Level returns the display level derived from cleared lines.
func (g *Game) Level() int {
	if g.engine == nil || g.cfg.Scoring.LinesPerLevel <= 0 {
		return 0
	}
	return g.engine.Lines() / g.cfg.Scoring.LinesPerLevel
}

// DropEveryTicks returns the current automatic drop period in ticks.
func (g *Game) DropEveryTicks() int {
	return g.dropEveryTicks
}

// Step advances the game by one tick.
func (g *Game) Step(input platformcore.InputFrame) platformcore.StepResult {
	if g.engine == nil {
		return platformcore.StepResult{State: g.State()}
	}

	// Restart is only honored once the game has ended
	if input.Has(platformcore.ActionRestart) && g.engine.GameOver() {
		g.paused = false
		g.tick = 0
		g.engine.Restart()
		return platformcore.StepResult{State: g.State()}
	}

	if input.Has(platformcore.ActionPause) && !g.engine.GameOver() {
		g.paused = !g.paused
	}

	if g.engine.GameOver() || g.paused || g.tooSmall {
		return platformcore.StepResult{State: g.State()}
	}
	g.tick++ // Counts active play only

	for range input.Count(platformcore.ActionLeft) {
		g.engine.MoveLeft()
	}
	for range input.Count(platformcore.ActionRight) {
		g.engine.MoveRight()
	}
	for range input.Count(platformcore.ActionRotate) {
		g.engine.Rotate()
	}
	for range input.Count(platformcore.ActionSoftDrop) {
		if g.engine.Tick() {
			g.dropTicker = 0
		}
	}
	if input.Has(platformcore.ActionHardDrop) {
		g.engine.HardDrop()
	}

	if g.engine.GameOver() {
		return platformcore.StepResult{State: g.State()}
	}

	g.dropTicker++
	if g.dropTicker >= g.dropEveryTicks {
		g.dropTicker = 0
		g.engine.Tick()
		if g.cfg.Difficulty.Progression.Type == config.ProgressionTime {
			g.updateDropRate()
		}
	}

	return platformcore.StepResult{State: g.State()}
}

// State returns the current game state.
func (g *Game) State() platformcore.GameState {
	if g.engine == nil {
		return platformcore.GameState{}
	}
	return platformcore.GameState{
		Score:    g.engine.Score(),
		Lines:    g.engine.Lines(),
		Level:    g.Level(),
		GameOver: g.engine.GameOver(),
		Paused:   g.paused,
	}
}

// Snapshot captures the adapter and engine state for determinism testing.
type Snapshot struct {
	core.Snapshot
	Tick           uint64
	Level          int
	DropEveryTicks int
	Paused         bool
}

// Snapshot returns the current snapshot.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Tick:           g.tick,
		Level:          g.Level(),
		DropEveryTicks: g.dropEveryTicks,
		Paused:         g.paused,
	}
	if g.engine != nil {
		s.Snapshot = g.engine.Snapshot()
	}
	return s
}

// Render draws the board, the NEXT preview and the HUD.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()
	if dst.Width() != g.screenW || dst.Height() != g.screenH {
		g.layout(dst.Width(), dst.Height())
	}

	if g.tooSmall {
		msg := fmt.Sprintf("Window too small (need %dx%d)", playfieldW, playfieldH)
		dst.DrawTextCentered(dst.Height()/2, msg)
		return
	}
	if g.engine == nil {
		return
	}

	area := platformcore.NewRect(0, 0, dst.Width(), dst.Height()).Centered(playfieldW, playfieldH)
	board := platformcore.NewRect(area.X, area.Y, boardW, boardH)
	panel := platformcore.NewRect(board.Right()+panelGap, area.Y, panelW, playfieldH)

	g.renderBoard(dst, board)
	g.renderPanel(dst, panel)

	switch {
	case g.engine.GameOver():
		g.renderOverlay(dst, board, "GAME OVER", "R to restart")
	case g.paused:
		g.renderOverlay(dst, board, "PAUSED", "P to resume")
	}
}

func (g *Game) renderBoard(dst *platformcore.Screen, box platformcore.Rect) {
	dst.DrawBox(box, platformcore.ColorGray)

	view := g.engine.MergedView()
	for y := range core.Height {
		for x := range core.Width {
			sx := box.X + 1 + x*cellW
			sy := box.Y + 1 + y
			drawCell(dst, sx, sy, view.At(x, y))
		}
	}
}

func drawCell(dst *platformcore.Screen, sx, sy int, c core.Cell) {
	if !c.Filled {
		dst.SetWithColor(sx, sy, ' ', platformcore.ColorDefault)
		dst.SetWithColor(sx+1, sy, '·', platformcore.ColorGray)
		return
	}
	color := platformColor(c.Color)
	dst.SetWithColor(sx, sy, '█', color)
	dst.SetWithColor(sx+1, sy, '█', color)
}

func (g *Game) renderPanel(dst *platformcore.Screen, panel platformcore.Rect) {
	preview := platformcore.NewRect(panel.X, panel.Y, previewW, previewH)
	dst.DrawTitledBox(preview, "NEXT", platformcore.ColorGray, platformcore.ColorBrightWhite)
	next := g.engine.Next()
	for _, b := range next.Shape.Blocks() {
		drawCell(dst, preview.X+1+b[0]*cellW, preview.Y+1+b[1], core.FilledCell(next.Color))
	}

	y := preview.Bottom() + 1
	stats := []struct {
		label string
		value int
	}{
		{"Score", g.engine.Score()},
		{"Lines", g.engine.Lines()},
		{"Level", g.Level()},
	}
	for _, s := range stats {
		dst.DrawTextColor(panel.X, y, s.label, platformcore.ColorGray)
		dst.DrawTextColor(panel.X+7, y, fmt.Sprintf("%d", s.value), platformcore.ColorBrightWhite)
		y++
	}

	if g.lastCleared > 1 {
		dst.DrawTextColor(panel.X, y+1, fmt.Sprintf("%d lines!", g.lastCleared), platformcore.ColorOrange)
	}

	help := []string{"←/→ move", "↑ rotate", "↓ drop", "space slam", "p pause"}
	hy := panel.Bottom() - len(help)
	for i, line := range help {
		dst.DrawTextColor(panel.X, hy+i, line, platformcore.ColorGray)
	}
}

func (g *Game) renderOverlay(dst *platformcore.Screen, board platformcore.Rect, line1, line2 string) {
	w := max(len([]rune(line1)), len([]rune(line2))) + 4
	box := board.Centered(w, 4)
	dst.Fill(box, platformcore.Cell{Rune: ' '})
	dst.DrawBox(box, platformcore.ColorBrightWhite)
	dst.DrawTextCenteredIn(box, box.Y+1, line1, platformcore.ColorRed)
	dst.DrawTextCenteredIn(box, box.Y+2, line2, platformcore.ColorGray)
}

// platformColor maps piece colors onto the screen palette.
func platformColor(c core.Color) platformcore.Color {
	switch c {
	case core.ColorRed:
		return platformcore.ColorRed
	case core.ColorYellow:
		return platformcore.ColorYellow
	case core.ColorGreen:
		return platformcore.ColorGreen
	case core.ColorBlue:
		return platformcore.ColorBlue
	case core.ColorCyan:
		return platformcore.ColorCyan
	case core.ColorPink:
		return platformcore.ColorPink
	case core.ColorPurple:
		return platformcore.ColorPurple
	default:
		return platformcore.ColorWhite
	}
}
