package core_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tetris/internal/games/tetris/core"
)

func newEngine(kinds []core.Kind, opts ...core.Option) *core.Engine {
	return core.New(core.NewGenerator(core.Kinds(kinds...)), opts...)
}

func repeat(row string, n int) []string {
	rows := make([]string, n)
	for i := range rows {
		rows[i] = row
	}
	return rows
}

func TestNewSpawnsCurrentAndNext(t *testing.T) {
	e := newEngine([]core.Kind{core.KindI, core.KindO})

	require.False(t, e.GameOver())
	assert.Equal(t, core.KindI, e.Current().Kind)
	assert.Equal(t, 3, e.Current().X)
	assert.Equal(t, 0, e.Current().Y)
	assert.Equal(t, core.KindO, e.Next().Kind)
	assert.Equal(t, 4, e.Next().X)
	assert.True(t, e.Grid().IsEmpty())
	assert.Equal(t, 0, e.Score())
	assert.Equal(t, 2, e.Generator().Total())
}

func TestMoveLeftStopsAtWall(t *testing.T) {
	e := newEngine([]core.Kind{core.KindO})

	for i := 0; i < 4; i++ {
		require.True(t, e.MoveLeft(), "move %d", i+1)
	}
	assert.Equal(t, 0, e.Current().X)

	assert.False(t, e.MoveLeft())
	assert.Equal(t, 0, e.Current().X)
	assert.Equal(t, 0, e.Pieces(), "sideways block must not lock")
}

func TestMoveRightStopsAtWall(t *testing.T) {
	e := newEngine([]core.Kind{core.KindO})

	moves := 0
	for e.MoveRight() {
		moves++
	}
	assert.Equal(t, 4, moves)
	assert.Equal(t, 8, e.Current().X)
}

func TestTickLocksAtFloor(t *testing.T) {
	e := newEngine([]core.Kind{core.KindO, core.KindT})

	for i := 0; i < 15; i++ {
		require.True(t, e.Tick())
	}
	assert.Equal(t, 15, e.Current().Y)

	assert.False(t, e.Tick())
	assert.Equal(t, 1, e.Pieces())
	assert.Equal(t, core.KindT, e.Current().Kind)
	assert.Equal(t, 0, e.Current().Y)

	g := e.Grid()
	assert.Equal(t, 4, g.FilledCount())
	assert.Equal(t, core.FilledCell(core.ColorYellow), g.At(4, 16))
	assert.Equal(t, core.FilledCell(core.ColorYellow), g.At(5, 15))
}

func TestVerticalIClearsBottomRow(t *testing.T) {
	board := core.ParseGrid(core.ColorBlue, "#####.####")
	e := newEngine([]core.Kind{core.KindI, core.KindO}, core.WithGrid(board))

	require.True(t, e.Rotate())
	assert.Equal(t, 13, e.HardDrop())

	assert.Equal(t, 1, e.Lines())
	assert.Equal(t, 100, e.Score())

	g := e.Grid()
	assert.Equal(t, 3, g.FilledCount())
	assert.True(t, g[0].Empty())
	for y := 14; y < core.Height; y++ {
		assert.Equal(t, core.FilledCell(core.ColorRed), g.At(5, y), "row %d", y)
	}
	assert.Equal(t, core.KindO, e.Current().Kind)
	assert.False(t, e.GameOver())
}

func TestDoubleClearScoresEachLine(t *testing.T) {
	board := core.ParseGrid(core.ColorGreen, "####..####", "####..####")
	e := newEngine([]core.Kind{core.KindO}, core.WithGrid(board), core.WithPointsPerLine(100))

	e.HardDrop()

	assert.Equal(t, 2, e.Lines())
	assert.Equal(t, 200, e.Score())
	grid := e.Grid()
	assert.True(t, grid.IsEmpty())
}

func TestPointsPerLineOption(t *testing.T) {
	board := core.ParseGrid(core.ColorGreen, "####..####")
	e := newEngine([]core.Kind{core.KindO}, core.WithGrid(board), core.WithPointsPerLine(40))
	e.HardDrop()
	assert.Equal(t, 40, e.Score())

	ignored := newEngine([]core.Kind{core.KindO}, core.WithGrid(board), core.WithPointsPerLine(0))
	ignored.HardDrop()
	assert.Equal(t, core.DefaultPointsPerLine, ignored.Score())
}

func TestRotateRejectedAtWall(t *testing.T) {
	e := newEngine([]core.Kind{core.KindI})

	require.True(t, e.Rotate())
	for i := 0; i < 5; i++ {
		require.True(t, e.MoveLeft())
	}
	require.False(t, e.MoveLeft())
	require.Equal(t, -2, e.Current().X)

	before := e.Current()
	assert.False(t, e.Rotate(), "horizontal bar would leave the board")
	assert.True(t, e.Current().Shape.Equal(before.Shape))
	assert.Equal(t, before.X, e.Current().X)
}

func TestRotateRejectedByFilledCell(t *testing.T) {
	board := core.Grid{}
	board.Set(5, 2, core.FilledCell(core.ColorCyan))
	e := newEngine([]core.Kind{core.KindI}, core.WithGrid(board))

	assert.False(t, e.Rotate())
	assert.True(t, e.Current().Shape.Equal(core.TemplateFor(core.KindI).Shape))
}

func TestGameOverWhenSpawnBlocked(t *testing.T) {
	board := core.ParseGrid(core.ColorPink, repeat("....##....", 15)...)
	e := newEngine([]core.Kind{core.KindO}, core.WithGrid(board))
	require.False(t, e.GameOver())

	assert.False(t, e.Tick())
	require.True(t, e.GameOver())
	assert.Equal(t, 1, e.Pieces())

	g := e.Grid()
	assert.Equal(t, 34, g.FilledCount())
	assert.Equal(t, core.FilledCell(core.ColorYellow), g.At(4, 0))

	frozen := e.Snapshot()
	assert.False(t, e.MoveLeft())
	assert.False(t, e.MoveRight())
	assert.False(t, e.Rotate())
	assert.False(t, e.Tick())
	assert.Equal(t, 0, e.HardDrop())
	assert.Equal(t, frozen, e.Snapshot())
}

func TestNewOnBlockedBoardIsOver(t *testing.T) {
	board := core.ParseGrid(core.ColorPink, repeat("##########", core.Height)...)
	e := newEngine([]core.Kind{core.KindT}, core.WithGrid(board))

	assert.True(t, e.GameOver())
	assert.False(t, e.Tick())
}

func TestRestartAfterGameOver(t *testing.T) {
	board := core.ParseGrid(core.ColorPink, repeat("....##....", 15)...)
	e := newEngine([]core.Kind{core.KindO}, core.WithGrid(board))
	e.Tick()
	require.True(t, e.GameOver())

	e.Restart()

	assert.False(t, e.GameOver())
	assert.Equal(t, 0, e.Score())
	assert.Equal(t, 0, e.Lines())
	assert.Equal(t, 0, e.Pieces())
	grid := e.Grid()
	assert.True(t, grid.IsEmpty())
	assert.Equal(t, 2, e.Generator().Total())
	assert.True(t, e.Tick())
}

func TestMergedViewShowsCurrentPiece(t *testing.T) {
	e := newEngine([]core.Kind{core.KindT})

	view := e.MergedView()
	grid := e.Grid()
	assert.Equal(t, 4, view.FilledCount())
	assert.True(t, grid.IsEmpty())
	assert.Equal(t, core.FilledCell(core.ColorGreen), view.At(4, 0))
	assert.True(t, strings.HasPrefix(view.String(), "....#.....\n...###...."))
}

func TestReadAccessorsOnReturnedGrids(t *testing.T) {
	e := newEngine([]core.Kind{core.KindO})

	assert.True(t, e.Grid().IsEmpty())
	assert.Equal(t, 4, e.MergedView().FilledCount())
	assert.Equal(t, core.FilledCell(core.ColorYellow), e.MergedView().At(4, 0))
	assert.Equal(t, e.Snapshot().Board, e.MergedView().String())
}

func TestPieceAccessorsDoNotShareShape(t *testing.T) {
	e := newEngine([]core.Kind{core.KindT, core.KindI})

	cur := e.Current()
	for y := range cur.Shape {
		for x := range cur.Shape[y] {
			cur.Shape[y][x] = 0
		}
	}
	next := e.Next()
	next.Shape[1][0] = 0

	assert.Equal(t, 4, e.MergedView().FilledCount())
	assert.True(t, e.Current().Shape.Equal(core.TemplateFor(core.KindT).Shape))
	assert.True(t, e.Next().Shape.Equal(core.TemplateFor(core.KindI).Shape))

	// The untouched preview must still lock as a full I
	e.HardDrop()
	e.HardDrop()
	assert.Equal(t, 8, e.Grid().FilledCount())
}

func TestObserversReceiveEvents(t *testing.T) {
	var events []core.EventType
	board := core.ParseGrid(core.ColorGreen, "####..####")
	e := newEngine([]core.Kind{core.KindO}, core.WithGrid(board), core.WithObserver(func(evt core.Event) {
		events = append(events, evt.Type)
		if evt.Type == core.EventLocked {
			assert.Equal(t, 1, evt.LinesCleared)
			assert.Equal(t, 100, evt.Score)
		}
	}))

	e.MoveLeft()
	e.MoveRight()
	e.Rotate()
	e.HardDrop()
	e.Restart()

	moves := 0
	for _, evt := range events {
		if evt == core.EventMoved {
			moves++
		}
	}
	assert.Equal(t, 2+15, moves)
	assert.Contains(t, events, core.EventRotated)
	assert.Contains(t, events, core.EventLocked)
	assert.Equal(t, core.EventRestarted, events[len(events)-1])
	assert.NotContains(t, events, core.EventGameOver)
}

func TestSameSeedSameGame(t *testing.T) {
	play := func() core.Snapshot {
		e := core.New(core.NewGenerator(rand.New(rand.NewSource(42))))
		actions := rand.New(rand.NewSource(99))
		for i := 0; i < 500; i++ {
			applyRandomAction(e, actions)
		}
		return e.Snapshot()
	}

	assert.Equal(t, play(), play())
}

func applyRandomAction(e *core.Engine, rng *rand.Rand) {
	switch rng.Intn(6) {
	case 0:
		e.MoveLeft()
	case 1:
		e.MoveRight()
	case 2:
		e.Rotate()
	case 3:
		e.HardDrop()
	default:
		e.Tick()
	}
}

func TestRandomPlayKeepsInvariants(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		e := core.New(core.NewGenerator(rand.New(rand.NewSource(seed))))
		actions := rand.New(rand.NewSource(seed * 31))

		for i := 0; i < 1000; i++ {
			lines := e.Lines()
			score := e.Score()

			applyRandomAction(e, actions)

			if !e.GameOver() {
				g := e.Grid()
				require.False(t, core.Collides(e.Current(), &g), "seed %d step %d", seed, i)
			}
			if e.Lines() == lines {
				require.Equal(t, score, e.Score(), "score changed without a clear")
			} else {
				require.Greater(t, e.Score(), score)
			}
			require.Equal(t, e.Lines()*core.DefaultPointsPerLine, e.Score())

			g := e.Grid()
			for y := 0; y < core.Height; y++ {
				require.False(t, g[y].Full(), "full row %d left on board", y)
			}

			if e.GameOver() {
				e.Restart()
			}
		}
	}
}
