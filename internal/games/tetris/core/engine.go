package core

// EventType identifies a state change reported to observers.
type EventType int

const (
	EventMoved     EventType = iota // Current piece shifted or dropped a row
	EventRotated                    // Current piece rotated
	EventLocked                     // Current piece merged into the grid
	EventGameOver                   // Freshly promoted piece collided at spawn
	EventRestarted                  // Board cleared by Restart
)

// String returns the event name.
func (t EventType) String() string {
	switch t {
	case EventMoved:
		return "moved"
	case EventRotated:
		return "rotated"
	case EventLocked:
		return "locked"
	case EventGameOver:
		return "game_over"
	case EventRestarted:
		return "restarted"
	default:
		return "unknown"
	}
}

// Event describes one state change.
type Event struct {
	Type         EventType
	LinesCleared int // Set for EventLocked
	Score        int // Score after the change
}

// Observer is called synchronously after every state change.
type Observer func(Event)

// Option configures an Engine.
type Option func(*Engine)

// WithPointsPerLine sets the score awarded for each cleared row.
// Values below 1 are ignored.
func WithPointsPerLine(points int) Option {
	return func(e *Engine) {
		if points > 0 {
			e.pointsPerLine = points
		}
	}
}

// WithGrid starts the engine on a prepared board instead of an empty one.
// Restart always returns to an empty board.
func WithGrid(g Grid) Option {
	return func(e *Engine) {
		e.grid = g
	}
}

// WithObserver registers an observer at construction time.
func WithObserver(fn Observer) Option {
	return func(e *Engine) {
		e.Subscribe(fn)
	}
}

// Engine holds the full game state: the locked grid, the falling piece,
// the one-deep preview and the score. It is not safe for concurrent use;
// callers that drive it from several goroutines must serialize calls.
type Engine struct {
	grid     Grid
	current  Piece
	next     Piece
	score    int
	lines    int
	pieces   int // Pieces locked since the last restart
	gameOver bool

	gen           *Generator
	pointsPerLine int
	observers     []Observer
}

// New creates an engine with an empty grid and random current and next pieces.
func New(gen *Generator, opts ...Option) *Engine {
	e := &Engine{
		gen:           gen,
		pointsPerLine: DefaultPointsPerLine,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.current = e.gen.Generate()
	e.next = e.gen.Generate()
	// A prepared board may already block the spawn area.
	e.gameOver = Collides(e.current, &e.grid)
	return e
}

// Subscribe adds an observer. Observers run in registration order.
func (e *Engine) Subscribe(fn Observer) {
	if fn != nil {
		e.observers = append(e.observers, fn)
	}
}

func (e *Engine) notify(evt Event) {
	evt.Score = e.score
	for _, fn := range e.observers {
		fn(evt)
	}
}

// Move translates the current piece by (dx, dy). A blocked downward move
// locks the piece; a blocked sideways move is discarded.
// Returns true if the piece moved.
func (e *Engine) Move(dx, dy int) bool {
	if e.gameOver {
		return false
	}

	moved := e.current.Translated(dx, dy)
	if !Collides(moved, &e.grid) {
		e.current = moved
		e.notify(Event{Type: EventMoved})
		return true
	}

	if dy > 0 {
		e.lock()
	}
	return false
}

// Tick drops the current piece by one row, locking it if it cannot fall.
func (e *Engine) Tick() bool {
	return e.Move(0, 1)
}

// MoveLeft shifts the current piece one column left.
func (e *Engine) MoveLeft() bool {
	return e.Move(-1, 0)
}

// MoveRight shifts the current piece one column right.
func (e *Engine) MoveRight() bool {
	return e.Move(1, 0)
}

// Rotate turns the current piece clockwise in place. The rotation is
// rejected, without any offset retry, when the result would collide.
// Returns true if the piece rotated.
func (e *Engine) Rotate() bool {
	if e.gameOver {
		return false
	}

	rotated := e.current.Rotated()
	if Collides(rotated, &e.grid) {
		return false
	}
	e.current = rotated
	e.notify(Event{Type: EventRotated})
	return true
}

// HardDrop drops the current piece until it locks.
// Returns the number of rows the piece fell.
func (e *Engine) HardDrop() int {
	rows := 0
	for !e.gameOver && e.Move(0, 1) {
		rows++
	}
	return rows
}

// lock merges the current piece, clears full rows, scores them and
// promotes the preview piece. A promoted piece that collides immediately
// ends the game; the grid and the colliding piece are kept as the final board.
func (e *Engine) lock() {
	Merge(&e.grid, e.current)
	cleared := ClearLines(&e.grid)
	e.lines += cleared
	e.score += LineScore(cleared, e.pointsPerLine)
	e.pieces++

	e.current = e.next
	e.next = e.gen.Generate()

	e.notify(Event{Type: EventLocked, LinesCleared: cleared})

	if Collides(e.current, &e.grid) {
		e.gameOver = true
		e.notify(Event{Type: EventGameOver})
	}
}

// Restart clears the grid, zeroes the score and deals fresh pieces.
func (e *Engine) Restart() {
	e.grid = Grid{}
	e.score = 0
	e.lines = 0
	e.pieces = 0
	e.gameOver = false
	e.gen.ResetStats()
	e.current = e.gen.Generate()
	e.next = e.gen.Generate()
	e.notify(Event{Type: EventRestarted})
}

// MergedView returns a copy of the grid with the current piece drawn in.
func (e *Engine) MergedView() Grid {
	return Overlay(e.grid, e.current)
}

// Grid returns a copy of the locked cells, without the current piece.
func (e *Engine) Grid() Grid {
	return e.grid
}

// Current returns a copy of the falling piece. Its shape is not shared
// with the engine.
func (e *Engine) Current() Piece {
	return e.current.clone()
}

// Next returns a copy of the preview piece.
func (e *Engine) Next() Piece {
	return e.next.clone()
}

// Score returns the current score.
func (e *Engine) Score() int {
	return e.score
}

// Lines returns the number of rows cleared since the last restart.
func (e *Engine) Lines() int {
	return e.lines
}

// Pieces returns the number of pieces locked since the last restart.
func (e *Engine) Pieces() int {
	return e.pieces
}

// GameOver reports whether the game has ended.
func (e *Engine) GameOver() bool {
	return e.gameOver
}

// Generator returns the piece generator, for spawn statistics.
func (e *Engine) Generator() *Generator {
	return e.gen
}
