package core

// Snapshot captures the observable engine state as a comparable value.
// Used for determinism checks and by remote drivers.
type Snapshot struct {
	Score       int
	Lines       int
	Pieces      int
	GameOver    bool
	Current     Kind
	CurrentX    int
	CurrentY    int
	Next        Kind
	FilledCells int
	Board       string // Grid.String() of the merged view
}

// Snapshot returns the current snapshot.
func (e *Engine) Snapshot() Snapshot {
	view := e.MergedView()
	return Snapshot{
		Score:       e.score,
		Lines:       e.lines,
		Pieces:      e.pieces,
		GameOver:    e.gameOver,
		Current:     e.current.Kind,
		CurrentX:    e.current.X,
		CurrentY:    e.current.Y,
		Next:        e.next.Kind,
		FilledCells: e.grid.FilledCount(),
		Board:       view.String(),
	}
}
