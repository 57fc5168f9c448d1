package core

import "github.com/kamstrup/intmap"

// Source is the randomness capability used to pick pieces.
// *math/rand.Rand satisfies it.
type Source interface {
	// Intn returns a value in [0, n).
	Intn(n int) int
}

// SequenceSource replays a fixed list of values, cycling when exhausted.
// Values are reduced modulo n, so kind indices can be passed directly.
type SequenceSource struct {
	values []int
	pos    int
}

// NewSequenceSource creates a source that yields values in order.
func NewSequenceSource(values ...int) *SequenceSource {
	return &SequenceSource{values: values}
}

// Kinds creates a source that yields the given piece kinds in order.
func Kinds(kinds ...Kind) *SequenceSource {
	values := make([]int, len(kinds))
	for i, k := range kinds {
		values[i] = int(k)
	}
	return NewSequenceSource(values...)
}

// Intn returns the next value in the sequence modulo n.
func (s *SequenceSource) Intn(n int) int {
	if len(s.values) == 0 || n <= 0 {
		return 0
	}
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return ((v % n) + n) % n
}

// Generator produces freshly spawned pieces chosen uniformly from the catalog.
type Generator struct {
	src   Source
	stats *intmap.Map[Kind, int]
	total int
}

// NewGenerator creates a generator drawing from src.
func NewGenerator(src Source) *Generator {
	return &Generator{
		src:   src,
		stats: intmap.New[Kind, int](int(KindCount)),
	}
}

// Generate returns a new piece at the spawn position.
func (g *Generator) Generate() Piece {
	k := Kind(g.src.Intn(int(KindCount)))
	n, _ := g.stats.Get(k)
	g.stats.Put(k, n+1)
	g.total++
	return Spawn(k)
}

// Count returns how many pieces of kind k have been generated.
func (g *Generator) Count(k Kind) int {
	n, _ := g.stats.Get(k)
	return n
}

// Total returns the number of pieces generated so far.
func (g *Generator) Total() int {
	return g.total
}

// Stats returns the per-kind generation counts in Kind order.
func (g *Generator) Stats() [KindCount]int {
	var out [KindCount]int
	for k := range KindCount {
		out[k] = g.Count(k)
	}
	return out
}

// ResetStats clears the generation counters.
func (g *Generator) ResetStats() {
	g.stats.Clear()
	g.total = 0
}
