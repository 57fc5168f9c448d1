package core_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tetris/internal/games/tetris/core"
)

func TestSequenceSource(t *testing.T) {
	src := core.NewSequenceSource(1, 9, -1)

	assert.Equal(t, 1, src.Intn(7))
	assert.Equal(t, 2, src.Intn(7))
	assert.Equal(t, 6, src.Intn(7))
	assert.Equal(t, 1, src.Intn(7), "sequence cycles")

	empty := core.NewSequenceSource()
	assert.Equal(t, 0, empty.Intn(7))
}

func TestGeneratorFollowsSource(t *testing.T) {
	gen := core.NewGenerator(core.Kinds(core.KindS, core.KindZ, core.KindL))

	for _, want := range []core.Kind{core.KindS, core.KindZ, core.KindL, core.KindS} {
		p := gen.Generate()
		assert.Equal(t, want, p.Kind)
		assert.Equal(t, 0, p.Y)
		assert.Equal(t, core.TemplateFor(want).Color, p.Color)
	}

	assert.Equal(t, 4, gen.Total())
	assert.Equal(t, 2, gen.Count(core.KindS))
	assert.Equal(t, 0, gen.Count(core.KindI))

	stats := gen.Stats()
	assert.Equal(t, 2, stats[core.KindS])
	assert.Equal(t, 1, stats[core.KindL])

	gen.ResetStats()
	assert.Equal(t, 0, gen.Total())
	assert.Equal(t, [core.KindCount]int{}, gen.Stats())
}

func TestGeneratorIsRoughlyUniform(t *testing.T) {
	gen := core.NewGenerator(rand.New(rand.NewSource(2024)))

	const draws = 7000
	for i := 0; i < draws; i++ {
		gen.Generate()
	}

	require.Equal(t, draws, gen.Total())
	for k := range core.KindCount {
		n := gen.Count(k)
		assert.True(t, n > 800 && n < 1200, "kind %s drawn %d times", k, n)
	}
}
