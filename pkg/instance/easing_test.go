package instance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultEasingsEndpoints(t *testing.T) {
	table := DefaultEasings()
	require.NotEmpty(t, table)

	for name, fn := range table {
		assert.InDelta(t, 0.0, fn(0), 1e-9, "%s at t=0", name)
		assert.InDelta(t, 1.0, fn(1), 1e-9, "%s at t=1", name)
	}
}

func TestEasingShapes(t *testing.T) {
	table := DefaultEasings()

	assert.InDelta(t, 0.5, table["linear"](0.5), 1e-12)
	assert.InDelta(t, 0.25, table["ease-in-quad"](0.5), 1e-12)
	assert.InDelta(t, 0.75, table["ease-out-quad"](0.5), 1e-12)
	assert.InDelta(t, 0.5, table["ease-in-out-cubic"](0.5), 1e-12)
	assert.InDelta(t, 0.125, table["ease-in-cubic"](0.5), 1e-12)
	assert.InDelta(t, 0.5, table["ease-in-out-sine"](0.5), 1e-12)

	// In/out pairs mirror each other around the midpoint.
	for _, pair := range [][2]string{
		{"ease-in-quad", "ease-out-quad"},
		{"ease-in-cubic", "ease-out-cubic"},
		{"ease-in-sine", "ease-out-sine"},
	} {
		in, out := table[pair[0]], table[pair[1]]
		for _, x := range []float64{0.1, 0.25, 0.6, 0.9} {
			assert.InDelta(t, 1-in(1-x), out(x), 1e-9, "%s vs %s at %v", pair[0], pair[1], x)
		}
	}
}

func TestDefaultEasingsReturnsFreshTable(t *testing.T) {
	a := DefaultEasings()
	a["linear"] = nil
	b := DefaultEasings()
	assert.NotNil(t, b["linear"], "mutating one table must not leak into the next")
}
