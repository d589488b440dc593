package bitset

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordsFor(t *testing.T) {
	require.Equal(t, 0, WordsFor(0))
	require.Equal(t, 1, WordsFor(1))
	require.Equal(t, 1, WordsFor(64))
	require.Equal(t, 2, WordsFor(65))
}

func TestSetIsIdempotent(t *testing.T) {
	var b Bitset
	require.False(t, b.Test(3))
	require.True(t, b.Set(3))
	require.False(t, b.Set(3), "second set of the same bit reports no transition")
	require.True(t, b.Test(3))
	require.Equal(t, 1, b.Count())
}

func TestGrowthIsMonotonic(t *testing.T) {
	var b Bitset
	require.Equal(t, 0, b.Cap())

	b.Set(0)
	require.Equal(t, 64, b.Cap())

	b.Set(64)
	require.Equal(t, 128, b.Cap())

	// doubling, not exact fit
	b.Set(130)
	require.Equal(t, 256, b.Cap())

	// a large id jumps straight to the word it needs
	b.Set(10_000)
	capBefore := b.Cap()
	require.GreaterOrEqual(t, capBefore, 10_001)

	// low ids never shrink the storage
	b.Set(1)
	require.Equal(t, capBefore, b.Cap())

	assert.Equal(t, []uint32{0, 1, 64, 130, 10_000}, b.Slice())
}

func TestAllAscending(t *testing.T) {
	r := rand.New(rand.NewPCG(11, 12))
	var b Bitset
	want := map[uint32]bool{}
	for i := 0; i < 500; i++ {
		id := uint32(r.IntN(5000))
		b.Set(id)
		want[id] = true
	}
	got := b.Slice()
	require.True(t, slices.IsSorted(got))
	require.Len(t, got, len(want))
	for _, id := range got {
		require.True(t, want[id])
	}

	// early termination
	n := 0
	for range b.All() {
		n++
		if n == 3 {
			break
		}
	}
	require.Equal(t, 3, n)
}

func TestCloneAndEqual(t *testing.T) {
	var a Bitset
	a.Set(5)
	a.Set(70)
	c := a.Clone()
	require.True(t, a.Equal(&c))

	c.Set(6)
	require.False(t, a.Equal(&c))
	require.False(t, a.Test(6), "clone is independent")

	// equal content with different storage sizes
	var x, y Bitset
	x.Set(1)
	y.Set(1)
	y.Set(1000)
	require.False(t, x.Equal(&y))
	var z Bitset
	z.Set(1)
	z.grow(40)
	require.True(t, x.Equal(&z))
	require.True(t, z.Equal(&x))

	var empty Bitset
	e := empty.Clone()
	require.True(t, empty.Equal(&e))
	require.Equal(t, 0, e.Count())
}
