package dbg

import (
	"slices"
	"sync"
	"testing"

	"github.com/forestrie/go-pbmer/dnabit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGraph(t *testing.T, k uint8, opts ...GraphOption) *Graph {
	t.Helper()
	g, err := NewGraph(k, opts...)
	require.NoError(t, err)
	return g
}

// nodeState is the comparable content of a node.
type nodeState struct {
	Edges uint8
	Loads []uint32
}

func graphState(g *Graph) map[string]nodeState {
	out := make(map[string]nodeState)
	for n := range g.All() {
		out[n.DNA().Decode()] = nodeState{Edges: n.EdgeMask(), Loads: slices.Collect(n.Loads())}
	}
	return out
}

func TestNewGraph(t *testing.T) {
	_, err := NewGraph(0)
	require.ErrorIs(t, err, dnabit.ErrLength)
	_, err = NewGraph(33)
	require.ErrorIs(t, err, dnabit.ErrLength)
	_, err = NewGraph(5, WithShards(0))
	require.ErrorIs(t, err, ErrBadShards)

	tests := []struct {
		shards int
		want   int
	}{
		{1, 1},
		{2, 2},
		{3, 4},
		{256, 256},
		{300, 512},
	}
	for _, tt := range tests {
		g := newTestGraph(t, 21, WithShards(tt.shards))
		assert.Equal(t, tt.want, g.Shards())
	}

	g := newTestGraph(t, 32)
	assert.Equal(t, uint8(32), g.K())
	assert.Equal(t, DefaultShards, g.Shards())
	assert.Equal(t, 0, g.Len())
}

func TestAddReadBothWindowsShareANode(t *testing.T) {
	g := newTestGraph(t, 3)

	n, err := g.AddRead(42, []byte("ACGT"))
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, 1, g.Len())

	for _, s := range []string{"ACG", "CGT"} {
		node, ok, err := g.LookupKmer(s)
		require.NoError(t, err)
		require.True(t, ok, s)
		assert.Equal(t, "ACG", node.DNA().Decode())
		assert.GreaterOrEqual(t, node.TotalEdgeCount(), 1)
		assert.Equal(t, []uint32{42}, slices.Collect(node.Loads()))
	}

	node, _, _ := g.LookupKmer("ACG")
	// ACG->T forward and A<-CGT on the reverse strand are the same edge
	assert.Equal(t, OutEdge(dnabit.T), node.EdgeMask())
}

func TestAddReadEdges(t *testing.T) {
	g := newTestGraph(t, 3)
	_, err := g.AddRead(0, []byte("AAGC"))
	require.NoError(t, err)

	aag, ok, err := g.LookupKmer("AAG")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, OutEdge(dnabit.C), aag.EdgeMask())

	agc, ok, err := g.LookupKmer("AGC")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, InEdge(dnabit.A), agc.EdgeMask())

	// the edge iterator of one node reaches the other
	neighbours := slices.Collect(g.Neighbors(&aag))
	require.Len(t, neighbours, 1)
	assert.Equal(t, "AGC", neighbours[0].DNA().Decode())

	neighbours = slices.Collect(g.Neighbors(&agc))
	require.Len(t, neighbours, 1)
	assert.Equal(t, "AAG", neighbours[0].DNA().Decode())
}

func TestAddReadIsStrandIndependent(t *testing.T) {
	fwd := newTestGraph(t, 5)
	rev := newTestGraph(t, 5)

	seq := "GATTACAGGCATTTACG"
	rc := dnabit.MustEncode(seq[:16]).ReverseComplement().Decode()
	_, err := fwd.AddRead(0, []byte(seq[:16]))
	require.NoError(t, err)
	_, err = rev.AddRead(0, []byte(rc))
	require.NoError(t, err)

	require.Equal(t, graphState(fwd), graphState(rev))
}

func TestAddReadPalindromeIsStrandIndependent(t *testing.T) {
	// ACGT is its own reverse complement
	fwd := newTestGraph(t, 4)
	rev := newTestGraph(t, 4)
	both := newTestGraph(t, 4)

	_, err := fwd.AddRead(0, []byte("AACGTC"))
	require.NoError(t, err)
	_, err = rev.AddRead(0, []byte("GACGTT"))
	require.NoError(t, err)
	_, err = both.AddRead(0, []byte("AACGTC"))
	require.NoError(t, err)
	_, err = both.AddRead(0, []byte("GACGTT"))
	require.NoError(t, err)

	require.Equal(t, graphState(fwd), graphState(rev))
	require.Equal(t, graphState(fwd), graphState(both))

	want := InEdge(dnabit.A) | OutEdge(dnabit.C) | InEdge(dnabit.G) | OutEdge(dnabit.T)
	for _, g := range []*Graph{fwd, rev, both} {
		n, ok, err := g.LookupKmer("ACGT")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want, n.EdgeMask())

		var names []string
		for m := range g.Neighbors(&n) {
			names = append(names, m.DNA().Decode())
		}
		assert.ElementsMatch(t, []string{"AACG", "CGTC"}, names)
	}
}

func TestInsertOrMergePalindromeRecordsBothOrientations(t *testing.T) {
	g := newTestGraph(t, 4)
	acgt := dnabit.MustEncode("ACGT")

	_, err := g.InsertOrMerge(acgt, OutEdge(dnabit.C), 0)
	require.NoError(t, err)

	n, ok := g.Lookup(acgt)
	require.True(t, ok)
	assert.Equal(t, OutEdge(dnabit.C)|InEdge(dnabit.G), n.EdgeMask())
}

func TestAddReadRejectsInvalidBase(t *testing.T) {
	g := newTestGraph(t, 3)
	n, err := g.AddRead(0, []byte("ACGTNACGT"))
	require.ErrorIs(t, err, dnabit.ErrInvalidBase)
	require.Zero(t, n)
	require.Zero(t, g.Len(), "a rejected read changes nothing")

	n, err = g.AddRead(1, []byte("AC"))
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestInsertOrMerge(t *testing.T) {
	g := newTestGraph(t, 3)
	acg := dnabit.MustEncode("ACG")

	created, err := g.InsertOrMerge(acg, OutEdge(dnabit.A), 1)
	require.NoError(t, err)
	require.True(t, created)

	created, err = g.InsertOrMerge(acg, InEdge(dnabit.G), 9)
	require.NoError(t, err)
	require.False(t, created)

	created, err = g.InsertOrMerge(acg, InEdge(dnabit.G), 9)
	require.NoError(t, err)
	require.False(t, created)

	n, ok := g.Lookup(acg)
	require.True(t, ok)
	assert.Equal(t, OutEdge(dnabit.A)|InEdge(dnabit.G), n.EdgeMask())
	assert.Equal(t, []uint32{1, 9}, slices.Collect(n.Loads()))
	assert.Equal(t, 1, g.Len())

	_, err = g.InsertOrMerge(dnabit.MustEncode("ACGT"), 0, 0)
	require.ErrorIs(t, err, ErrKmerWidth)
	_, err = g.InsertOrMerge(dnabit.MustEncode("CGT"), 0, 0)
	require.ErrorIs(t, err, ErrNotCanonical)
}

func TestLookupReturnsCopy(t *testing.T) {
	g := newTestGraph(t, 3)
	acg := dnabit.MustEncode("ACG")
	_, err := g.InsertOrMerge(acg, 0, 1)
	require.NoError(t, err)

	n, ok := g.Lookup(acg)
	require.True(t, ok)
	n.AddLoad(2)
	n.SetEdges(0xFF)

	again, _ := g.Lookup(acg)
	assert.False(t, again.HasLoad(2))
	assert.Zero(t, again.EdgeMask())

	_, ok = g.Lookup(dnabit.MustEncode("AAA"))
	assert.False(t, ok)
	_, ok = g.Lookup(dnabit.MustEncode("ACGT"))
	assert.False(t, ok)

	_, _, err = g.LookupKmer("ACGT")
	require.ErrorIs(t, err, ErrKmerWidth)
	_, _, err = g.LookupKmer("ACN")
	require.ErrorIs(t, err, dnabit.ErrInvalidBase)
}

func TestConcurrentMergeOfOneKey(t *testing.T) {
	g := newTestGraph(t, 4, WithShards(1))
	key := dnabit.MustEncode("AACC")

	const workers = 16
	const perWorker = 200
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				rid := uint32(w*perWorker + i)
				_, err := g.InsertOrMerge(key, uint8(1)<<(rid%8), rid)
				if err != nil {
					t.Error(err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	n, ok := g.Lookup(key)
	require.True(t, ok)
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, uint8(0xFF), n.EdgeMask())
	assert.Equal(t, workers*perWorker, n.LoadCount())
}

func TestAllAndStats(t *testing.T) {
	g := newTestGraph(t, 3, WithShards(4))
	_, err := g.AddRead(0, []byte("AAGC"))
	require.NoError(t, err)
	_, err = g.AddRead(1, []byte("AAGA"))
	require.NoError(t, err)

	state := graphState(g)
	require.Len(t, state, 3)
	assert.Equal(t, nodeState{Edges: OutEdge(dnabit.C) | OutEdge(dnabit.A), Loads: []uint32{0, 1}}, state["AAG"])
	assert.Equal(t, nodeState{Edges: InEdge(dnabit.A), Loads: []uint32{0}}, state["AGC"])
	// AGA is canonical against its reverse complement TCT
	assert.Equal(t, nodeState{Edges: InEdge(dnabit.A), Loads: []uint32{1}}, state["AGA"])

	st := g.Stats()
	assert.Equal(t, Stats{Nodes: 3, Edges: 4, Tips: 3, Branches: 1, Loads: 4}, st)

	// early termination of All
	count := 0
	for range g.All() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}
