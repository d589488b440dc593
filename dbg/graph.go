package dbg

import (
	"fmt"
	"iter"
	"maps"
	"math/bits"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/forestrie/go-pbmer/dnabit"
	"github.com/forestrie/go-pbmer/kmer"
)

const (
	DefaultShards = 256
	MaxShards     = 1 << 16
)

type shard struct {
	mu    sync.RWMutex
	nodes map[uint64]*Node
}

// Graph maps canonical k-mers to nodes. All methods are safe for concurrent
// use.
type Graph struct {
	k         uint8
	shards    []shard
	shardMask uint64
	size      atomic.Int64
}

type graphOptions struct {
	shards int
}

type GraphOption func(*graphOptions)

// WithShards sets the number of lock stripes, rounded up to a power of two.
func WithShards(n int) GraphOption {
	return func(o *graphOptions) {
		o.shards = n
	}
}

// NewGraph returns an empty graph of k-mer width k.
func NewGraph(k uint8, opts ...GraphOption) (*Graph, error) {
	if err := dnabit.CheckLength(int(k)); err != nil {
		return nil, err
	}
	o := graphOptions{shards: DefaultShards}
	for _, opt := range opts {
		opt(&o)
	}
	if o.shards < 1 || o.shards > MaxShards {
		return nil, fmt.Errorf("%w: got %d", ErrBadShards, o.shards)
	}
	n := 1 << bits.Len(uint(o.shards-1))

	g := &Graph{
		k:         k,
		shards:    make([]shard, n),
		shardMask: uint64(n - 1),
	}
	for i := range g.shards {
		g.shards[i].nodes = make(map[uint64]*Node)
	}
	return g, nil
}

// K returns the k-mer width.
func (g *Graph) K() uint8 { return g.k }

// Len returns the number of nodes.
func (g *Graph) Len() int { return int(g.size.Load()) }

// Shards returns the number of lock stripes.
func (g *Graph) Shards() int { return len(g.shards) }

// mix is the splitmix64 finalizer. Packed k-mers are far from uniform in
// their low bits (poly-A runs pack to 0), so the key is scrambled before it
// selects a shard.
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

func (g *Graph) shardFor(key uint64) *shard {
	return &g.shards[mix(key)&g.shardMask]
}

// InsertOrMerge creates the node for canonical with edgeBit and read rid, or
// merges both into the existing node. It reports whether a node was created.
// For a reverse-palindrome the flipped form of edgeBit is merged as well.
func (g *Graph) InsertOrMerge(canonical dnabit.DnaBit, edgeBit uint8, rid uint32) (bool, error) {
	if canonical.Len != g.k {
		return false, fmt.Errorf("%w: got %d, want %d", ErrKmerWidth, canonical.Len, g.k)
	}
	if !canonical.IsCanonical() {
		return false, fmt.Errorf("%w: %s", ErrNotCanonical, canonical)
	}
	return g.insertOrMerge(canonical, edgeBit, rid), nil
}

func (g *Graph) insertOrMerge(canonical dnabit.DnaBit, edgeBit uint8, rid uint32) bool {
	// a reverse-palindrome is canonical on both strands, so every extension
	// is recorded in both orientations.
	if canonical.ReverseComplement().Equal(canonical) {
		edgeBit |= FlipEdges(edgeBit)
	}
	s := g.shardFor(canonical.Mer)
	s.mu.Lock()
	defer s.mu.Unlock()

	if n, ok := s.nodes[canonical.Mer]; ok {
		n.SetEdges(edgeBit)
		n.AddLoad(rid)
		return false
	}
	n := NewNode(canonical, edgeBit)
	n.AddLoad(rid)
	s.nodes[canonical.Mer] = n
	g.size.Add(1)
	return true
}

// AddRead inserts every k-mer of seq, attributed to read rid, and returns how
// many k-mers were inserted.
//
// Each window records the base after it as a right edge and the base before
// it as a left edge, re-expressed on the canonical strand. The read is
// validated in full first; a read with an invalid base changes nothing.
func (g *Graph) AddRead(rid uint32, seq []byte) (int, error) {
	codes, err := dnabit.ParseBases(seq)
	if err != nil {
		return 0, err
	}
	windows := kmer.WindowsOf(codes, g.k)
	for _, w := range windows {
		var edges uint8
		if end := int(w.Pos) + int(g.k); end < len(codes) {
			edges |= OutEdge(codes[end])
		}
		if w.Pos > 0 {
			edges |= InEdge(codes[w.Pos-1])
		}
		c := w.Canonical(g.k)
		if c.Strand == kmer.Reverse {
			edges = FlipEdges(edges)
		}
		g.insertOrMerge(c.DnaBit(g.k), edges, rid)
	}
	return len(windows), nil
}

// Lookup returns a copy of the node for a canonical k-mer.
func (g *Graph) Lookup(canonical dnabit.DnaBit) (Node, bool) {
	if canonical.Len != g.k {
		return Node{}, false
	}
	s := g.shardFor(canonical.Mer)
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[canonical.Mer]
	if !ok {
		return Node{}, false
	}
	return n.Clone(), true
}

// LookupKmer finds the node for seq in either orientation.
func (g *Graph) LookupKmer(seq string) (Node, bool, error) {
	d, err := dnabit.Encode(seq)
	if err != nil {
		return Node{}, false, err
	}
	if d.Len != g.k {
		return Node{}, false, fmt.Errorf("%w: got %d, want %d", ErrKmerWidth, d.Len, g.k)
	}
	c, _ := d.Canonical()
	n, ok := g.Lookup(c)
	return n, ok, nil
}

// All yields a copy of every node. Each shard is copied under its lock and
// yielded in ascending key order after the lock is released, so the consumer
// may call back into the graph.
func (g *Graph) All() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for i := range g.shards {
			s := &g.shards[i]
			s.mu.RLock()
			keys := slices.Sorted(maps.Keys(s.nodes))
			snap := make([]Node, len(keys))
			for j, key := range keys {
				snap[j] = s.nodes[key].Clone()
			}
			s.mu.RUnlock()

			for _, n := range snap {
				if !yield(n) {
					return
				}
			}
		}
	}
}

// Neighbors yields, once each, the nodes reachable through n's edges that are
// present in the graph. A node may be its own neighbour.
func (g *Graph) Neighbors(n *Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		var seen [8]uint64
		nseen := 0
		for next := range n.Edges() {
			c, _ := next.Canonical()
			if slices.Contains(seen[:nseen], c.Mer) {
				continue
			}
			seen[nseen] = c.Mer
			nseen++
			m, ok := g.Lookup(c)
			if !ok {
				continue
			}
			if !yield(m) {
				return
			}
		}
	}
}

// Stats summarises a graph.
type Stats struct {
	Nodes int
	// Edges is the total of set edge bits over all nodes.
	Edges int
	// Tips are nodes with no edges on one side.
	Tips int
	// Branches are nodes with more than one edge on some side.
	Branches int
	// Loads is the total of per-node contributing read counts.
	Loads int
}

func (g *Graph) Stats() Stats {
	var st Stats
	for n := range g.All() {
		st.Nodes++
		st.Edges += n.TotalEdgeCount()
		l, r := n.LeftEdgeCount(), n.RightEdgeCount()
		if l == 0 || r == 0 {
			st.Tips++
		}
		if l > 1 || r > 1 {
			st.Branches++
		}
		st.Loads += n.LoadCount()
	}
	return st
}
