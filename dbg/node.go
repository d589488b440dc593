package dbg

import (
	"iter"

	"github.com/forestrie/go-pbmer/bitset"
	"github.com/forestrie/go-pbmer/dnabit"
)

// Node is a graph vertex: a canonical k-mer, its edge mask and the ids of
// the reads that contained it.
//
// A Node is not safe for concurrent use. Nodes owned by a Graph are only
// mutated under their shard lock; callers receive copies.
type Node struct {
	dna   dnabit.DnaBit
	edges uint8
	reads bitset.Bitset
}

// NewNode returns a node for dna with an initial edge mask and no loads.
func NewNode(dna dnabit.DnaBit, edges uint8) *Node {
	return &Node{dna: dna, edges: edges}
}

// DNA returns the node's packed k-mer.
func (n *Node) DNA() dnabit.DnaBit { return n.dna }

// EdgeMask returns the current edge mask (bits 0-3 right, 4-7 left).
func (n *Node) EdgeMask() uint8 { return n.edges }

// AddLoad records read rid as a contributor. It reports whether rid was new.
func (n *Node) AddLoad(rid uint32) bool { return n.reads.Set(rid) }

// HasLoad reports whether read rid contributed to the node.
func (n *Node) HasLoad(rid uint32) bool { return n.reads.Test(rid) }

// LoadCount returns the number of distinct contributing reads.
func (n *Node) LoadCount() int { return n.reads.Count() }

// Loads yields the contributing read ids in ascending order.
func (n *Node) Loads() iter.Seq[uint32] { return n.reads.All() }

// SetEdges merges mask into the edge mask. Edges are never cleared.
func (n *Node) SetEdges(mask uint8) { n.edges |= mask }

// LeftEdgeCount returns the number of left (in) edges.
func (n *Node) LeftEdgeCount() int { return leftCount(n.edges) }

// RightEdgeCount returns the number of right (out) edges.
func (n *Node) RightEdgeCount() int { return rightCount(n.edges) }

// TotalEdgeCount returns the number of edges on both sides.
func (n *Node) TotalEdgeCount() int { return n.LeftEdgeCount() + n.RightEdgeCount() }

// Edges yields, for every set bit of the edge mask in bit order, the
// neighbouring k-mer reached through it: right edges shift the k-mer left
// and append the base, left edges shift it right and prepend the base.
//
// The mask is captured when Edges is called. Later SetEdges calls do not
// affect the returned sequence, which may be ranged over any number of times.
func (n *Node) Edges() iter.Seq[dnabit.DnaBit] {
	dna, mask := n.dna, n.edges
	return func(yield func(dnabit.DnaBit) bool) {
		for i := uint8(0); i < 8; i++ {
			if mask&(1<<i) == 0 {
				continue
			}
			var next dnabit.DnaBit
			if i < 4 {
				next = dna.PushBack(dnabit.Base(i))
			} else {
				next = dna.PushFront(dnabit.Base(i - 4))
			}
			if !yield(next) {
				return
			}
		}
	}
}

// Clone returns an independent copy of n.
func (n *Node) Clone() Node {
	return Node{dna: n.dna, edges: n.edges, reads: n.reads.Clone()}
}

// Equal compares k-mer, edges and provenance.
func (n *Node) Equal(o *Node) bool {
	return n.dna.Equal(o.dna) && n.edges == o.edges && n.reads.Equal(&o.reads)
}
