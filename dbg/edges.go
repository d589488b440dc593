package dbg

import (
	"math/bits"

	"github.com/forestrie/go-pbmer/dnabit"
)

const (
	outEdgeMask uint8 = 0x0F
	inEdgeMask  uint8 = 0xF0
)

// OutEdge is the mask bit for a right extension by b.
func OutEdge(b dnabit.Base) uint8 { return 1 << (b & 3) }

// InEdge is the mask bit for a left extension by b.
func InEdge(b dnabit.Base) uint8 { return 1 << (4 + b&3) }

// FlipEdges re-expresses a mask observed on one strand on the opposite
// strand: a right extension by b becomes a left extension by the complement of
// b, and vice versa.
func FlipEdges(mask uint8) uint8 {
	var out uint8
	for _, b := range dnabit.Bases {
		if mask&OutEdge(b) != 0 {
			out |= InEdge(b.Complement())
		}
		if mask&InEdge(b) != 0 {
			out |= OutEdge(b.Complement())
		}
	}
	return out
}

func rightCount(mask uint8) int { return bits.OnesCount8(mask & outEdgeMask) }
func leftCount(mask uint8) int  { return bits.OnesCount8(mask & inEdgeMask) }
