// Package kmer models a k-mer occurrence: the packed bases plus the position and
// strand it was read from.
package kmer

import (
	"github.com/forestrie/go-pbmer/dnabit"
)

// DefaultPos is the position given to a k-mer constructed without one.
//
// NOTE: this is 1, not 0. Positions produced by Windows are 0-based offsets;
// only the unqualified constructors use this value.
const DefaultPos uint32 = 1

// Strand is the orientation a k-mer was read in.
type Strand uint8

const (
	Forward Strand = iota
	Reverse
)

// Flip returns the opposite strand.
func (s Strand) Flip() Strand { return s ^ 1 }

func (s Strand) String() string {
	if s == Reverse {
		return "-"
	}
	return "+"
}

// Kmer is up to 32 packed bases with provenance. The width is not stored; it
// is a property of the graph the k-mer belongs to and is passed to the methods
// that need it.
type Kmer struct {
	Mer    uint64
	Pos    uint32
	Strand Strand
}

// New returns an empty forward k-mer at DefaultPos.
func New() Kmer { return Kmer{Pos: DefaultPos} }

// NewWithStrand is New on strand s.
func NewWithStrand(s Strand) Kmer { return Kmer{Pos: DefaultPos, Strand: s} }

// Make returns a k-mer with every field given.
func Make(mer uint64, pos uint32, s Strand) Kmer {
	return Kmer{Mer: mer, Pos: pos, Strand: s}
}

// FromDnaBit wraps a packed value, keeping the given position and strand.
func FromDnaBit(d dnabit.DnaBit, pos uint32, s Strand) Kmer {
	return Kmer{Mer: d.Mer, Pos: pos, Strand: s}
}

// Equal compares the packed bases only. Position and strand are provenance,
// not identity.
func (k Kmer) Equal(o Kmer) bool { return k.Mer == o.Mer }

// DnaBit returns the packed bases at width size.
func (k Kmer) DnaBit(size uint8) dnabit.DnaBit {
	return dnabit.DnaBit{Mer: k.Mer & dnabit.Mask(size), Len: size}
}

// ReverseComp replaces k with its reverse complement and flips the strand.
func (k *Kmer) ReverseComp(size uint8) {
	k.Mer = k.DnaBit(size).ReverseComplement().Mer
	k.Strand = k.Strand.Flip()
}

// LexSmaller reports whether k is strictly smaller than o when both are
// decoded at width size. Neither value is modified.
func (k Kmer) LexSmaller(o Kmer, size uint8) bool {
	return dnabit.Compare(k.DnaBit(size), o.DnaBit(size)) < 0
}

// ToString decodes k to a base string of length size.
func (k Kmer) ToString(size uint8) string {
	return k.DnaBit(size).Decode()
}

// Canonical returns the canonical orientation of k. When the reverse
// complement is chosen the returned strand is flipped; the position is kept.
func (k Kmer) Canonical(size uint8) Kmer {
	rc := k
	rc.ReverseComp(size)
	if rc.LexSmaller(k, size) {
		return rc
	}
	return k
}
