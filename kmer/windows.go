package kmer

import (
	"github.com/forestrie/go-pbmer/dnabit"
)

// Windows returns every k-mer of width size in seq, in read order, with 0-based
// positions on the forward strand.
//
// The whole read is validated before anything is returned: a single base
// outside {A,C,G,T} rejects the read with dnabit.ErrInvalidBase. A read
// shorter than size has no windows and is not an error.
func Windows(seq []byte, size uint8) ([]Kmer, error) {
	if err := dnabit.CheckLength(int(size)); err != nil {
		return nil, err
	}
	codes, err := dnabit.ParseBases(seq)
	if err != nil {
		return nil, err
	}
	return WindowsOf(codes, size), nil
}

// WindowsOf is Windows over already parsed bases. size must be in 1..32.
func WindowsOf(codes []dnabit.Base, size uint8) []Kmer {
	k := int(size)
	if len(codes) < k {
		return nil
	}
	mask := dnabit.Mask(size)
	out := make([]Kmer, 0, len(codes)-k+1)
	var mer uint64
	for i, b := range codes {
		mer = (mer<<2 | uint64(b)) & mask
		if i+1 >= k {
			out = append(out, Kmer{Mer: mer, Pos: uint32(i + 1 - k), Strand: Forward})
		}
	}
	return out
}
