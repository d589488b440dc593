package dnabit

import (
	"cmp"
	"fmt"
	"math/bits"
	"strings"
)

const (
	pairSwapMask   = 0x3333333333333333
	nibbleSwapMask = 0x0F0F0F0F0F0F0F0F
)

// DnaBit is a run of 1..32 bases packed into the low 2*Len bits of Mer.
type DnaBit struct {
	Mer uint64
	Len uint8
}

// Encode packs seq. Length is checked before content.
func Encode(seq string) (DnaBit, error) {
	return EncodeBytes([]byte(seq))
}

// EncodeBytes is Encode for a byte slice.
func EncodeBytes(seq []byte) (DnaBit, error) {
	if err := CheckLength(len(seq)); err != nil {
		return DnaBit{}, err
	}
	var mer uint64
	for i, c := range seq {
		b, err := ParseBase(c)
		if err != nil {
			return DnaBit{}, fmt.Errorf("%w at offset %d", err, i)
		}
		mer = mer<<2 | uint64(b)
	}
	return DnaBit{Mer: mer, Len: uint8(len(seq))}, nil
}

// MustEncode is Encode for known good literals. It panics on error.
func MustEncode(seq string) DnaBit {
	d, err := Encode(seq)
	if err != nil {
		panic(err)
	}
	return d
}

// Mask returns the mask covering the significant bits of a value of length n.
func Mask(n uint8) uint64 {
	if n >= MaxBases {
		return ^uint64(0)
	}
	return (uint64(1) << (2 * uint(n))) - 1
}

// Mask returns the mask covering the significant bits of d.
func (d DnaBit) Mask() uint64 { return Mask(d.Len) }

// Decode returns the base string of d. Decode(Encode(s)) == s.
func (d DnaBit) Decode() string {
	var sb strings.Builder
	sb.Grow(int(d.Len))
	for i := uint8(0); i < d.Len; i++ {
		sb.WriteByte(d.BaseAt(i).Byte())
	}
	return sb.String()
}

func (d DnaBit) String() string { return d.Decode() }

// BaseAt returns the base at offset i, 0 being the first (leftmost) base.
// The caller must ensure i < d.Len.
func (d DnaBit) BaseAt(i uint8) Base {
	shift := 2 * uint(d.Len-1-i)
	return Base((d.Mer >> shift) & 3)
}

// Equal reports whether both the packed bases and the length match.
func (d DnaBit) Equal(o DnaBit) bool {
	return d.Mer == o.Mer && d.Len == o.Len
}

// ReverseComplement complements every base and reverses their order. It is an
// involution and preserves Len.
func (d DnaBit) ReverseComplement() DnaBit {
	if d.Len == 0 {
		return d
	}
	// complement all 32 pairs, then reverse the pair order of the whole word.
	x := ^d.Mer
	x = (x>>2)&pairSwapMask | (x&pairSwapMask)<<2
	x = (x>>4)&nibbleSwapMask | (x&nibbleSwapMask)<<4
	x = bits.ReverseBytes64(x)
	// the significant pairs are now at the top of the word
	x >>= 64 - 2*uint(d.Len)
	return DnaBit{Mer: x & d.Mask(), Len: d.Len}
}

// Compare orders a and b as their decoded base strings with A<C<G<T. Values of
// differing length compare on their common prefix, then shorter first.
func Compare(a, b DnaBit) int {
	n := min(a.Len, b.Len)
	pa := a.Mer >> (2 * uint(a.Len-n))
	pb := b.Mer >> (2 * uint(b.Len-n))
	if c := cmp.Compare(pa, pb); c != 0 {
		return c
	}
	return cmp.Compare(a.Len, b.Len)
}

// Less reports Compare(d, o) < 0.
func (d DnaBit) Less(o DnaBit) bool { return Compare(d, o) < 0 }

// Canonical returns the lexicographically smaller of d and its reverse
// complement. flipped is true when the reverse complement was chosen; a
// reverse-palindrome keeps the forward form.
func (d DnaBit) Canonical() (canonical DnaBit, flipped bool) {
	rc := d.ReverseComplement()
	if Compare(rc, d) < 0 {
		return rc, true
	}
	return d, false
}

// IsCanonical reports whether d is already in canonical form.
func (d DnaBit) IsCanonical() bool {
	_, flipped := d.Canonical()
	return !flipped
}

// PushBack drops the first base and appends b on the right.
func (d DnaBit) PushBack(b Base) DnaBit {
	d.Mer = (d.Mer<<2 | uint64(b&3)) & d.Mask()
	return d
}

// PushFront drops the last base and prepends b on the left.
func (d DnaBit) PushFront(b Base) DnaBit {
	if d.Len == 0 {
		return d
	}
	d.Mer = d.Mer>>2 | uint64(b&3)<<(2*uint(d.Len-1))
	return d
}

// First returns the leftmost base.
func (d DnaBit) First() Base { return d.BaseAt(0) }

// Last returns the rightmost base.
func (d DnaBit) Last() Base { return Base(d.Mer & 3) }
