package bitset

import (
	"iter"
	"math/bits"
)

const wordBits = 64

// Bitset is a growable set of uint32 ids. The zero value is an empty set.
type Bitset struct {
	words []uint64
}

// WordsFor returns ceil(nbits/64).
func WordsFor(nbits uint64) int {
	return int((nbits + wordBits - 1) / wordBits)
}

func wordIndex(i uint32) (int, uint64) {
	return int(i / wordBits), uint64(1) << (i % wordBits)
}

// grow ensures words[w] is addressable.
func (b *Bitset) grow(w int) {
	if w < len(b.words) {
		return
	}
	n := max(2*len(b.words), w+1)
	words := make([]uint64, n)
	copy(words, b.words)
	b.words = words
}

// Set sets bit i and reports whether it was previously clear.
func (b *Bitset) Set(i uint32) bool {
	w, m := wordIndex(i)
	b.grow(w)
	if b.words[w]&m != 0 {
		return false
	}
	b.words[w] |= m
	return true
}

// Test reports whether bit i is set.
func (b *Bitset) Test(i uint32) bool {
	w, m := wordIndex(i)
	if w >= len(b.words) {
		return false
	}
	return b.words[w]&m != 0
}

// Count returns the number of set bits.
func (b *Bitset) Count() int {
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Cap returns the number of bits the current storage can address.
func (b *Bitset) Cap() int { return len(b.words) * wordBits }

// Clone returns an independent copy.
func (b *Bitset) Clone() Bitset {
	if b.words == nil {
		return Bitset{}
	}
	words := make([]uint64, len(b.words))
	copy(words, b.words)
	return Bitset{words: words}
}

// Equal compares the set contents, ignoring trailing unused storage.
func (b *Bitset) Equal(o *Bitset) bool {
	short, long := b.words, o.words
	if len(short) > len(long) {
		short, long = long, short
	}
	for i, w := range short {
		if w != long[i] {
			return false
		}
	}
	for _, w := range long[len(short):] {
		if w != 0 {
			return false
		}
	}
	return true
}

// All yields the set ids in ascending order.
func (b *Bitset) All() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for wi, w := range b.words {
			for w != 0 {
				tz := bits.TrailingZeros64(w)
				if !yield(uint32(wi*wordBits + tz)) {
					return
				}
				w &= w - 1
			}
		}
	}
}

// Slice returns the set ids in ascending order.
func (b *Bitset) Slice() []uint32 {
	out := make([]uint32, 0, b.Count())
	for i := range b.All() {
		out = append(out, i)
	}
	return out
}
