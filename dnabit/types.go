package dnabit

import (
	"errors"
	"fmt"
)

// MaxBases is the number of bases that fit in a single packed word.
const MaxBases = 32

// Base is the 2-bit code of a single nucleotide.
type Base uint8

const (
	A Base = 0
	C Base = 1
	G Base = 2
	T Base = 3
)

// Bases lists the alphabet in code (and lexicographic) order.
var Bases = [4]Base{A, C, G, T}

var (
	ErrInvalidBase = errors.New("dnabit: base not in {A,C,G,T}")
	ErrLength      = errors.New("dnabit: length must be in 1..32")
)

var baseLetters = [4]byte{'A', 'C', 'G', 'T'}

// ParseBase returns the code for an upper case nucleotide letter.
func ParseBase(c byte) (Base, error) {
	switch c {
	case 'A':
		return A, nil
	case 'C':
		return C, nil
	case 'G':
		return G, nil
	case 'T':
		return T, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidBase, c)
}

// Byte returns the upper case letter for b.
func (b Base) Byte() byte { return baseLetters[b&3] }

// Complement returns the Watson-Crick partner of b (A<->T, C<->G).
func (b Base) Complement() Base { return b ^ 3 }

func (b Base) String() string { return string(b.Byte()) }

// CheckLength returns ErrLength unless 1 <= n <= MaxBases.
func CheckLength(n int) error {
	if n <= 0 || n > MaxBases {
		return fmt.Errorf("%w: got %d", ErrLength, n)
	}
	return nil
}

// ParseBases converts a whole sequence to base codes. An invalid byte anywhere
// rejects the sequence.
func ParseBases(seq []byte) ([]Base, error) {
	codes := make([]Base, len(seq))
	for i, c := range seq {
		b, err := ParseBase(c)
		if err != nil {
			return nil, fmt.Errorf("%w at offset %d", err, i)
		}
		codes[i] = b
	}
	return codes, nil
}
