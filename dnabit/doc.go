package dnabit

/*

# 2-bit packed DNA

This package packs runs of up to 32 nucleotides into a single uint64 and
provides the primitive operations the k-mer and de Bruijn graph packages are
built from.

It follows the same "functional primitives" style as the rest of this module:

- small, composable functions over plain values
- an explicit bit layout
- a burden of knowledge on the caller for hot paths (PushBack, PushFront and
  BaseAt do not re-validate their inputs)

## Layout

Each base occupies two bits:

	A = 0b00, C = 0b01, G = 0b10, T = 0b11

The first base of a sequence is the most significant pair of the low 2*Len
bits. Bits above 2*Len are always zero. For example "ACGT" packs as

	0b00_01_10_11 = 0x1B

Because the code order equals the alphabet order, two values of the same
length compare lexicographically when compared as integers. Complementing a
base is `b ^ 3`.

## Canonical form

A k-mer and its reverse complement describe the same double stranded locus.
The canonical form is whichever of the two is lexicographically smaller. For
reverse-palindromes (only possible for even lengths) the two are identical and
the forward form is kept.

*/
