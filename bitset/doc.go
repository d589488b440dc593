package bitset

/*

# Growable bitsets for read provenance

A Bitset records which read ids contributed to a graph node. Ids arrive in no
particular order and the highest id is not known up front, so storage grows on
demand.

## Bit numbering

We use the same LSB0 convention as the module's other bit layouts: bit 0 is
the least significant bit of word 0, bit 64 is the least significant bit of
word 1, and so on.

## Growth

Storage only ever grows. When Set addresses a word beyond the current
capacity the backing slice is reallocated to at least double its previous
length, so a node that sees n reads performs O(log n) reallocations.

*/
