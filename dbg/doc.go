package dbg

/*

# De Bruijn graph node model

A Graph holds one Node per canonical k-mer observed in a set of reads. Nodes
are keyed by the packed bases of the canonical k-mer, so a k-mer and its
reverse complement always resolve to the same node.

## Edge mask

Each node carries a single byte describing which one-base extensions have
been observed, expressed in the node's canonical orientation:

	bit:   7 6 5 4   3 2 1 0
	base:  T G C A   T G C A
	       left/in   right/out

A right edge for base b means the k-mer followed by b was seen; a left edge
means b followed by the k-mer was seen. When a read contributes the reverse
complement of the canonical k-mer, its extensions are re-expressed on the
canonical strand before they are merged (see FlipEdges). A reverse-palindrome
(even k only) is canonical on both strands, so its mask always holds each
extension together with its flipped form.

Edges and provenance are only ever added. Both merges are bitwise ORs, so the
order in which reads are applied does not change the final graph.

## Locking

The key space is striped over a power-of-two number of shards, each with its
own lock. A create-or-merge holds exactly one shard lock for its duration, so
updates to unrelated keys proceed in parallel and every update to a node is
atomic. Lookups return copies taken under the shard lock.

*/
