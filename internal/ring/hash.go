// Package ring implements the consistent-hash ring that maps keys onto a
// dynamically-growing set of physical nodes.
//
// Big idea:
//
// In a distributed key-value store, we must decide:
//
//	"Which node is responsible for this key?"
//
// Naive hash(key) % N remapping almost every key whenever a node joins.
// Consistent hashing instead places both nodes and keys on a single ring
// of 32-bit coordinates; a key belongs to the first node found walking
// clockwise from its coordinate, so adding a node only disturbs the keys
// nearest to it.
package ring

import "github.com/cespare/xxhash/v2"

// Hash is the single 32-bit, non-cryptographic hash function used for every
// ring coordinate and every key lookup. It is seeded with zero in the sense
// that it takes no external seed or salt: the same bytes always produce the
// same coordinate, in this process or the next, which is what makes ring
// placement reproducible across runs.
//
// We truncate xxhash's 64-bit digest to its low 32 bits rather than
// reaching for a 32-bit hash implementation, since xxhash64 is already the
// fast non-cryptographic hash this corpus reaches for (see the HyperCache
// and node-manager examples) and truncation keeps the ring's 2^32 coordinate
// space exactly as sized in the spec.
func Hash(b []byte) uint32 {
	return uint32(xxhash.Sum64(b))
}

// HashString is a convenience wrapper avoiding a []byte conversion at call
// sites that already hold a string.
func HashString(s string) uint32 {
	return uint32(xxhash.Sum64String(s))
}
