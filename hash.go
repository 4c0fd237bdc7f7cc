package txcmap

import "hash/maphash"

// HashFunc hashes a key of type K. Map.Find/Insert use the result
// modulo the bucket count to select a bucket.
type HashFunc[K comparable] func(key K) uint64

// defaultHasher builds the general-purpose scalar hash used when a Map
// is not configured with WithHasher, seeded per-Map so that two Maps (or
// two process runs) don't share hash-flooding-prone behavior. hash/maphash's
// Comparable entry point (Go 1.24+) gives every comparable K a correct,
// allocation-free hash without reaching into the runtime's internal
// map-type hasher via unsafe + reflection, a trick that is a real
// cross-Go-version maintenance hazard. See DESIGN.md.
func defaultHasher[K comparable]() HashFunc[K] {
	seed := maphash.MakeSeed()
	return func(key K) uint64 {
		return maphash.Comparable(seed, key)
	}
}
