package txcmap

// Iterator identifies a single entry in a Map by bucket and slot offset.
// The zero value is not a usable iterator — obtain one from Find,
// Insert, Begin, or Next.
//
// Iteration order follows bucket order then slot order and has no
// relationship to insertion order or key order. An Iterator is a
// snapshot of a position, not a stable handle: a concurrent Erase of the
// entry it points to, or a concurrent resize of its bucket, can leave it
// pointing at stale or reused storage. Use iterators only for the
// single-step patterns Find/Insert followed immediately by Erase,
// or a single-threaded walk via Begin/Next with no concurrent mutation.
type Iterator[K comparable, V any] struct {
	m         *Map[K, V]
	bucketIdx int
	offset    int
	end       bool
}

// Begin returns an Iterator at the first live entry in bucket/slot
// order, or End() if the map is empty.
func (m *Map[K, V]) Begin() Iterator[K, V] {
	return m.advance(Iterator[K, V]{m: m, bucketIdx: 0, offset: -1})
}

// End returns the sentinel Iterator one past the last entry.
func (m *Map[K, V]) End() Iterator[K, V] {
	return Iterator[K, V]{m: m, end: true}
}

// advance returns the next live entry strictly after it's current
// position, or End() if there is none.
func (m *Map[K, V]) advance(it Iterator[K, V]) Iterator[K, V] {
	if it.end {
		return it
	}
	it.offset++
	for it.bucketIdx < len(m.buckets) {
		b := m.buckets[it.bucketIdx]
		for it.offset < len(b.slots) {
			if b.slots[it.offset].ptr.Get() != nil {
				return it
			}
			it.offset++
		}
		it.bucketIdx++
		it.offset = 0
	}
	return m.End()
}

// Valid reports whether it refers to a live entry rather than End().
func (it Iterator[K, V]) Valid() bool {
	return !it.end && it.m != nil
}

// Next returns an Iterator at the next live entry after it.
func (it Iterator[K, V]) Next() Iterator[K, V] {
	return it.m.advance(it)
}

// Key returns the key at it's position. Panics if it is not Valid.
func (it Iterator[K, V]) Key() K {
	return it.entry().key
}

// Value returns the value at it's position. Panics if it is not Valid.
func (it Iterator[K, V]) Value() V {
	return it.entry().value
}

func (it Iterator[K, V]) entry() *entry[K, V] {
	if it.end || it.m == nil {
		panic("txcmap: Key/Value called on an invalid Iterator")
	}
	b := it.m.buckets[it.bucketIdx]
	e := b.slots[it.offset].ptr.Get()
	if e == nil {
		panic("txcmap: Key/Value called on an Iterator whose entry was erased")
	}
	return e
}
