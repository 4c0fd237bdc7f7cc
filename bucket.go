package txcmap

import "unsafe"

// bucket owns a growable array of slots plus the entered/exited counter
// pair that lets readers and writers proceed lock-free most of the time.
// A goroutine that wants to touch slots calls enter, does its work, and
// calls exit; a resize only runs once it has observed entered == exited,
// i.e. no using-scope is currently open, and holds resizeLock for its
// duration so at most one resize runs per bucket at a time.
//
// slots is never shrunk and never reallocated except under resizeLock
// with the bucket quiescent, so code that is inside a using-scope may
// read bucket.slots directly without further synchronization.
type bucket[K comparable, V any] struct {
	entered    atomicUint64Pad
	exited     atomicUint64Pad
	resizeLock SpinLock

	slots []slot[K, V]

	pad [(CacheLineSize - unsafe.Sizeof(struct {
		entered    atomicUint64Pad
		exited     atomicUint64Pad
		resizeLock SpinLock
		slots      []byte
	}{})%CacheLineSize) % CacheLineSize]byte
}

// enter begins a using-scope: the calling goroutine promises to only
// read/mutate b.slots for indices it holds a slot lock on (or is merely
// scanning), and to call exit exactly once before returning. If a resize
// is in progress, enter blocks (via a real Lock/Unlock cycle on
// resizeLock, not a bare spin on the flag) until it completes, so the
// goroutine is guaranteed to observe the post-resize slots array.
func (b *bucket[K, V]) enter(spinBudget int) {
	b.entered.v.Add(1)
	for b.resizeLock.IsLocked() {
		b.exited.v.Add(1)
		b.resizeLock.Lock()
		b.resizeLock.Unlock()
		b.entered.v.Add(1)
	}
}

// exit ends a using-scope begun by enter.
func (b *bucket[K, V]) exit() {
	b.exited.v.Add(1)
}

// quiesce blocks until every using-scope that was open when it was
// called has exited, i.e. entered == exited. Must be called with
// resizeLock already held, so no new using-scope can observe a stale
// resizeLock state and race ahead of the wait.
func (b *bucket[K, V]) quiesce(spinBudget int) {
	spins := 0
	for b.entered.v.Load() != b.exited.v.Load() {
		backoff(&spins, spinBudget)
	}
}

// find scans slots starting at index start looking for one whose cached
// hash matches, locking and returning the first such slot still holding
// a payload. Index positions whose hash does not match and whose
// payload is nil are recorded once into *outEmpty (if outEmpty is
// non-nil and *outEmpty is still negative), giving Map.Insert a
// candidate to reuse without a second scan. Must be called from within
// an open using-scope. On success the returned slot is left locked; the
// caller is responsible for unlocking it.
func (b *bucket[K, V]) find(start int, hash uint64, outEmpty *int, spinBudget int) (offset int, ok bool) {
	for i := start; i < len(b.slots); i++ {
		s := &b.slots[i]
		if s.hash != hash {
			if outEmpty != nil && *outEmpty < 0 && s.ptr.Get() == nil {
				*outEmpty = i
			}
			continue
		}
		s.ptr.Lock(spinBudget)
		if s.hash == hash && s.ptr.Get() != nil {
			return i, true
		}
		s.ptr.Unlock()
	}
	return -1, false
}

// insert finds-or-claims a slot for key, growing the slot array as
// needed. If a slot already holds an equal key (a race against a
// concurrent insert of the same key that slipped past the caller's own
// find pass), insert returns that slot's offset and inserted=false
// without touching it further. hint is a starting offset to scan from,
// typically an empty slot already observed by find.
func (b *bucket[K, V]) insert(key K, value V, hash uint64, hint int, spinBudget int, growthFactor float64) (offset int, inserted bool) {
	for {
		empty := -1
		found := -1
		b.enter(spinBudget)
		n := len(b.slots)
		for i := hint; i < n; i++ {
			s := &b.slots[i]
			if s.hash == hash {
				if !s.ptr.TryLock() {
					continue
				}
				if e := s.ptr.Get(); e != nil && e.key == key {
					found = i
					s.ptr.Unlock()
					break
				}
				s.ptr.Unlock()
				continue
			}
			// Keep scanning past a claimed empty slot: a duplicate key
			// further along the bucket still has to win over it.
			if empty < 0 && s.ptr.Get() == nil && s.ptr.TryLock() {
				// Re-check under the lock: the peek above is racy, and
				// another goroutine may have filled this slot between
				// the peek and the TryLock succeeding.
				if s.ptr.Get() != nil {
					s.ptr.Unlock()
					continue
				}
				empty = i
			}
		}
		if found >= 0 && empty >= 0 {
			// Duplicate won; release the empty slot reservation while
			// still inside the using-scope so this read of b.slots can't
			// race a concurrent resize's write of the same field.
			b.slots[empty].ptr.Unlock()
		}
		b.exit()

		if found >= 0 {
			return found, false
		}
		if empty >= 0 {
			offset = empty
			break
		}

		next := int(float64(n) * growthFactor)
		if next <= n {
			next = n + 1
		}
		b.resize(next, spinBudget)
		hint = n
	}

	v := &entry[K, V]{key: key, value: value}

	b.enter(spinBudget)
	s := &b.slots[offset]
	s.hash = hash
	s.ptr.Set(v)
	s.ptr.Unlock()
	b.exit()

	return offset, true
}

// remove locks the slot at offset, detaches its payload, and returns it
// (nil if it was already empty). The slot's cached hash is cleared while
// still under the slot lock, before Detach releases it.
func (b *bucket[K, V]) remove(offset int, spinBudget int) *entry[K, V] {
	b.enter(spinBudget)
	defer b.exit()

	s := &b.slots[offset]
	s.ptr.Lock(spinBudget)
	if s.ptr.Get() == nil {
		s.ptr.Unlock()
		return nil
	}
	s.hash = 0
	return s.ptr.Detach()
}

// clear empties every slot in the bucket. Waits for quiescence under
// resizeLock exactly like resize, since clearing concurrently with a
// live using-scope would race the same way a resize would.
func (b *bucket[K, V]) clear(spinBudget int) {
	b.resizeLock.Lock()
	defer b.resizeLock.Unlock()
	b.quiesce(spinBudget)

	for i := range b.slots {
		b.slots[i].ptr.reset()
		b.slots[i].hash = 0
	}
}

// resize grows the slot array to at least newCount entries. It is a
// no-op if the bucket already has newCount or more slots — this package
// only ever grows a bucket's slot array, never shrinks it.
//
// Every existing slot's raw state (including a slot that is currently
// locked, empty, and mid-construction by a concurrent insert that has
// already left its using-scope to allocate the entry) is carried over
// byte-for-byte, so an in-flight insert that resumes after this resize
// completes still finds the exact slot state it left behind.
func (b *bucket[K, V]) resize(newCount int, spinBudget int) {
	b.resizeLock.Lock()
	defer b.resizeLock.Unlock()

	if newCount <= len(b.slots) {
		return
	}
	b.quiesce(spinBudget)
	if newCount <= len(b.slots) {
		return
	}

	grown := make([]slot[K, V], newCount)
	for i := range b.slots {
		grown[i].ptr.transplantFrom(&b.slots[i].ptr)
		grown[i].hash = b.slots[i].hash
	}
	b.slots = grown
}
