package txcmap

import "sync/atomic"

// lockedFlag is the only bit LockedPointer's lock word ever uses.
const lockedFlag = uint32(1)

// LockedPointer is a lock flag in its own word paired with a GC-traced
// atomic.Pointer[T] for the payload. The flag and the payload pointer
// are deliberately kept in separate words rather than packed into one,
// the way an earlier revision of this type tagged the flag into the
// pointer's own low bit via atomic.Uintptr: a uintptr is a scalar the
// garbage collector does not trace, so a pointer value kept alive only
// as a uintptr can be collected out from under a slot that is still
// logically holding it. bucketOf avoids the same trap by storing
// entries as GC-traced unsafe.Pointer (storePointer into
// bucketOf.entries) and keeping its lock bit in a wholly separate meta
// word (opLockMask) that never touches the entry pointer itself; this
// type follows that separation, just scoped to one slot instead of one
// bucket.
//
// The zero value is a valid, unlocked, empty LockedPointer.
type LockedPointer[T any] struct {
	locked atomic.Uint32
	p      atomic.Pointer[T]
}

// TryLock attempts to acquire the cell's lock without blocking. It
// succeeds whether the cell currently holds a pointer or is empty — the
// lock protects the right to read/mutate the payload, not its presence.
// Ordering: acquire on success.
func (c *LockedPointer[T]) TryLock() bool {
	return c.locked.CompareAndSwap(0, lockedFlag)
}

// Lock bounded-spins on TryLock, yielding to the scheduler after
// spinBudget unproductive attempts, using the same backoff policy shared
// throughout this package.
func (c *LockedPointer[T]) Lock(spinBudget int) {
	spins := 0
	for !c.TryLock() {
		backoff(&spins, spinBudget)
	}
}

// Unlock releases the cell's lock. Ordering: release. Panics if the cell
// was not locked, since Go has no separate debug/release build split and
// a silent no-op would hide a real bug in calling code.
func (c *LockedPointer[T]) Unlock() {
	if !c.locked.CompareAndSwap(lockedFlag, 0) {
		panic(ErrNotLockHolder)
	}
}

// IsLocked is a relaxed hint only — not sufficient for synchronization on
// its own.
func (c *LockedPointer[T]) IsLocked() bool {
	return c.locked.Load()&lockedFlag != 0
}

// Get returns the payload pointer. Valid only while the caller holds the
// lock.
func (c *LockedPointer[T]) Get() *T {
	return c.p.Load()
}

// Set stores a new payload pointer. Requires the lock to be held by the
// caller.
func (c *LockedPointer[T]) Set(p *T) {
	c.p.Store(p)
}

// Detach extracts the payload and leaves the cell empty-and-unlocked.
// The caller must hold the lock before calling Detach; Detach itself
// performs the unlock. The payload is cleared before the lock is
// released, so no other goroutine can observe the old payload through a
// freshly acquired lock.
func (c *LockedPointer[T]) Detach() *T {
	p := c.p.Swap(nil)
	c.locked.Store(0)
	return p
}

// reset forces the cell to empty-and-unlocked regardless of its current
// state. Only safe to call when the caller has exclusive access to the
// cell by some other means (e.g. bucket.clear, which holds resizeLock
// with the bucket quiescent) rather than via the cell's own lock.
func (c *LockedPointer[T]) reset() {
	c.p.Store(nil)
	c.locked.Store(0)
}

// transplantFrom copies src's lock state and payload pointer into c.
// Used by bucket.resize to carry a slot's exact state — including a lock
// held by a construction still in flight — into a freshly grown slot
// array. Safe without further synchronization because resize only calls
// this while the source bucket is quiescent and the destination array
// is not yet published to any other goroutine.
func (c *LockedPointer[T]) transplantFrom(src *LockedPointer[T]) {
	c.p.Store(src.p.Load())
	c.locked.Store(src.locked.Load())
}
