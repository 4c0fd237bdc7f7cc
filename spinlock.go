package txcmap

import "sync/atomic"

// defaultSpinBudget is the number of spin attempts before Lock falls
// back to yielding.
const defaultSpinBudget = 4096

// defaultTransactionRetryBudget is the number of optimistic retries
// Transact attempts before falling back to pessimistic locking.
const defaultTransactionRetryBudget = 3

// SpinLock is a mutual-exclusion primitive whose lock state is a single
// word (alongside its spin/retry configuration), with an additional
// transaction scope. The zero value is a valid, unlocked SpinLock with
// default spin and retry budgets.
//
// Replaces a Mutex with a spinlock the way bucketOf does for its
// per-bucket lock (bucketOf.lock/tryLock/unlock over a bit in the meta
// word) — here generalized into a standalone, reusable type since this
// package's spinlock is a first-class exported primitive rather than an
// implementation detail of one bucket type.
type SpinLock struct {
	state atomic.Uint32

	spinBudget     int
	retryBudget    int
	forceHTMOff    bool
	forceHTMOffSet bool
}

// lockFlag is the only bit SpinLock.state ever uses. A wider word is
// kept (rather than atomic.Bool) so a future revision could pack a
// payload alongside the flag without changing the type's size — the same
// shape as a lock word that optionally carries a payload pointer whose
// least significant bit is the lock flag.
const lockFlag uint32 = 1

// NewSpinLock creates a SpinLock with the given options applied. Using
// the zero value directly is equally valid and uses the package
// defaults; NewSpinLock exists for callers who want non-default spin or
// transaction-retry budgets without exporting the fields.
func NewSpinLock(opts ...LockOption) *SpinLock {
	l := &SpinLock{spinBudget: defaultSpinBudget, retryBudget: defaultTransactionRetryBudget}
	for _, o := range opts {
		o(l)
	}
	return l
}

// LockOption configures a SpinLock at construction time, following the
// same functional-options shape as WithPresize/WithShrinkEnabled for
// MapOf.
type LockOption func(*SpinLock)

// WithSpinBudget overrides the number of spin attempts before Lock
// yields to the scheduler. Default: 4096.
func WithSpinBudget(n int) LockOption {
	return func(l *SpinLock) { l.spinBudget = n }
}

// WithTransactionRetryBudget overrides the number of optimistic retries
// Transact attempts before falling back to pessimistic locking.
// Default: 3.
func WithTransactionRetryBudget(n int) LockOption {
	return func(l *SpinLock) { l.retryBudget = n }
}

func (l *SpinLock) spinBudgetOrDefault() int {
	if l.spinBudget > 0 {
		return l.spinBudget
	}
	return defaultSpinBudget
}

func (l *SpinLock) retryBudgetOrDefault() int {
	if l.retryBudget > 0 {
		return l.retryBudget
	}
	return defaultTransactionRetryBudget
}

// TryLock attempts to acquire the lock without blocking. Ordering:
// acquire on success. Lock-free: never spins, never yields.
func (l *SpinLock) TryLock() bool {
	return l.state.CompareAndSwap(0, lockFlag)
}

// Lock bounded-spins calling TryLock, yielding to the scheduler after
// spinBudget unproductive attempts. There is no fairness guarantee and no
// OS mutex fallback; given well-formed use (no thread holds the lock
// forever) Lock cannot deadlock, but it is not wait-free.
func (l *SpinLock) Lock() {
	spins := 0
	budget := l.spinBudgetOrDefault()
	for !l.TryLock() {
		backoff(&spins, budget)
	}
}

// Unlock releases the lock. Ordering: release. Panics on a non-holder —
// see LockedPointer.Unlock for why this package panics rather than
// silently ignoring the contract violation.
func (l *SpinLock) Unlock() {
	if !l.state.CompareAndSwap(lockFlag, 0) {
		panic(ErrNotLockHolder)
	}
}

// IsLocked is a relaxed, best-effort observation — a hint only, not
// sufficient for synchronization.
func (l *SpinLock) IsLocked() bool {
	return l.state.Load()&lockFlag != 0
}

// Guard provides RAII-style scoped locking via defer, the Go equivalent
// of the original's std::lock_guard<decltype(lock)>.
type Guard struct{ l *SpinLock }

// Lock acquires l and returns a Guard that releases it; typical use is
// `defer txcmap.Lock(l).Unlock()`.
func Lock(l *SpinLock) Guard {
	l.Lock()
	return Guard{l}
}

// Unlock releases the lock this Guard was created for.
func (g Guard) Unlock() { g.l.Unlock() }

// Transact executes body under a transaction scope: begin the
// transaction, run body, end the transaction.
//
//  1. If hardware-transaction support is available and not forced off,
//     attempt body inside a hardware transaction via TryTransact, up to
//     the transaction retry budget. A commit makes body's effects
//     globally visible atomically without ever acquiring l. TryTransact
//     in this package always reports an abort without running body, so
//     no attempt commits and body always runs under step 2.
//  2. If every attempt aborts (or hardware-transaction support is
//     unavailable), fall back to pessimistic execution: Lock, run body,
//     Unlock — identical to what every other SpinLock consumer sees, so
//     the scope is observationally a critical section under l either way.
//
// If body returns a non-nil error, an in-progress hardware transaction
// aborts and the error is retried/propagated exactly like a conflict
// abort; the pessimistic path unlocks before propagating the error.
//
// body must be reentrancy-safe: no nested acquisition of this same lock,
// and no effects that cannot be safely re-run or discarded (no syscalls,
// no I/O) — this package does not and cannot enforce that contract.
func (l *SpinLock) Transact(body func() error) error {
	if l.hasHTM() {
		budget := l.retryBudgetOrDefault()
		for attempt := 0; attempt < budget; attempt++ {
			if res, err := TryTransact(&l.state, lockFlag, body); res == TransactionCommitted {
				return err
			}
		}
	}
	g := Lock(l)
	defer g.Unlock()
	return body()
}

func (l *SpinLock) hasHTM() bool {
	if l.forceHTMOffSet {
		return !l.forceHTMOff
	}
	return HasHardwareTransactionSupport()
}
