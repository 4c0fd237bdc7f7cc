package txcmap

import "errors"

// ErrCannotReserveNonEmpty is returned by Reserve when the map already
// holds entries — the exact phrasing of the original Boost.Spinlock
// source's std::runtime_error message for the same rejection.
var ErrCannotReserveNonEmpty = errors.New("txcmap: cannot rehash existing content")

// ErrNotLockHolder documents the contract violation of unlocking a
// SpinLock or LockedPointer the caller does not hold. It is never
// returned as an error value — Unlock panics with it directly, since
// this is always a bug in the caller rather than a runtime condition to
// recover from, and Go has no separate debug/release build split to gate
// a softer assertion behind.
var ErrNotLockHolder = errors.New("txcmap: unlock by non-holder")

// ErrOutOfMemory would surface an allocation failure during Insert or
// resize. Go's allocator does not return allocation failures to callers
// — it panics the whole process — so no code path in this package can
// construct this error. It is kept as a named sentinel only; neither
// bucket.insert nor bucket.resize has an error return path.
var ErrOutOfMemory = errors.New("txcmap: allocation failed")
