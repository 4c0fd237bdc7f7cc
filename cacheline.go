package txcmap

import (
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// CacheLineSize is used to pad buckets so that adjacent buckets don't
// share a cache line. Computed exactly the way mapof.go computes it, via
// golang.org/x/sys/cpu.CacheLinePad.
const CacheLineSize = unsafe.Sizeof(cpu.CacheLinePad{})

// atomicUint64Pad is an atomic.Uint64 padded to its own cache line. A
// bucket's entered and exited counters are hammered by every goroutine
// that touches that bucket; without padding they'd sit on the same
// cache line as each other and as resizeLock, turning every enter/exit
// into cross-core contention unrelated to the lock itself. The pad
// array length is the same
// "(CacheLineSize - unsafe.Sizeof(...)%CacheLineSize) % CacheLineSize"
// constant expression bucketOf and MapOf use inline, since an array
// length must be a constant and a plain function call does not qualify.
type atomicUint64Pad struct {
	v   atomic.Uint64
	pad [(CacheLineSize - unsafe.Sizeof(atomic.Uint64{})%CacheLineSize) % CacheLineSize]byte
}
