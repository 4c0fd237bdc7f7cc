// Package txcmap provides a fine-grained mutual-exclusion primitive
// capable of opportunistically using hardware memory transactions as a
// fast path (SpinLock), and a thread-safe associative container built on
// top of it whose point operations are mostly wait-free (Map).
//
// SpinLock is a spinlock whose lock state is one word, with an explicit
// transaction scope: where the CPU reports the restricted-transactional-
// memory capability this package probes for, Transact calls TryTransact
// a bounded number of times before falling back to ordinary mutual
// exclusion. TryTransact emits no hardware transaction instructions and
// always reports an abort without running the body, so every Transact
// body runs under the lock.
//
// Map is a bucketed hash table. Each bucket owns a growable array of
// slots and a pair of entered/exited counters that let readers and
// writers proceed without a bucket-wide lock except during a bucket
// resize, which is itself rare and localized to the growing bucket.
//
// Map does not support shrinking or rehashing a live table beyond a
// single Reserve call before first use; see Reserve for details.
package txcmap
