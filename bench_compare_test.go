package txcmap

import (
	"fmt"
	"testing"

	"github.com/alphadose/haxmap"
	"github.com/cornelk/hashmap"
)

// These benchmarks pit Map[K,V] head-to-head against two other
// lock/atomics-based concurrent map implementations on the same
// workload, rather than exercising either competitor from the core
// package itself — Map never imports them outside this file.

func BenchmarkCompareConcurrentInsertFind_txcmap(b *testing.B) {
	m := New[int, int](WithBucketCount(1024))
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			k := i % 100000
			m.Insert(k, k)
			m.Find(k)
			i++
		}
	})
}

func BenchmarkCompareConcurrentInsertFind_cornelkHashmap(b *testing.B) {
	m := hashmap.New[int, int]()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			k := i % 100000
			m.Insert(k, k)
			m.Get(k)
			i++
		}
	})
}

func BenchmarkCompareConcurrentInsertFind_haxmap(b *testing.B) {
	m := haxmap.New[int, int]()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			k := i % 100000
			m.Set(k, k)
			m.Get(k)
			i++
		}
	})
}

func BenchmarkSpinLockUncontended(b *testing.B) {
	l := NewSpinLock()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Lock()
		l.Unlock()
	}
}

func BenchmarkSpinLockTransact(b *testing.B) {
	l := NewSpinLock()
	counter := 0
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Transact(func() error {
			counter++
			return nil
		})
	}
	b.ReportMetric(float64(counter), "increments")
}

func BenchmarkMapConcurrentInsertErase(b *testing.B) {
	m := New[string, int](WithBucketCount(256))
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			key := fmt.Sprintf("k-%d", i%4096)
			it, inserted := m.Insert(key, i)
			if !inserted {
				m.Erase(it)
			}
			i++
		}
	})
}
