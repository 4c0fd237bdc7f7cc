package txcmap

import "sync/atomic"

// Map is a concurrent associative container keyed by K, storing values
// of type V. It is organized as a fixed vector of buckets, each owning
// its own independently growable slot array; Find/Insert/Erase touch
// only the one bucket a key hashes to, and avoid any bucket-wide lock
// except while that bucket is actually resizing.
//
// The zero value is not usable; construct with New.
type Map[K comparable, V any] struct {
	buckets []*bucket[K, V]
	size    atomic.Int64
	hash    HashFunc[K]
	cfg     mapConfig
}

// New constructs a Map ready for concurrent use.
func New[K comparable, V any](opts ...Option) *Map[K, V] {
	cfg := mapConfig{
		bucketCount:  defaultBucketCount,
		spinBudget:   defaultSpinBudget,
		retryBudget:  defaultTransactionRetryBudget,
		growthFactor: defaultGrowthFactor,
	}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.bucketCount <= 0 {
		cfg.bucketCount = defaultBucketCount
	}
	if cfg.growthFactor <= 1.0 {
		cfg.growthFactor = defaultGrowthFactor
	}

	m := &Map[K, V]{cfg: cfg}
	if cfg.hasher != nil {
		hf, ok := cfg.hasher.(HashFunc[K])
		if !ok {
			panic("txcmap: WithHasher's key type does not match this Map's key type")
		}
		m.hash = hf
	} else {
		m.hash = defaultHasher[K]()
	}

	m.buckets = make([]*bucket[K, V], cfg.bucketCount)
	for i := range m.buckets {
		m.buckets[i] = m.newBucket()
	}
	return m
}

func (m *Map[K, V]) newBucket() *bucket[K, V] {
	b := &bucket[K, V]{}
	b.resizeLock = SpinLock{spinBudget: m.cfg.spinBudget, retryBudget: m.cfg.retryBudget}
	return b
}

func (m *Map[K, V]) bucketFor(hash uint64) (*bucket[K, V], int) {
	idx := int(hash % uint64(len(m.buckets)))
	return m.buckets[idx], idx
}

// Find looks up key and returns an Iterator positioned at it along with
// true, or a zero Iterator and false if key is not present.
func (m *Map[K, V]) Find(key K) (Iterator[K, V], bool) {
	h := m.hash(key)
	b, bi := m.bucketFor(h)

	b.enter(m.cfg.spinBudget)
	defer b.exit()

	start := 0
	for {
		idx, ok := b.find(start, h, nil, m.cfg.spinBudget)
		if !ok {
			return Iterator[K, V]{}, false
		}
		s := &b.slots[idx]
		e := s.ptr.Get()
		if e.key == key {
			s.ptr.Unlock()
			return Iterator[K, V]{m: m, bucketIdx: bi, offset: idx}, true
		}
		s.ptr.Unlock()
		start = idx + 1
	}
}

// Insert associates key with value if key is not already present.
// Returns an Iterator positioned at the (possibly pre-existing) entry
// and whether this call actually inserted it.
func (m *Map[K, V]) Insert(key K, value V) (Iterator[K, V], bool) {
	h := m.hash(key)
	b, bi := m.bucketFor(h)

	emptyHint := -1
	b.enter(m.cfg.spinBudget)
	start := 0
	for {
		idx, ok := b.find(start, h, &emptyHint, m.cfg.spinBudget)
		if !ok {
			break
		}
		s := &b.slots[idx]
		e := s.ptr.Get()
		if e.key == key {
			s.ptr.Unlock()
			b.exit()
			return Iterator[K, V]{m: m, bucketIdx: bi, offset: idx}, false
		}
		s.ptr.Unlock()
		start = idx + 1
	}
	b.exit()

	hint := emptyHint
	if hint < 0 {
		hint = 0
	}
	offset, inserted := b.insert(key, value, h, hint, m.cfg.spinBudget, m.cfg.growthFactor)
	if inserted {
		m.size.Add(1)
	}
	return Iterator[K, V]{m: m, bucketIdx: bi, offset: offset}, inserted
}

// Erase removes the entry it points to and returns an iterator to the
// next live entry, the same way std::map::erase does. it must have come
// from a successful Find or Insert on this Map and must not have been
// invalidated by an intervening Erase of the same entry.
func (m *Map[K, V]) Erase(it Iterator[K, V]) Iterator[K, V] {
	b := m.buckets[it.bucketIdx]
	if v := b.remove(it.offset, m.cfg.spinBudget); v != nil {
		m.size.Add(-1)
	}
	return m.advance(it)
}

// Clear removes every entry from the map.
func (m *Map[K, V]) Clear() {
	for _, b := range m.buckets {
		b.clear(m.cfg.spinBudget)
	}
	m.size.Store(0)
}

// Reserve replaces the bucket vector with one sized for n buckets. It
// only succeeds on an empty map; rehashing a populated table is not
// supported, mirroring the original concurrent_unordered_map's
// reserve().
func (m *Map[K, V]) Reserve(n int) error {
	if m.size.Load() != 0 {
		return ErrCannotReserveNonEmpty
	}
	if n <= 0 {
		n = 1
	}
	buckets := make([]*bucket[K, V], n)
	for i := range buckets {
		buckets[i] = m.newBucket()
	}
	m.buckets = buckets
	return nil
}

// Empty reports whether the map currently holds no entries.
func (m *Map[K, V]) Empty() bool {
	return m.size.Load() == 0
}

// Size returns the number of entries currently in the map. Under
// concurrent mutation this is a snapshot, not a linearized count.
func (m *Map[K, V]) Size() int64 {
	return m.size.Load()
}
