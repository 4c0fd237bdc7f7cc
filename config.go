package txcmap

// defaultBucketCount matches the original Boost.Spinlock
// concurrent_unordered_map's default bucket count.
const defaultBucketCount = 13

// defaultGrowthFactor is the multiplier applied to a bucket's current
// slot count when it is full and must grow.
const defaultGrowthFactor = 1.5

type mapConfig struct {
	bucketCount  int
	spinBudget   int
	retryBudget  int
	growthFactor float64
	hasher       any
}

// Option configures a Map at construction time, following the same
// functional-options shape as SpinLock's LockOption.
type Option func(*mapConfig)

// WithBucketCount overrides the number of buckets a Map is created with.
// Default: 13.
func WithBucketCount(n int) Option {
	return func(c *mapConfig) { c.bucketCount = n }
}

// WithMapSpinBudget overrides the spin budget passed to every SpinLock
// and LockedPointer operation a Map performs internally. Default: 4096.
func WithMapSpinBudget(n int) Option {
	return func(c *mapConfig) { c.spinBudget = n }
}

// WithMapTransactionRetryBudget overrides the retry budget configured on
// each bucket's resizeLock. resize and clear always take resizeLock's
// plain Lock/Unlock path today — their bodies allocate, which a hardware
// transaction can't safely contain — so this currently only matters if a
// future per-bucket operation starts calling resizeLock.Transact.
// Default: 3.
func WithMapTransactionRetryBudget(n int) Option {
	return func(c *mapConfig) { c.retryBudget = n }
}

// WithGrowthFactor overrides the multiplier applied to a bucket's
// current slot count when it must grow. Default: 1.5.
func WithGrowthFactor(f float64) Option {
	return func(c *mapConfig) { c.growthFactor = f }
}

// WithHasher overrides the hash function a Map uses for its keys. The
// type parameter must match the Map's own key type, or New panics.
func WithHasher[K comparable](h HashFunc[K]) Option {
	return func(c *mapConfig) { c.hasher = h }
}
