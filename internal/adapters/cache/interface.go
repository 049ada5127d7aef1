package cache

// hitResult is the outcome of a cache lookup. claimed means the caller now
// owns the entry and must either set it or delete it.
type hitResult[T any] struct {
	data    T
	valid   bool
	claimed bool
}

type Cache[T any] interface {
	getOrClaim(key string) hitResult[T]
	set(key string, data T)
	delete(key string)
	wait()
}
