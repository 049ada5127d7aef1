package cache

// mockCache wraps a basicCache and records operations for tests
type mockCache[T any] struct {
	inner *basicCache[T]

	getOrClaimCalls int
	setCalls        int
	deleteCalls     int
	waitCalls       int
}

func (c *mockCache[T]) getOrClaim(key string) hitResult[T] {
	c.getOrClaimCalls++
	return c.inner.getOrClaim(key)
}

func (c *mockCache[T]) set(key string, data T) {
	c.setCalls++
	c.inner.set(key, data)
}

func (c *mockCache[T]) delete(key string) {
	c.deleteCalls++
	c.inner.delete(key)
}

func (c *mockCache[T]) wait() {
	c.waitCalls++
}

func newMockCache[T any]() *mockCache[T] {
	return &mockCache[T]{
		inner: NewBasicCache[T](),
	}
}
