package curve

// Cache is the per-curve-instance cursor that remembers the key segment of the last sample.
// While playback moves forward, lookups cost O(1) instead of a binary search. A seek must
// call Reset; stale caches still sample correctly but lose the fast path.
type Cache struct {
	// Index is the left key of the last sampled segment, or -1 when unset.
	Index int
}

// NewCache returns a reset cache.
func NewCache() Cache {
	return Cache{Index: -1}
}

// Reset invalidates the cursor.
func (c *Cache) Reset() {
	c.Index = -1
}

// ResetAll invalidates every cursor in caches.
func ResetAll(caches []Cache) {
	for i := range caches {
		caches[i].Index = -1
	}
}
