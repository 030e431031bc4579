package ply

// positionCache is the bounded, LRU-evicted instance→byte-offset index used
// to seek backward to earlier vertex instances when reconstructing faces,
// per the module's stream-position cache design. Binary vertex elements
// (fixed instance size) never need a cache miss fallback scan since their
// offset is a direct formula; ASCII vertex elements do, since line lengths
// vary and the only way to find instance i's start is to have passed it.
type positionCache struct {
	capacity int
	offsets  map[int]int64
	recency  []int // most-recently-used at the end
}

func newPositionCache(capacity int) *positionCache {
	if capacity < 1 {
		capacity = 1
	}
	return &positionCache{capacity: capacity, offsets: make(map[int]int64)}
}

func (c *positionCache) Get(instance int) (int64, bool) {
	off, ok := c.offsets[instance]
	if ok {
		c.touch(instance)
	}
	return off, ok
}

func (c *positionCache) Put(instance int, offset int64) {
	if _, exists := c.offsets[instance]; !exists && len(c.offsets) >= c.capacity {
		c.evictOldest()
	}
	c.offsets[instance] = offset
	c.touch(instance)
}

func (c *positionCache) touch(instance int) {
	for i, v := range c.recency {
		if v == instance {
			c.recency = append(c.recency[:i], c.recency[i+1:]...)
			break
		}
	}
	c.recency = append(c.recency, instance)
}

func (c *positionCache) evictOldest() {
	if len(c.recency) == 0 {
		return
	}
	oldest := c.recency[0]
	c.recency = c.recency[1:]
	delete(c.offsets, oldest)
}
