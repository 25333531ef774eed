package scheduling

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// SlotCache memoizes slot searches. Keys include the repository revision, so
// a commit makes every older entry unreachable and they age out of the LRU.
type SlotCache struct {
	cache *lru.Cache[string, []time.Time]
}

func NewSlotCache(size int) (*SlotCache, error) {
	if size <= 0 {
		size = 256
	}
	c, err := lru.New[string, []time.Time](size)
	if err != nil {
		return nil, fmt.Errorf("slot cache: %w", err)
	}
	return &SlotCache{cache: c}, nil
}

func slotCacheKey(day time.Time, durationMinutes int, revision uint64) string {
	return fmt.Sprintf("%s|%s|%d|%d", day.Format(dateLayout), day.Location(), durationMinutes, revision)
}

func (c *SlotCache) Get(day time.Time, durationMinutes int, revision uint64) ([]time.Time, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.cache.Get(slotCacheKey(day, durationMinutes, revision))
	if !ok {
		return nil, false
	}
	out := make([]time.Time, len(v))
	copy(out, v)
	return out, true
}

func (c *SlotCache) Add(day time.Time, durationMinutes int, revision uint64, slots []time.Time) {
	if c == nil {
		return
	}
	stored := make([]time.Time, len(slots))
	copy(stored, slots)
	c.cache.Add(slotCacheKey(day, durationMinutes, revision), stored)
}

func (c *SlotCache) Len() int {
	if c == nil {
		return 0
	}
	return c.cache.Len()
}
