package evaluator

import (
	"container/list"
	"regexp"
	"sync"
)

// regexCacheCapacity bounds the compiled-pattern cache so a routing table
// with many distinct `~` patterns can't grow it without limit (spec.md
// §4.3, §5: the evaluator's allocation is bounded per call, not across
// calls, so the cache itself must be size-bounded).
const regexCacheCapacity = 1024

// regexCache is a concurrency-safe, fixed-capacity LRU cache of compiled
// regular expressions keyed by pattern source. Evaluation never blocks on
// anything but this mutex, and never compiles the same pattern twice while
// it remains the most recently used.
type regexCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front = most recently used
}

type regexCacheEntry struct {
	pattern string
	re      *regexp.Regexp
	err     error
}

func newRegexCache(capacity int) *regexCache {
	return &regexCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

var defaultRegexCache = newRegexCache(regexCacheCapacity)

// ConfigureRegexCache replaces the package-wide regex cache with one of the
// given capacity. Intended to be called once at process startup from
// loaded configuration; concurrent evaluation already in flight keeps
// using whichever cache it looked up, so callers should configure before
// serving any traffic.
func ConfigureRegexCache(capacity int) {
	if capacity <= 0 {
		capacity = regexCacheCapacity
	}
	defaultRegexCache = newRegexCache(capacity)
}

// compile returns the compiled form of pattern, compiling and caching it on
// first use. A pattern that fails to compile is cached too (as a sticky
// error), so a malformed rule doesn't recompile on every event.
func (c *regexCache) compile(pattern string) (*regexp.Regexp, error) {
	c.mu.Lock()
	if el, ok := c.entries[pattern]; ok {
		c.order.MoveToFront(el)
		entry := el.Value.(*regexCacheEntry)
		c.mu.Unlock()
		return entry.re, entry.err
	}
	c.mu.Unlock()

	re, err := regexp.Compile(pattern)

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[pattern]; ok {
		c.order.MoveToFront(el)
		entry := el.Value.(*regexCacheEntry)
		return entry.re, entry.err
	}
	el := c.order.PushFront(&regexCacheEntry{pattern: pattern, re: re, err: err})
	c.entries[pattern] = el
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*regexCacheEntry).pattern)
		}
	}
	return re, err
}
