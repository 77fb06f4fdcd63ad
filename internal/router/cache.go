package router

import (
	"regexp"
	"sync"
)

// patternCacheMaxSize is the maximum number of entries in the compiled
// pattern cache.
const patternCacheMaxSize = 512

// patternCacheEntry holds a compiled expression and its access order for
// LRU eviction.
type patternCacheEntry struct {
	regex       *regexp.Regexp
	accessOrder int64
}

// patternCache is a bounded LRU cache for compiled matcher expressions.
// Routers rebuilt on configuration reload recompile mostly-unchanged
// route sets, so repeat compilations are served from the cache.
var (
	patternCache         = make(map[string]*patternCacheEntry)
	patternCacheMu       sync.Mutex
	patternAccessCounter int64
)

// compileCached compiles an anchored matcher expression, consulting the
// pattern cache first.
func compileCached(expr string) (*regexp.Regexp, error) {
	metrics := getRouterMetrics()

	patternCacheMu.Lock()
	if entry, ok := patternCache[expr]; ok {
		patternAccessCounter++
		entry.accessOrder = patternAccessCounter
		patternCacheMu.Unlock()

		metrics.cacheHits.Inc()
		return entry.regex, nil
	}
	patternCacheMu.Unlock()

	metrics.cacheMisses.Inc()

	// Compile outside the lock (expensive operation).
	regex, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}

	patternCacheMu.Lock()
	defer patternCacheMu.Unlock()

	// Double-check after reacquiring the lock.
	if entry, ok := patternCache[expr]; ok {
		patternAccessCounter++
		entry.accessOrder = patternAccessCounter
		return entry.regex, nil
	}

	if len(patternCache) >= patternCacheMaxSize {
		evictLRUPatternEntry()
		metrics.cacheEvictions.Inc()
	}

	patternAccessCounter++
	patternCache[expr] = &patternCacheEntry{
		regex:       regex,
		accessOrder: patternAccessCounter,
	}
	metrics.cacheSize.Set(float64(len(patternCache)))

	return regex, nil
}

// evictLRUPatternEntry removes the least recently used entry from the
// cache. Must be called with patternCacheMu held.
func evictLRUPatternEntry() {
	var lruKey string
	var lruOrder int64 = -1

	for key, entry := range patternCache {
		if lruOrder == -1 || entry.accessOrder < lruOrder {
			lruOrder = entry.accessOrder
			lruKey = key
		}
	}

	if lruKey != "" {
		delete(patternCache, lruKey)
	}
}
