package feeds

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
)

// historyCacheKey identifies one cached player history fetch.
type historyCacheKey struct {
	PlayerName string
	Limit      int
}

// String returns string representation of cache key
func (k historyCacheKey) String() string {
	return fmt.Sprintf("%s:%d", strings.ToLower(k.PlayerName), k.Limit)
}

// CachedHistoryFeed wraps a HistoryFeed with an in-memory TTL cache.
// Within one analysis run the same player can back several prop lines;
// the cache keeps that to a single upstream fetch.
type CachedHistoryFeed struct {
	inner HistoryFeed
	cache *cache.Cache
	ttl   time.Duration

	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
}

// NewCachedHistoryFeed creates a caching wrapper around a history feed
func NewCachedHistoryFeed(inner HistoryFeed, ttl time.Duration) *CachedHistoryFeed {
	return &CachedHistoryFeed{
		inner: inner,
		cache: cache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

// FetchPlayerLogs returns cached logs when fresh, otherwise fetches
// from the wrapped feed and stores the result.
func (f *CachedHistoryFeed) FetchPlayerLogs(ctx context.Context, playerName string, limit int) ([]models.GameLog, error) {
	key := historyCacheKey{PlayerName: playerName, Limit: limit}.String()

	if cached, found := f.cache.Get(key); found {
		f.recordHit()
		if logs, ok := cached.([]models.GameLog); ok {
			return logs, nil
		}
	}
	f.recordMiss()

	logs, err := f.inner.FetchPlayerLogs(ctx, playerName, limit)
	if err != nil {
		return nil, err
	}

	f.cache.Set(key, logs, f.ttl)
	return logs, nil
}

// Name returns the wrapped feed name
func (f *CachedHistoryFeed) Name() string {
	return f.inner.Name()
}

// Invalidate removes a single player's cached history
func (f *CachedHistoryFeed) Invalidate(playerName string) {
	prefix := strings.ToLower(playerName) + ":"
	for k := range f.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			f.cache.Delete(k)
		}
	}
}

// Clear flushes the entire cache
func (f *CachedHistoryFeed) Clear() {
	f.cache.Flush()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.hitCount = 0
	f.missCount = 0
}

// Stats returns cache statistics
func (f *CachedHistoryFeed) Stats() (hits, misses uint64, ratio float64) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	hits = f.hitCount
	misses = f.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (f *CachedHistoryFeed) ItemCount() int {
	return f.cache.ItemCount()
}

func (f *CachedHistoryFeed) recordHit() {
	f.mu.Lock()
	f.hitCount++
	f.mu.Unlock()
	f.updateMetrics()
}

func (f *CachedHistoryFeed) recordMiss() {
	f.mu.Lock()
	f.missCount++
	f.mu.Unlock()
	f.updateMetrics()
}

func (f *CachedHistoryFeed) updateMetrics() {
	_, _, ratio := f.Stats()
	HistoryCacheHitRatio.Set(ratio)
}
