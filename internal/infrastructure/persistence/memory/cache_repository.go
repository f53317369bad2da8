// Package memory provides in-memory adapters used for single-node
// deployments and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/zoenutrition/zoe/internal/ports/outbound"
)

const (
	defaultTTL      = 24 * time.Hour
	cleanupInterval = 5 * time.Minute
)

type cacheItem struct {
	value     []byte
	expiresAt time.Time
}

// CacheRepository implements outbound.CacheRepository in process memory
type CacheRepository struct {
	data  map[string]cacheItem
	mutex sync.Mutex
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

// NewCacheRepository creates a cache and starts its expiry sweeper.
// Call Close to stop the sweeper.
func NewCacheRepository() *CacheRepository {
	repo := &CacheRepository{
		data: make(map[string]cacheItem),
		now:  time.Now,
		stop: make(chan struct{}),
	}
	go repo.cleanup()
	return repo
}

var _ outbound.CacheRepository = (*CacheRepository)(nil)

// Get retrieves a value from cache
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	item, ok := r.data[key]
	if !ok {
		return nil, outbound.ErrCacheMiss
	}
	if r.now().After(item.expiresAt) {
		delete(r.data, key)
		return nil, outbound.ErrCacheMiss
	}

	out := make([]byte, len(item.value))
	copy(out, item.value)
	return out, nil
}

// Set stores a value with a TTL; zero means the default of 24 hours
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	stored := make([]byte, len(value))
	copy(stored, value)

	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.data[key] = cacheItem{value: stored, expiresAt: r.now().Add(ttl)}
	return nil
}

// Delete removes a key from cache
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	delete(r.data, key)
	return nil
}

// Exists checks if a live key exists in cache
func (r *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, err := r.Get(ctx, key)
	if err == outbound.ErrCacheMiss {
		return false, nil
	}
	return err == nil, err
}

// Close stops the expiry sweeper
func (r *CacheRepository) Close() {
	r.once.Do(func() { close(r.stop) })
}

func (r *CacheRepository) cleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

func (r *CacheRepository) sweep() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := r.now()
	for key, item := range r.data {
		if now.After(item.expiresAt) {
			delete(r.data, key)
		}
	}
}
