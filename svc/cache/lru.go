package cache

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRU is a small TTL-bounded cache for remote lookups (domain lists,
// tags) so repeated quick-shares do not refetch metadata.
type LRU[V any] struct {
	c   *lru.Cache[string, item[V]]
	mu  sync.Mutex
	ttl time.Duration
}
type item[V any] struct {
	val V
	exp time.Time
}

func NewLRU[V any](size int, ttl time.Duration) (*LRU[V], error) {
	if size <= 0 {
		return nil, errors.New("cache size must be positive")
	}
	if size > 100000 {
		return nil, errors.New("cache size too large")
	}
	c, err := lru.New[string, item[V]](size)
	if err != nil {
		return nil, err
	}
	return &LRU[V]{c: c, ttl: ttl}, nil
}
func (l *LRU[V]) Get(key string) (V, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	it, ok := l.c.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	if time.Now().After(it.exp) {
		l.c.Remove(key)
		var zero V
		return zero, false
	}
	return it.val, true
}
func (l *LRU[V]) Set(key string, v V) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.c.Add(key, item[V]{
		val: v,
		exp: time.Now().Add(l.ttl),
	})
}
func (l *LRU[V]) Delete(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.c.Remove(key)
}
