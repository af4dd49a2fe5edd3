package cas

import (
	"container/list"
	"fmt"
	"sync"
)

// LRUCache keeps the most recently used serialized entries of another store
// in memory. Writes go through to the underlying store.
type LRUCache struct {
	mu         sync.Mutex
	store      CAS
	underlying byteStore
	cache      map[Hash]*list.Element
	evictList  *list.List
	maxSize    int
	hits       int
	misses     int
}

type cacheEntry struct {
	hash  Hash
	value []byte
}

// NewLRUCache wraps underlying, which must be a store from this package.
// maxSize is the maximum number of entries to cache (0 or negative means the
// default of 64).
func NewLRUCache(underlying CAS, maxSize int) (*LRUCache, error) {
	bs, ok := underlying.(byteStore)
	if !ok {
		return nil, fmt.Errorf("cas: %T cannot be cached", underlying)
	}
	if maxSize <= 0 {
		maxSize = 64
	}
	return &LRUCache{
		store:      underlying,
		underlying: bs,
		cache:      make(map[Hash]*list.Element),
		evictList:  list.New(),
		maxSize:    maxSize,
	}, nil
}

func (l *LRUCache) Put(hash Hash, item Serde) error {
	return put(l, hash, item)
}

func (l *LRUCache) Get(hash Hash, into Serde) (bool, error) {
	return get(l, hash, into)
}

func (l *LRUCache) Has(hash Hash) bool {
	l.mu.Lock()
	_, ok := l.cache[hash]
	l.mu.Unlock()
	if ok {
		return true
	}
	return l.store.Has(hash)
}

func (l *LRUCache) putValue(h Hash, data []byte) error {
	if err := l.underlying.putValue(h, data); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.addToCache(h, data)
	return nil
}

func (l *LRUCache) getValue(h Hash) (bool, []byte, error) {
	l.mu.Lock()
	if elem, ok := l.cache[h]; ok {
		l.evictList.MoveToFront(elem)
		l.hits++
		data := elem.Value.(*cacheEntry).value
		l.mu.Unlock()
		return true, data, nil
	}
	l.misses++
	l.mu.Unlock()

	has, data, err := l.underlying.getValue(h)
	if err != nil || !has {
		return false, nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.addToCache(h, data)
	return true, data, nil
}

// addToCache adds an entry and evicts the oldest if necessary. l.mu must be
// held.
func (l *LRUCache) addToCache(hash Hash, value []byte) {
	if elem, ok := l.cache[hash]; ok {
		l.evictList.MoveToFront(elem)
		elem.Value.(*cacheEntry).value = value
		return
	}

	elem := l.evictList.PushFront(&cacheEntry{hash: hash, value: value})
	l.cache[hash] = elem

	if l.evictList.Len() > l.maxSize {
		l.evictOldest()
	}
}

func (l *LRUCache) evictOldest() {
	elem := l.evictList.Back()
	if elem != nil {
		l.evictList.Remove(elem)
		entry := elem.Value.(*cacheEntry)
		delete(l.cache, entry.hash)
	}
}

type CacheStats struct {
	Size    int
	MaxSize int
	Hits    int
	Misses  int
}

func (l *LRUCache) Stats() CacheStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return CacheStats{
		Size:    len(l.cache),
		MaxSize: l.maxSize,
		Hits:    l.hits,
		Misses:  l.misses,
	}
}
