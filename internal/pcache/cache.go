package pcache

import (
	"fmt"
	"sync"

	"github.com/docker/docker/pkg/locker"
	"github.com/go-sif/sparkling"
)

// cache is an in-memory PartitionCache. Entries are never evicted implicitly.
type cache struct {
	plocks   *locker.Locker // per-key locks, serializing materialization of the same key
	pmapLock sync.RWMutex
	pmap     map[sparkling.CacheKey][]interface{}
}

// New produces an empty PartitionCache
func New() sparkling.PartitionCache {
	return &cache{
		plocks: locker.New(),
		pmap:   make(map[sparkling.CacheKey][]interface{}),
	}
}

func lockName(key sparkling.CacheKey) string {
	return fmt.Sprintf("%d/%d", key.DatasetID, key.PartitionIndex)
}

func (c *cache) Get(key sparkling.CacheKey) ([]interface{}, bool) {
	c.pmapLock.RLock()
	defer c.pmapLock.RUnlock()
	elems, ok := c.pmap[key]
	return elems, ok
}

func (c *cache) Put(key sparkling.CacheKey, elems []interface{}) {
	c.pmapLock.Lock()
	defer c.pmapLock.Unlock()
	c.pmap[key] = elems
}

func (c *cache) GetOrCompute(key sparkling.CacheKey, compute func() ([]interface{}, error)) ([]interface{}, bool, error) {
	if elems, ok := c.Get(key); ok {
		return elems, true, nil
	}
	name := lockName(key)
	c.plocks.Lock(name)
	defer c.plocks.Unlock(name)
	// another task may have materialized this key while we waited
	if elems, ok := c.Get(key); ok {
		return elems, true, nil
	}
	elems, err := compute()
	if err != nil {
		return nil, false, err
	}
	c.Put(key, elems)
	return elems, false, nil
}

func (c *cache) Remove(datasetID int64) int {
	c.pmapLock.Lock()
	defer c.pmapLock.Unlock()
	removed := 0
	for k := range c.pmap {
		if k.DatasetID == datasetID {
			delete(c.pmap, k)
			removed++
		}
	}
	return removed
}

func (c *cache) Clear() {
	c.pmapLock.Lock()
	defer c.pmapLock.Unlock()
	c.pmap = make(map[sparkling.CacheKey][]interface{})
}

func (c *cache) Len() int {
	c.pmapLock.RLock()
	defer c.pmapLock.RUnlock()
	return len(c.pmap)
}
