package mapbench

import (
	"maps"
	"sync"
	"sync/atomic"
)

// cowMap is a copy-on-write map. Readers load the current snapshot
// without locking. Writers serialize on mu, clone the snapshot, apply
// the write and publish the clone. A published snapshot is never mutated.
type cowMap struct {
	mu   sync.Mutex
	snap atomic.Pointer[map[int]int]
}

func newCowMap(sizeHint int) Map {
	m := &cowMap{}
	empty := make(map[int]int, sizeHint)
	m.snap.Store(&empty)
	return m
}

func (m *cowMap) Get(key int) (int, bool) {
	v, ok := (*m.snap.Load())[key]
	return v, ok
}

func (m *cowMap) Put(key, value int) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur := *m.snap.Load()
	prev, ok := cur[key]
	next := make(map[int]int, len(cur)+1)
	maps.Copy(next, cur)
	next[key] = value
	m.snap.Store(&next)
	return prev, ok
}
