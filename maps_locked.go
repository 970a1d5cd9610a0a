package mapbench

import (
	"sync"

	"github.com/llxisdsh/mapbench/internal/spin"
)

// ============================================================================
// Exclusive
// ============================================================================

// exclusiveMap is a bare Go map, only valid under ScopeUnit.
type exclusiveMap map[int]int

func newExclusiveMap(sizeHint int) Map {
	return make(exclusiveMap, sizeHint)
}

func (m exclusiveMap) Get(key int) (int, bool) {
	v, ok := m[key]
	return v, ok
}

func (m exclusiveMap) Put(key, value int) (int, bool) {
	prev, ok := m[key]
	m[key] = value
	return prev, ok
}

// ============================================================================
// Globally locked
// ============================================================================

// lockedMap serializes every access behind one lock.
type lockedMap[L sync.Locker] struct {
	mu L
	m  map[int]int
}

func newLockedMap(sizeHint int) Map {
	return &lockedMap[*sync.Mutex]{mu: new(sync.Mutex), m: make(map[int]int, sizeHint)}
}

func newTicketLockedMap(sizeHint int) Map {
	return &lockedMap[*spin.TicketLock]{mu: new(spin.TicketLock), m: make(map[int]int, sizeHint)}
}

func (lm *lockedMap[L]) Get(key int) (int, bool) {
	lm.mu.Lock()
	v, ok := lm.m[key]
	lm.mu.Unlock()
	return v, ok
}

func (lm *lockedMap[L]) Put(key, value int) (int, bool) {
	lm.mu.Lock()
	prev, ok := lm.m[key]
	lm.m[key] = value
	lm.mu.Unlock()
	return prev, ok
}

type rwLocker interface {
	sync.Locker
	RLock()
	RUnlock()
}

// rwLockedMap lets readers share one lock; writers are exclusive.
type rwLockedMap[L rwLocker] struct {
	mu L
	m  map[int]int
}

func newRWLockedMap(sizeHint int) Map {
	return &rwLockedMap[*sync.RWMutex]{mu: new(sync.RWMutex), m: make(map[int]int, sizeHint)}
}

func newSpinLockedMap(sizeHint int) Map {
	return &rwLockedMap[*spin.RWLock]{mu: new(spin.RWLock), m: make(map[int]int, sizeHint)}
}

func (rm *rwLockedMap[L]) Get(key int) (int, bool) {
	rm.mu.RLock()
	v, ok := rm.m[key]
	rm.mu.RUnlock()
	return v, ok
}

func (rm *rwLockedMap[L]) Put(key, value int) (int, bool) {
	rm.mu.Lock()
	prev, ok := rm.m[key]
	rm.m[key] = value
	rm.mu.Unlock()
	return prev, ok
}
