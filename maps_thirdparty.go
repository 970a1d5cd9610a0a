package mapbench

import (
	"sync"

	"github.com/Snawoot/lfmap"
	"github.com/alphadose/haxmap"
	"github.com/cornelk/hashmap"
	fcmap "github.com/fufuok/cmap"
	"github.com/llxisdsh/pb"
	csmap "github.com/mhmtszr/concurrent-swiss-map"
	orcaman "github.com/orcaman/concurrent-map/v2"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/zhangyunhao116/skipmap"
)

// Adapters over concurrent map libraries.
//
// Put goes through the library's atomic swap, upsert or transaction
// where it has one. cornelk/hashmap and skipmap have none and are driven
// with a Get followed by a Set: under concurrent writers their returned
// previous value may be stale, but the stored value is always the one
// written last by some writer.

// ============================================================================
// llxisdsh/pb
// ============================================================================

type pbMap struct {
	m pb.MapOf[int, int]
}

func newPbMap(int) Map {
	return &pbMap{}
}

func (p *pbMap) Get(key int) (int, bool) {
	return p.m.Load(key)
}

func (p *pbMap) Put(key, value int) (int, bool) {
	return p.m.ProcessEntry(
		key,
		func(e *pb.EntryOf[int, int]) (*pb.EntryOf[int, int], int, bool) {
			if e != nil {
				return &pb.EntryOf[int, int]{Value: value}, e.Value, true
			}
			return &pb.EntryOf[int, int]{Value: value}, 0, false
		},
	)
}

type pbFlatMap struct {
	m *pb.FlatMapOf[int, int]
}

func newPbFlatMap(int) Map {
	return &pbFlatMap{m: pb.NewFlatMapOf[int, int]()}
}

func (p *pbFlatMap) Get(key int) (int, bool) { return p.m.Load(key) }
func (p *pbFlatMap) Put(key, value int) (int, bool) {
	return p.m.Swap(key, value)
}

// ============================================================================
// sync.Map
// ============================================================================

type syncMap struct {
	m sync.Map
}

func newSyncMap(int) Map {
	return &syncMap{}
}

func (s *syncMap) Get(key int) (int, bool) {
	v, ok := s.m.Load(key)
	if !ok {
		return 0, false
	}
	return v.(int), true
}

func (s *syncMap) Put(key, value int) (int, bool) {
	v, loaded := s.m.Swap(key, value)
	if !loaded {
		return 0, false
	}
	return v.(int), true
}

// ============================================================================
// puzpuzpuz/xsync
// ============================================================================

type xsyncMap struct {
	m *xsync.Map[int, int]
}

func newXSyncMap(int) Map {
	return &xsyncMap{m: xsync.NewMap[int, int]()}
}

func (x *xsyncMap) Get(key int) (int, bool) {
	return x.m.Load(key)
}

func (x *xsyncMap) Put(key, value int) (prev int, loaded bool) {
	x.m.Compute(key, func(old int, ok bool) (int, xsync.ComputeOp) {
		prev, loaded = old, ok
		return value, xsync.UpdateOp
	})
	return prev, loaded
}

// ============================================================================
// orcaman/concurrent-map
// ============================================================================

type orcamanMap struct {
	m orcaman.ConcurrentMap[int, int]
}

func newOrcamanMap(int) Map {
	return &orcamanMap{
		m: orcaman.NewWithCustomShardingFunction[int, int](
			func(key int) uint32 {
				return uint32(key)
			},
		),
	}
}

func (o *orcamanMap) Get(key int) (int, bool) {
	return o.m.Get(key)
}

// Put runs under the shard lock, so the previous value is exact.
func (o *orcamanMap) Put(key, value int) (prev int, loaded bool) {
	o.m.Upsert(key, value, func(exist bool, inMap int, newValue int) int {
		prev, loaded = inMap, exist
		return newValue
	})
	return prev, loaded
}

// ============================================================================
// alphadose/haxmap
// ============================================================================

type haxMap struct {
	m *haxmap.Map[int, int]
}

func newHaxMap(int) Map {
	return haxMap{m: haxmap.New[int, int]()}
}

func (h haxMap) Get(key int) (int, bool) {
	return h.m.Get(key)
}

// Put swaps present keys and inserts absent ones. Swap fails on an absent
// key, so a lost insert race goes back to Swap.
func (h haxMap) Put(key, value int) (int, bool) {
	for {
		if prev, swapped := h.m.Swap(key, value); swapped {
			return prev, true
		}
		if _, loaded := h.m.GetOrSet(key, value); !loaded {
			return 0, false
		}
	}
}

// ============================================================================
// fufuok/cmap
// ============================================================================

type fufuokMap struct {
	m *fcmap.MapOf[int, int]
}

func newFufuokMap(int) Map {
	return fufuokMap{m: fcmap.NewOf[int, int]()}
}

func (f fufuokMap) Get(key int) (int, bool) {
	return f.m.Get(key)
}

func (f fufuokMap) Put(key, value int) (prev int, loaded bool) {
	f.m.Upsert(key, value, func(exist bool, inMap int, newValue int) int {
		prev, loaded = inMap, exist
		return newValue
	})
	return prev, loaded
}

// ============================================================================
// mhmtszr/concurrent-swiss-map
// ============================================================================

type swissMap struct {
	m *csmap.CsMap[int, int]
}

func newSwissMap(int) Map {
	return swissMap{m: csmap.New(csmap.WithShardCount[int, int](32))}
}

func (s swissMap) Get(key int) (int, bool) {
	return s.m.Load(key)
}

func (s swissMap) Put(key, value int) (prev int, loaded bool) {
	s.m.SetIf(key, func(old int, found bool) (int, bool) {
		prev, loaded = old, found
		return value, true
	})
	return prev, loaded
}

// ============================================================================
// Snawoot/lfmap
// ============================================================================

// lfMap wraps a persistent map swapped in with CAS: every write copies
// the path to the key, a lock-free cousin of cowMap.
type lfMap struct {
	m *lfmap.Map[int, int]
}

func newLFMap(int) Map {
	return lfMap{m: lfmap.New[int, int]()}
}

func (l lfMap) Get(key int) (int, bool) {
	return l.m.Get(key)
}

// Put reads and writes inside one transaction. The transaction reruns on
// a lost CAS, so prev is reassigned on every attempt.
func (l lfMap) Put(key, value int) (prev int, loaded bool) {
	l.m.Transaction(func(t lfmap.Tx[int, int]) {
		prev, loaded = t.Get(key)
		t.Set(key, value)
	})
	return prev, loaded
}

// ============================================================================
// Get-then-Set adapters
// ============================================================================

type getSetter interface {
	Get(key int) (int, bool)
	Set(key int, value int)
}

// getSetMap adapts cornelk/hashmap.
type getSetMap struct {
	m getSetter
}

func newCornelkMap(int) Map { return getSetMap{m: hashmap.New[int, int]()} }

func (g getSetMap) Get(key int) (int, bool) { return g.m.Get(key) }
func (g getSetMap) Put(key, value int) (int, bool) {
	prev, ok := g.m.Get(key)
	g.m.Set(key, value)
	return prev, ok
}

type loadStorer interface {
	Load(key int) (int, bool)
	Store(key int, value int)
}

// loadStoreMap adapts skipmap.
type loadStoreMap struct {
	m loadStorer
}

func newSkipMap(int) Map { return loadStoreMap{m: skipmap.New[int, int]()} }

func (l loadStoreMap) Get(key int) (int, bool) { return l.m.Load(key) }
func (l loadStoreMap) Put(key, value int) (int, bool) {
	prev, ok := l.m.Load(key)
	l.m.Store(key, value)
	return prev, ok
}
