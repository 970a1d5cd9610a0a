package mapbench

import (
	"math/bits"
	"math/rand/v2"
	"runtime"
	"sync"
	"unsafe"

	"github.com/llxisdsh/mapbench/internal/opt"
	"github.com/llxisdsh/pb"
)

type shardBody struct {
	mu sync.RWMutex
	m  map[int]int
}

// shard is padded to a whole number of cache lines so neighbouring
// shard locks do not share a line.
type shard struct {
	shardBody
	_ [(opt.CacheLineSize - unsafe.Sizeof(shardBody{})%opt.CacheLineSize) % opt.CacheLineSize]byte
}

// shardedMap splits the key space over RWMutex-guarded shards chosen by
// the built-in hash of the key.
type shardedMap struct {
	shards []shard
	mask   uintptr
	hash   pb.HashFunc
	seed   uintptr
}

func newShardedMap(sizeHint int) Map {
	n := nextPowOf2(runtime.GOMAXPROCS(0) * 4)
	sm := &shardedMap{
		shards: make([]shard, n),
		mask:   uintptr(n) - 1,
		hash:   pb.GetBuiltInHasher[int](),
		seed:   uintptr(rand.Uint64()),
	}
	per := sizeHint/n + 1
	for i := range sm.shards {
		sm.shards[i].m = make(map[int]int, per)
	}
	return sm
}

func nextPowOf2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

//go:nosplit
func noescape(p unsafe.Pointer) unsafe.Pointer {
	x := uintptr(p)
	return unsafe.Pointer(x ^ 0)
}

func (sm *shardedMap) shardFor(key int) *shard {
	h := sm.hash(noescape(unsafe.Pointer(&key)), sm.seed)
	return &sm.shards[h&sm.mask]
}

func (sm *shardedMap) Get(key int) (int, bool) {
	s := sm.shardFor(key)
	s.mu.RLock()
	v, ok := s.m[key]
	s.mu.RUnlock()
	return v, ok
}

func (sm *shardedMap) Put(key, value int) (int, bool) {
	s := sm.shardFor(key)
	s.mu.Lock()
	prev, ok := s.m[key]
	s.m[key] = value
	s.mu.Unlock()
	return prev, ok
}
