package spin

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
)

func TestRWLock_Basic(t *testing.T) {
	var a int
	var l RWLock
	l.Lock()
	a = 1
	l.Unlock()
	l.RLock()
	l.RLock()
	if a != 1 {
		t.Fatalf("a = %d, want 1", a)
	}
	if s := l.state.Load(); s != 2*readerUnit {
		t.Fatalf("state = %d, want two readers", s)
	}
	l.RUnlock()
	l.RUnlock()
	if s := l.state.Load(); s != 0 {
		t.Fatalf("state = %d, want 0", s)
	}
}

func TestRWLock_ReadersAndWriters(t *testing.T) {
	var l RWLock
	var readers int32
	var writers int32

	const loops = 1000
	readerN := runtime.GOMAXPROCS(0)
	writerN := 2

	var wg sync.WaitGroup
	wg.Add(readerN + writerN)

	for range readerN {
		go func() {
			defer wg.Done()
			for range loops {
				l.RLock()
				atomic.AddInt32(&readers, 1)
				if atomic.LoadInt32(&writers) != 0 {
					t.Errorf("reader observed active writer")
				}
				atomic.AddInt32(&readers, -1)
				l.RUnlock()
			}
		}()
	}

	for range writerN {
		go func() {
			defer wg.Done()
			for range loops {
				l.Lock()
				if atomic.AddInt32(&writers, 1) != 1 {
					t.Errorf("multiple writers active")
				}
				if atomic.LoadInt32(&readers) != 0 {
					t.Errorf("writer observed active readers")
				}
				atomic.AddInt32(&writers, -1)
				l.Unlock()
			}
		}()
	}

	wg.Wait()
}
