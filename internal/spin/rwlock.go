package spin

import "sync/atomic"

const (
	writerBit  = 1
	readerUnit = 2
)

// RWLock is a 4-byte spinning reader/writer lock. The low bit marks a
// writer; the remaining bits count readers.
type RWLock struct {
	_     noCopy
	state atomic.Uint32
}

// Lock acquires the write lock once no reader or writer holds it.
func (l *RWLock) Lock() {
	var spins int
	for !(l.state.Load() == 0 && l.state.CompareAndSwap(0, writerBit)) {
		backoff(&spins)
	}
}

// Unlock releases the write lock.
func (l *RWLock) Unlock() {
	l.state.Store(0)
}

// RLock acquires a read lock while no writer holds the lock.
func (l *RWLock) RLock() {
	var spins int
	for {
		s := l.state.Load()
		if s&writerBit == 0 && l.state.CompareAndSwap(s, s+readerUnit) {
			return
		}
		backoff(&spins)
	}
}

// RUnlock releases a read lock.
func (l *RWLock) RUnlock() {
	l.state.Add(^uint32(readerUnit - 1))
}
