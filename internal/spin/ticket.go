package spin

import "sync/atomic"

// TicketLock is a fair FIFO spin lock. Goroutines acquire it in the
// order they called Lock, unlike sync.Mutex which lets newcomers barge.
//
// Lock takes a ticket and waits until serving reaches it; Unlock serves
// the next ticket.
type TicketLock struct {
	_       noCopy
	next    atomic.Uint32
	serving atomic.Uint32
}

// Lock acquires the lock.
func (l *TicketLock) Lock() {
	my := l.next.Add(1) - 1
	var spins int
	for l.serving.Load() != my {
		backoff(&spins)
	}
}

// Unlock releases the lock.
func (l *TicketLock) Unlock() {
	l.serving.Add(1)
}
