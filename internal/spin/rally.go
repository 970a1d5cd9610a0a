package spin

import "sync/atomic"

// Rally releases a fixed party of goroutines at the same instant. The
// party meets once per generation; after the last arrival the Rally is
// ready for the next one.
//
// A benchmark run uses it as a start line: every worker finishes its
// setup and calls Meet, the coordinator calls Meet too, and all of them
// leave together.
//
// The zero value is ready to use.
type Rally struct {
	_ noCopy
	// High 32 bits: generation. Low 32 bits: arrivals in this generation.
	state atomic.Uint64
	// Generation g blocks on sema[g%2] so a fast goroutine of the next
	// generation cannot take a wakeup meant for this one.
	sema [2]sema
}

// Meet blocks until parties callers have called Meet in the current
// generation and returns the caller's arrival index. The last arrival
// gets parties-1 and returns without blocking.
//
// Meet panics if parties is not positive.
func (r *Rally) Meet(parties int) int {
	if parties <= 0 {
		panic("spin: rally needs a positive party size")
	}
	if parties == 1 {
		return 0
	}

	var spins int
	for {
		s := r.state.Load()
		gen, arrived := s>>32, uint32(s)
		if arrived == uint32(parties)-1 {
			if r.state.CompareAndSwap(s, (gen+1)<<32) {
				waiting := &r.sema[gen%2]
				for range arrived {
					waiting.release()
				}
				return int(arrived)
			}
		} else if r.state.CompareAndSwap(s, s+1) {
			r.sema[gen%2].acquire()
			return int(arrived)
		}
		backoff(&spins)
	}
}
