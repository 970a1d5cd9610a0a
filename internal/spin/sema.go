package spin

import (
	_ "unsafe" // for linkname
)

// sema is a zero-allocation semaphore backed by the runtime.
type sema uint32

func (s *sema) acquire() {
	runtime_semacquire((*uint32)(s))
}

func (s *sema) release() {
	runtime_semrelease((*uint32)(s), false, 0)
}

// nolint:all
//
//go:linkname runtime_semacquire sync.runtime_Semacquire
func runtime_semacquire(s *uint32)

// nolint:all
//
//go:linkname runtime_semrelease sync.runtime_Semrelease
func runtime_semrelease(s *uint32, handoff bool, skipframes int)
