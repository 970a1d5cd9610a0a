//go:build !mapbench_cachelinesize_32 && !mapbench_cachelinesize_64 && !mapbench_cachelinesize_128 && !mapbench_cachelinesize_256

package opt

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// CacheLineSize is used to pad shard locks against false sharing.
// It's calculated from the golang.org/x/sys cache line pad of the build
// target.
const CacheLineSize = unsafe.Sizeof(cpu.CacheLinePad{})
