//go:build mapbench_cachelinesize_32 || mapbench_cachelinesize_64 || mapbench_cachelinesize_128 || mapbench_cachelinesize_256

package opt

// CacheLineSize is forced by one of the mapbench_cachelinesize_* build tags.
const CacheLineSize = uintptr(cacheLineSizeTag)
