//go:build mapbench_cachelinesize_32

package opt

const cacheLineSizeTag = 32
