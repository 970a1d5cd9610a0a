//go:build mapbench_cachelinesize_64

package opt

const cacheLineSizeTag = 64
