//go:build mapbench_cachelinesize_128

package opt

const cacheLineSizeTag = 128
