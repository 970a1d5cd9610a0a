//go:build mapbench_cachelinesize_256

package opt

const cacheLineSizeTag = 256
