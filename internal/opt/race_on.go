//go:build race

package opt

// Race reports whether the binary was built with -race. Tests use it to
// shrink iteration counts, the detector slows map access by an order of
// magnitude.
const Race = true
