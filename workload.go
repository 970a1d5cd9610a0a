package mapbench

import (
	"strings"

	"github.com/pkg/errors"
)

// ============================================================================
// Operations
// ============================================================================

// Get reads the key at the next index.
func Get(m Map, seq *Sequence) (int, bool) {
	return m.Get(seq.Next())
}

// Put writes at the next index the value of the index after it.
// The key is always drawn before the value.
func Put(m Map, seq *Sequence) (int, bool) {
	key := seq.Next()
	return m.Put(key, seq.Next())
}

// Mixed draws one index to decide, then performs a Put when that index is
// a multiple of oddsOfWrite and a Get otherwise. The deciding draw is not
// used as a key, so a Mixed call always advances seq one step more than
// the operation it performs.
func Mixed(m Map, seq *Sequence, oddsOfWrite int) (int, bool) {
	if seq.Chance(oddsOfWrite) {
		return Put(m, seq)
	}
	return Get(m, seq)
}

// Nothing only advances seq. It measures the cost of the sequence itself.
func Nothing(seq *Sequence) int {
	return seq.Next()
}

// ============================================================================
// Workload
// ============================================================================

// Workload names one of the access patterns of the matrix.
type Workload uint8

const (
	WorkloadNothing Workload = iota
	WorkloadGet
	WorkloadPut
	WorkloadMixed
)

var ErrUnknownWorkload = errors.New("unknown workload")

var workloadNames = [...]string{
	WorkloadNothing: "Nothing",
	WorkloadGet:     "Get",
	WorkloadPut:     "Put",
	WorkloadMixed:   "Mixed",
}

func (w Workload) String() string {
	if int(w) < len(workloadNames) {
		return workloadNames[w]
	}
	return "Unknown"
}

// MapWorkloads returns the workloads that touch a map, in matrix order.
func MapWorkloads() []Workload {
	return []Workload{WorkloadGet, WorkloadPut, WorkloadMixed}
}

// ParseWorkload is the inverse of Workload.String, ignoring case.
func ParseWorkload(s string) (Workload, error) {
	for i, name := range workloadNames {
		if strings.EqualFold(name, s) {
			return Workload(i), nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownWorkload, "%q", s)
}

// opFunc is one measured call. It returns a value observed from the map
// (or the index, for Nothing) so the call cannot be optimized away.
type opFunc func(m Map, seq *Sequence) int

func (s *Suite) op(w Workload) opFunc {
	switch w {
	case WorkloadGet:
		return func(m Map, seq *Sequence) int {
			v, _ := Get(m, seq)
			return v
		}
	case WorkloadPut:
		return func(m Map, seq *Sequence) int {
			v, _ := Put(m, seq)
			return v
		}
	case WorkloadMixed:
		odds := s.cfg.OddsOfWrite
		return func(m Map, seq *Sequence) int {
			v, _ := Mixed(m, seq, odds)
			return v
		}
	default:
		return func(_ Map, seq *Sequence) int {
			return Nothing(seq)
		}
	}
}
