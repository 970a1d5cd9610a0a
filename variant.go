package mapbench

import (
	"strings"

	"github.com/pkg/errors"
)

// Map is the capability every benchmarked storage strategy exposes.
//
// Put returns the value previously stored at key, with loaded reporting
// whether there was one. Implementations are only required to tolerate
// concurrent calls when their Variant is marked Concurrent.
type Map interface {
	Get(key int) (value int, ok bool)
	Put(key, value int) (previous int, loaded bool)
}

// Scope tells whether a fixture is private to one execution unit or
// shared by every unit of a run.
type Scope uint8

const (
	// ScopeUnit builds one independently populated fixture per worker.
	ScopeUnit Scope = iota
	// ScopeRun builds a single fixture shared by all workers of a run.
	ScopeRun
)

func (s Scope) String() string {
	switch s {
	case ScopeUnit:
		return "unit"
	case ScopeRun:
		return "run"
	default:
		return "unknown"
	}
}

var ErrUnknownVariant = errors.New("unknown map variant")

// Variant is one storage strategy under comparison.
type Variant struct {
	// Name identifies the variant in unit names, flags and metrics.
	Name string

	// Concurrent reports whether one instance may be shared by workers
	// that call Get and Put at the same time.
	Concurrent bool

	// New returns an empty instance. sizeHint is the number of entries
	// the fixture will hold and may be ignored.
	New func(sizeHint int) Map
}

// Scope returns the only sharing scope that is sound for v.
func (v Variant) Scope() Scope {
	if v.Concurrent {
		return ScopeRun
	}
	return ScopeUnit
}

// IsZero reports whether v is the empty variant used by the baseline unit.
func (v Variant) IsZero() bool {
	return v.New == nil
}

// ============================================================================
// Registry
// ============================================================================

var (
	// Exclusive is a plain Go map. It is not safe for concurrent use, so
	// every worker gets its own instance.
	Exclusive = Variant{Name: "Exclusive", New: newExclusiveMap}

	// Locked guards a plain map with a single mutex.
	Locked = Variant{Name: "Locked", Concurrent: true, New: newLockedMap}

	// Concurrent is a lock-free-read, bucket-locked hash map.
	Concurrent = Variant{Name: "Concurrent", Concurrent: true, New: newPbMap}

	// CopyOnWrite publishes an immutable snapshot for readers; every
	// writer copies the whole table.
	CopyOnWrite = Variant{Name: "CopyOnWrite", Concurrent: true, New: newCowMap}
)

// CoreVariants returns the four strategies of the reference matrix.
func CoreVariants() []Variant {
	return []Variant{Exclusive, Locked, Concurrent, CopyOnWrite}
}

// ExtraVariants returns additional strategies, most backed by third-party
// concurrent map libraries.
func ExtraVariants() []Variant {
	return []Variant{
		{Name: "RWLocked", Concurrent: true, New: newRWLockedMap},
		{Name: "TicketLocked", Concurrent: true, New: newTicketLockedMap},
		{Name: "SpinLocked", Concurrent: true, New: newSpinLockedMap},
		{Name: "Sharded", Concurrent: true, New: newShardedMap},
		{Name: "FlatMap", Concurrent: true, New: newPbFlatMap},
		{Name: "SyncMap", Concurrent: true, New: newSyncMap},
		{Name: "XSync", Concurrent: true, New: newXSyncMap},
		{Name: "Haxmap", Concurrent: true, New: newHaxMap},
		{Name: "Skipmap", Concurrent: true, New: newSkipMap},
		{Name: "Orcaman", Concurrent: true, New: newOrcamanMap},
		{Name: "Cornelk", Concurrent: true, New: newCornelkMap},
		{Name: "LFMap", Concurrent: true, New: newLFMap},
		{Name: "Cmap", Concurrent: true, New: newFufuokMap},
		{Name: "SwissMap", Concurrent: true, New: newSwissMap},
	}
}

// AllVariants returns CoreVariants followed by ExtraVariants.
func AllVariants() []Variant {
	return append(CoreVariants(), ExtraVariants()...)
}

// LookupVariant finds a variant by case-insensitive name.
func LookupVariant(name string) (Variant, error) {
	for _, v := range AllVariants() {
		if strings.EqualFold(v.Name, name) {
			return v, nil
		}
	}
	return Variant{}, errors.Wrapf(ErrUnknownVariant, "%q", name)
}
