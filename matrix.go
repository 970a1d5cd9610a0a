package mapbench

import (
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
)

// Unit is one independently measurable cell of the matrix: a variant
// driven by a workload. The baseline unit has a zero Variant and
// WorkloadNothing.
type Unit struct {
	Variant  Variant
	Workload Workload
}

// Baseline is the unit that only advances the sequence.
var Baseline = Unit{Workload: WorkloadNothing}

// Name returns "<Workload>/<Variant>", or "Nothing" for the baseline.
func (u Unit) Name() string {
	if u.Workload == WorkloadNothing {
		return u.Workload.String()
	}
	return u.Workload.String() + "/" + u.Variant.Name
}

// Units returns the baseline followed by every workload of MapWorkloads
// crossed with every given variant. With no variants, CoreVariants is used.
func Units(variants ...Variant) []Unit {
	if len(variants) == 0 {
		variants = CoreVariants()
	}
	units := make([]Unit, 0, 1+len(variants)*len(MapWorkloads()))
	units = append(units, Baseline)
	for _, w := range MapWorkloads() {
		for _, v := range variants {
			units = append(units, Unit{Variant: v, Workload: w})
		}
	}
	return units
}

// ============================================================================
// Run / Worker
// ============================================================================

// Run is a unit prepared for one measured run. A run-scoped fixture is
// built once by Prepare and shared by every Worker of the run.
type Run struct {
	suite   *Suite
	unit    Unit
	shared  Map
	op      opFunc
	workers atomic.Int64
}

// Prepare builds the run-scoped state of u. Unit-scoped fixtures are
// built later, one per Worker.
func (s *Suite) Prepare(u Unit) (*Run, error) {
	r := &Run{suite: s, unit: u, op: s.op(u.Workload)}
	if u.Workload == WorkloadNothing {
		return r, nil
	}
	if u.Variant.IsZero() {
		return nil, errors.Wrapf(ErrUnknownVariant, "unit %s", u.Name())
	}
	if u.Variant.Scope() == ScopeRun {
		m, err := s.BuildFixture(u.Variant, ScopeRun)
		if err != nil {
			return nil, err
		}
		r.shared = m
	}
	return r, nil
}

// Unit returns the unit r was prepared for.
func (r *Run) Unit() Unit {
	return r.unit
}

// Shared returns the run-scoped fixture, or nil when each worker owns
// its own.
func (r *Run) Shared() Map {
	return r.shared
}

// Worker creates the state owned by one execution unit named name: its
// Sequence and, for unit-scoped variants, its private fixture. The
// returned Worker must not be used from more than one goroutine.
//
// Names of the form "worker-<n>" belong to NextWorker, and the fixture
// seed key is reserved; both are rejected with ErrReservedName so that no
// two workers of a run, and no worker and the fixture, share a seed.
func (r *Run) Worker(name string) (*Worker, error) {
	if isReservedName(name) {
		return nil, errors.Wrapf(ErrReservedName, "%q", name)
	}
	r.workers.Add(1)
	return r.newWorker(name), nil
}

// NextWorker is Worker with a generated name "worker-<n>", where n counts
// the workers created by r so far. The set of names, and therefore of
// sequences, is the same on every run with the same worker count.
func (r *Run) NextWorker() *Worker {
	n := r.workers.Add(1) - 1
	return r.newWorker(WorkerName(int(n)))
}

func (r *Run) newWorker(name string) *Worker {
	m := r.shared
	if m == nil && r.unit.Workload != WorkloadNothing {
		m = r.suite.buildFixture(r.unit.Variant)
	}
	return &Worker{
		name: name,
		m:    m,
		seq:  r.suite.NewSequence(name),
		op:   r.op,
	}
}

// Workers returns the number of workers created so far.
func (r *Run) Workers() int {
	return int(r.workers.Load())
}

var ErrReservedName = errors.New("worker name is reserved")

const workerPrefix = "worker-"

// WorkerName returns the name of the i-th worker of a run.
func WorkerName(i int) string {
	return workerPrefix + strconv.Itoa(i)
}

func isReservedName(name string) bool {
	if name == fixtureSeedKey {
		return true
	}
	n, ok := strings.CutPrefix(name, workerPrefix)
	if !ok {
		return false
	}
	_, err := strconv.Atoi(n)
	return err == nil
}

// Worker is the per-execution-unit half of a Run.
type Worker struct {
	name string
	m    Map
	seq  *Sequence
	op   opFunc
}

// Step performs one measured call and returns the observed value.
func (w *Worker) Step() int {
	return w.op(w.m, w.seq)
}

// Name returns the identity the worker's sequence was seeded with.
func (w *Worker) Name() string {
	return w.name
}

// Map returns the fixture the worker drives.
func (w *Worker) Map() Map {
	return w.m
}

// Sequence returns the worker's own sequence.
func (w *Worker) Sequence() *Sequence {
	return w.seq
}
