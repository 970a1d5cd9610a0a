package mapbench

import (
	"context"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phuslu/log"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func quietLogger() *log.Logger {
	return &log.Logger{Level: log.InfoLevel, Writer: &log.IOWriter{Writer: io.Discard}}
}

func TestRunnerMeasure(t *testing.T) {
	s := newTestSuite(t, WithKeySpace(101))
	r := s.NewRunner(
		WithWorkers(3),
		WithWindow(20*time.Millisecond),
		WithLogger(quietLogger()),
	)
	for _, u := range Units() {
		res, err := r.Measure(context.Background(), u)
		if err != nil {
			t.Fatalf("Measure(%s) error: %v", u.Name(), err)
		}
		if res.Workers != 3 {
			t.Fatalf("%s: Workers = %d, want 3", u.Name(), res.Workers)
		}
		if res.Ops == 0 || res.Ops%stepsPerCheck != 0 {
			t.Fatalf("%s: Ops = %d", u.Name(), res.Ops)
		}
		if res.Elapsed < 20*time.Millisecond {
			t.Fatalf("%s: Elapsed = %v, shorter than the window", u.Name(), res.Elapsed)
		}
		if res.OpsPerSecond() <= 0 || res.NsPerOp() <= 0 {
			t.Fatalf("%s: rate %.1f ops/s, %.1f ns/op", u.Name(), res.OpsPerSecond(), res.NsPerOp())
		}
	}
}

func TestRunnerMeasureCanceled(t *testing.T) {
	s := newTestSuite(t, WithKeySpace(101))
	r := s.NewRunner(WithWorkers(2), WithWindow(time.Hour), WithLogger(quietLogger()))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := r.Measure(ctx, Unit{Variant: Locked, Workload: WorkloadMixed})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want %v", err, context.DeadlineExceeded)
	}
}

func TestRunnerMeasureAllMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	s := newTestSuite(t, WithKeySpace(101))
	r := s.NewRunner(
		WithWorkers(2),
		WithWindow(5*time.Millisecond),
		WithLogger(quietLogger()),
		WithMetrics(metrics),
	)
	units := Units(Exclusive, Concurrent)
	results, err := r.MeasureAll(context.Background(), units)
	if err != nil {
		t.Fatalf("MeasureAll() error: %v", err)
	}
	if len(results) != len(units) {
		t.Fatalf("%d results, want %d", len(results), len(units))
	}
	if got := testutil.CollectAndCount(metrics.ops); got != len(units) {
		t.Fatalf("%d ops series, want %d", got, len(units))
	}
	for _, res := range results {
		labels := []string{res.Unit.Variant.Name, res.Unit.Workload.String()}
		if got := testutil.ToFloat64(metrics.ops.WithLabelValues(labels...)); got != float64(res.Ops) {
			t.Fatalf("%s: ops_total = %v, want %d", res.Unit.Name(), got, res.Ops)
		}
		if got := testutil.ToFloat64(metrics.rate.WithLabelValues(labels...)); got != res.OpsPerSecond() {
			t.Fatalf("%s: ops_per_second = %v, want %v", res.Unit.Name(), got, res.OpsPerSecond())
		}
	}
}

func TestRunnerMeasureAllStopsOnError(t *testing.T) {
	s := newTestSuite(t, WithKeySpace(101))
	r := s.NewRunner(WithWorkers(1), WithWindow(time.Millisecond), WithLogger(quietLogger()))
	units := []Unit{Baseline, {Workload: WorkloadGet}, {Variant: Locked, Workload: WorkloadGet}}
	results, err := r.MeasureAll(context.Background(), units)
	if !errors.Is(err, ErrUnknownVariant) {
		t.Fatalf("error = %v, want %v", err, ErrUnknownVariant)
	}
	if len(results) != 1 {
		t.Fatalf("%d results before the error, want 1", len(results))
	}
}

// failingMap panics on the Get after limit.
type failingMap struct {
	Map
	gets  atomic.Int64
	limit int64
}

func (f *failingMap) Get(key int) (int, bool) {
	if f.gets.Add(1) > f.limit {
		panic("injected failure")
	}
	return f.Map.Get(key)
}

func TestRunnerMeasureWorkerPanic(t *testing.T) {
	s := newTestSuite(t, WithKeySpace(101))
	r := s.NewRunner(WithWorkers(4), WithWindow(time.Hour), WithLogger(quietLogger()))
	failing := Variant{
		Name:       "Failing",
		Concurrent: true,
		New: func(n int) Map {
			return &failingMap{Map: newLockedMap(n), limit: 1000}
		},
	}

	done := make(chan error, 1)
	go func() {
		_, err := r.Measure(context.Background(), Unit{Variant: failing, Workload: WorkloadGet})
		done <- err
	}()
	select {
	case err := <-done:
		if err == nil || !strings.Contains(err.Error(), "injected failure") {
			t.Fatalf("error = %v, want the worker panic", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("Measure did not stop after a worker panicked")
	}
}

func TestRunnerMeasureSetupPanic(t *testing.T) {
	s := newTestSuite(t, WithKeySpace(101))
	r := s.NewRunner(WithWorkers(3), WithWindow(time.Hour), WithLogger(quietLogger()))
	broken := Variant{
		Name: "Broken",
		New: func(int) Map {
			panic("cannot allocate")
		},
	}

	done := make(chan error, 1)
	go func() {
		_, err := r.Measure(context.Background(), Unit{Variant: broken, Workload: WorkloadPut})
		done <- err
	}()
	select {
	case err := <-done:
		if err == nil || !strings.Contains(err.Error(), "cannot allocate") {
			t.Fatalf("error = %v, want the setup panic", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("Measure did not stop after a worker failed in setup")
	}
}
