package mapbench

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/llxisdsh/mapbench/internal/spin"
	"github.com/phuslu/log"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// stepsPerCheck is how many calls a worker makes between two reads of
// the stop flag.
const stepsPerCheck = 64

// Result is the outcome of one measured run.
type Result struct {
	Unit    Unit
	Workers int
	Ops     uint64
	Elapsed time.Duration
	// Checksum folds every observed value so the measured calls have a
	// visible effect. It carries no meaning.
	Checksum int
}

// OpsPerSecond returns the aggregate throughput of the run.
func (r Result) OpsPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Ops) / r.Elapsed.Seconds()
}

// NsPerOp returns the mean cost of one call as seen by one worker.
func (r Result) NsPerOp() float64 {
	if r.Ops == 0 {
		return 0
	}
	return float64(r.Elapsed.Nanoseconds()) * float64(r.Workers) / float64(r.Ops)
}

// Runner measures units outside of `go test`: it starts a fixed number of
// workers, lets them call their unit in a tight loop for a time window,
// and counts completed calls.
type Runner struct {
	suite   *Suite
	workers int
	window  time.Duration
	logger  *log.Logger
	metrics *Metrics
}

// WithWorkers sets the number of concurrent workers. Values below 1 are
// ignored.
func WithWorkers(n int) func(*Runner) {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithWindow sets how long each unit is measured.
func WithWindow(d time.Duration) func(*Runner) {
	return func(r *Runner) {
		if d > 0 {
			r.window = d
		}
	}
}

// WithLogger replaces log.DefaultLogger.
func WithLogger(l *log.Logger) func(*Runner) {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithMetrics makes the runner export every Result to m.
func WithMetrics(m *Metrics) func(*Runner) {
	return func(r *Runner) {
		r.metrics = m
	}
}

// NewRunner creates a Runner with GOMAXPROCS workers and a one second
// window unless overridden by options.
func (s *Suite) NewRunner(options ...func(*Runner)) *Runner {
	r := &Runner{
		suite:   s,
		workers: runtime.GOMAXPROCS(0),
		window:  time.Second,
		logger:  &log.DefaultLogger,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Measure runs u once.
//
// Every worker builds its own state (sequence and, for unit-scoped
// variants, its fixture) in its own goroutine, then all workers start
// together. Setup is not part of the measured window. If ctx is done
// before the window ends the run is discarded and ctx's error returned.
// A worker that panics, in setup or in the measured loop, stops the run
// and its panic is returned as the error.
func (r *Runner) Measure(ctx context.Context, u Unit) (Result, error) {
	run, err := r.suite.Prepare(u)
	if err != nil {
		return Result{}, err
	}

	type tally struct {
		ops  uint64
		sink int
	}
	var (
		tallies = make([]tally, r.workers)
		line    spin.Rally
		parties = r.workers + 1
		stop    atomic.Bool
	)
	g, gctx := errgroup.WithContext(ctx)
	for i := range r.workers {
		g.Go(func() (err error) {
			met := false
			defer func() {
				if p := recover(); p != nil {
					err = errors.Errorf("worker %d: %v", i, p)
					stop.Store(true)
				}
				if !met {
					line.Meet(parties)
				}
			}()

			w := run.NextWorker()
			met = true
			line.Meet(parties)

			var ops uint64
			sink := 0
			for !stop.Load() {
				for range stepsPerCheck {
					sink += w.Step()
				}
				ops += stepsPerCheck
			}
			tallies[i] = tally{ops: ops, sink: sink}
			return nil
		})
	}
	line.Meet(parties)
	began := time.Now()
	timer := time.NewTimer(r.window)
	select {
	case <-timer.C:
	case <-gctx.Done():
		timer.Stop()
	}
	stop.Store(true)
	err = g.Wait()
	elapsed := time.Since(began)

	if err != nil {
		return Result{}, errors.Wrapf(err, "measure %s", u.Name())
	}
	if err := ctx.Err(); err != nil {
		return Result{}, errors.Wrapf(err, "measure %s", u.Name())
	}

	res := Result{Unit: u, Workers: r.workers, Elapsed: elapsed}
	for _, t := range tallies {
		res.Ops += t.ops
		res.Checksum += t.sink
	}

	r.logger.Info().
		Str("unit", u.Name()).
		Int("workers", res.Workers).
		Uint64("ops", res.Ops).
		Dur("elapsed", res.Elapsed).
		Float64("ops_per_sec", res.OpsPerSecond()).
		Float64("ns_per_op", res.NsPerOp()).
		Msg("unit measured")
	if r.metrics != nil {
		r.metrics.observe(res)
	}
	return res, nil
}

// MeasureAll measures units one after another and stops at the first
// error.
func (r *Runner) MeasureAll(ctx context.Context, units []Unit) ([]Result, error) {
	results := make([]Result, 0, len(units))
	for _, u := range units {
		res, err := r.Measure(ctx, u)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}
