// Command mapbench measures the throughput of concurrent map strategies
// against a deterministic key sequence.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/llxisdsh/mapbench"
	"github.com/phuslu/log"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli"
)

var (
	variantFlag     = cli.StringSliceFlag{Name: "variant", Usage: "map variant to measure, repeatable (default: the core variants)"}
	workloadFlag    = cli.StringSliceFlag{Name: "workload", Usage: "workload to measure, repeatable (default: Get, Put and Mixed)"}
	allFlag         = cli.BoolFlag{Name: "all", Usage: "measure every registered variant"}
	noBaselineFlag  = cli.BoolFlag{Name: "no-baseline", Usage: "skip the Nothing unit"}
	workersFlag     = cli.IntFlag{Name: "workers", Usage: "concurrent workers per unit", Value: runtime.GOMAXPROCS(0)}
	durationFlag    = cli.DurationFlag{Name: "duration", Usage: "measured window per unit", Value: time.Second}
	keySpaceFlag    = cli.IntFlag{Name: "key-space", Usage: "number of fixture keys, must be prime", Value: mapbench.DefaultKeySpace}
	oddsFlag        = cli.IntFlag{Name: "odds-of-write", Usage: "Mixed issues a Put when the drawn index is a multiple of this", Value: mapbench.DefaultOddsOfWrite}
	identityFlag    = cli.StringFlag{Name: "identity", Usage: "seed identity shared by all sequences", Value: mapbench.DefaultIdentity}
	logLevelFlag    = cli.StringFlag{Name: "log-level", Usage: "trace, debug, info, warn or error", Value: "info"}
	metricsAddrFlag = cli.StringFlag{Name: "metrics-addr", Usage: "serve Prometheus metrics on this address, e.g. :9100"}
)

func main() {
	app := cli.NewApp()
	app.Name = "mapbench"
	app.Usage = "compare concurrent map strategies under deterministic load"
	app.Commands = []cli.Command{
		{
			Name:   "run",
			Usage:  "measure units of the variant matrix",
			Action: runHandler,
			Flags: []cli.Flag{
				variantFlag,
				workloadFlag,
				allFlag,
				noBaselineFlag,
				workersFlag,
				durationFlag,
				keySpaceFlag,
				oddsFlag,
				identityFlag,
				logLevelFlag,
				metricsAddrFlag,
			},
		},
		{
			Name:   "list",
			Usage:  "list map variants and workloads",
			Action: listHandler,
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(level string) *log.Logger {
	return &log.Logger{
		Level:      log.ParseLevel(level),
		TimeFormat: "15:04:05.000",
		Writer: &log.ConsoleWriter{
			ColorOutput:    true,
			EndWithMessage: true,
			Writer:         os.Stderr,
		},
	}
}

func runHandler(c *cli.Context) error {
	logger := newLogger(c.String(logLevelFlag.Name))

	suite, err := mapbench.NewSuite(
		mapbench.WithKeySpace(c.Int(keySpaceFlag.Name)),
		mapbench.WithOddsOfWrite(c.Int(oddsFlag.Name)),
		mapbench.WithIdentity(c.String(identityFlag.Name)),
	)
	if err != nil {
		return cli.NewExitError(err, 2)
	}
	units, err := selectUnits(c)
	if err != nil {
		return cli.NewExitError(err, 2)
	}

	options := []func(*mapbench.Runner){
		mapbench.WithWorkers(c.Int(workersFlag.Name)),
		mapbench.WithWindow(c.Duration(durationFlag.Name)),
		mapbench.WithLogger(logger),
	}
	if addr := c.String(metricsAddrFlag.Name); addr != "" {
		reg := prometheus.NewRegistry()
		options = append(options, mapbench.WithMetrics(mapbench.NewMetrics(reg)))
		srv := &http.Server{
			Addr:              addr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Str("addr", addr).Msg("metrics server failed")
			}
		}()
		defer srv.Close()
		logger.Info().Str("addr", addr).Msg("serving metrics")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := suite.Config()
	logger.Info().
		Int("units", len(units)).
		Int("key_space", cfg.KeySpace).
		Int("odds_of_write", cfg.OddsOfWrite).
		Int("workers", c.Int(workersFlag.Name)).
		Dur("window", c.Duration(durationFlag.Name)).
		Msg("starting")

	results, err := suite.NewRunner(options...).MeasureAll(ctx, units)
	if err != nil {
		return err
	}
	printResults(results)
	return nil
}

// selectUnits crosses the chosen workloads with the chosen variants in
// matrix order.
func selectUnits(c *cli.Context) ([]mapbench.Unit, error) {
	variants := mapbench.CoreVariants()
	if c.Bool(allFlag.Name) {
		variants = mapbench.AllVariants()
	}
	if names := c.StringSlice(variantFlag.Name); len(names) > 0 {
		variants = variants[:0:0]
		for _, name := range names {
			v, err := mapbench.LookupVariant(name)
			if err != nil {
				return nil, err
			}
			variants = append(variants, v)
		}
	}

	workloads := mapbench.MapWorkloads()
	if names := c.StringSlice(workloadFlag.Name); len(names) > 0 {
		workloads = workloads[:0:0]
		for _, name := range names {
			w, err := mapbench.ParseWorkload(name)
			if err != nil {
				return nil, err
			}
			if w == mapbench.WorkloadNothing {
				continue
			}
			workloads = append(workloads, w)
		}
	}

	var units []mapbench.Unit
	if !c.Bool(noBaselineFlag.Name) {
		units = append(units, mapbench.Baseline)
	}
	for _, w := range workloads {
		for _, v := range variants {
			units = append(units, mapbench.Unit{Variant: v, Workload: w})
		}
	}
	if len(units) == 0 {
		return nil, errors.New("nothing to measure")
	}
	return units, nil
}

func printResults(results []mapbench.Result) {
	fmt.Printf("%-24s %8s %14s %12s %10s\n", "UNIT", "WORKERS", "OPS", "OPS/SEC", "NS/OP")
	for _, r := range results {
		fmt.Printf("%-24s %8d %14d %12.0f %10.2f\n",
			r.Unit.Name(), r.Workers, r.Ops, r.OpsPerSecond(), r.NsPerOp())
	}
}

func listHandler(*cli.Context) error {
	fmt.Println("VARIANTS")
	for _, v := range mapbench.AllVariants() {
		fmt.Printf("  %-14s scope=%s\n", v.Name, v.Scope())
	}
	fmt.Println("WORKLOADS")
	fmt.Printf("  %s\n", mapbench.WorkloadNothing)
	for _, w := range mapbench.MapWorkloads() {
		fmt.Printf("  %s\n", w)
	}
	return nil
}
