package mapbench

import "github.com/prometheus/client_golang/prometheus"

// Metrics exports measured results. One series per variant and workload;
// the baseline unit reports an empty variant label.
type Metrics struct {
	ops  *prometheus.CounterVec
	rate *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them on reg.
// It panics if they are already registered, like MustRegister.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mapbench",
				Name:      "ops_total",
				Help:      "Total measured operations, summed over workers.",
			},
			[]string{"variant", "workload"},
		),
		rate: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "mapbench",
				Name:      "ops_per_second",
				Help:      "Throughput of the last measured run.",
			},
			[]string{"variant", "workload"},
		),
	}
	reg.MustRegister(m.ops, m.rate)
	return m
}

func (m *Metrics) observe(res Result) {
	labels := prometheus.Labels{
		"variant":  res.Unit.Variant.Name,
		"workload": res.Unit.Workload.String(),
	}
	m.ops.With(labels).Add(float64(res.Ops))
	m.rate.With(labels).Set(res.OpsPerSecond())
}
