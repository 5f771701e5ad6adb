package stressd

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the Prometheus collectors for the stress service. Each
// server carries its own registry so that tests can run servers side by
// side without collector collisions.
type metrics struct {
	registry *prometheus.Registry
	started  prometheus.Counter
	stopped  prometheus.Counter
}

func newMetrics(manager *Manager) *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stressd_runs_started_total",
			Help: "Total number of stress runs started.",
		}),
		stopped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stressd_runs_stopped_total",
			Help: "Total number of stress runs stopped via the API.",
		}),
	}

	active := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "stressd_runs_active",
		Help: "Number of currently running stress processes.",
	}, func() float64 {
		return float64(manager.Count())
	})

	m.registry.MustRegister(m.started, m.stopped, active)
	return m
}
