package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Probe metrics - Track session probe runs
var (
	ProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dappshell_probes_total",
			Help: "Total number of session probe runs by result",
		},
		[]string{"result"},
	)

	ProbeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dappshell_probe_duration_seconds",
		Help:    "Time taken by a full session probe run",
		Buckets: prometheus.DefBuckets,
	})
)

// Remote call metrics - Track read-only contract calls
var (
	RemoteCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dappshell_remote_calls_total",
			Help: "Total number of read-only contract calls by method and result",
		},
		[]string{"method", "result"},
	)

	RemoteCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dappshell_remote_call_duration_seconds",
			Help:    "Latency of read-only contract calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

// State metrics - Track the shared state
var (
	ContractPresent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dappshell_contract_present",
		Help: "1 when the contract handle is bound, 0 otherwise",
	})

	StateGeneration = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dappshell_state_generation",
		Help: "Generation of the most recently probed contract handle",
	})

	Binds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dappshell_connector_binds_total",
		Help: "Total number of times the connector bound a contract handle",
	})
)

// Error metrics - Track failures
var (
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dappshell_errors_total",
			Help: "Total number of errors by component",
		},
		[]string{"component"},
	)
)
