// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skolklocka",
			Subsystem: "protocol",
			Name:      "requests_total",
			Help:      "Dispatched requests by method, request number and response code",
		},
		[]string{"method", "request", "code"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "skolklocka",
			Subsystem: "protocol",
			Name:      "request_duration_seconds",
			Help:      "Handler duration in seconds, storage lock wait included",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "request"},
	)

	ConnectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skolklocka",
			Subsystem: "server",
			Name:      "connections_total",
			Help:      "Accepted connections by outcome",
		},
		[]string{"outcome"},
	)

	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "skolklocka",
			Subsystem: "server",
			Name:      "active_connections",
			Help:      "Connections currently being handled",
		},
	)

	TableRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "skolklocka",
			Subsystem: "store",
			Name:      "table_rows",
			Help:      "Row count per table, refreshed by the census job",
		},
		[]string{"table"},
	)
)

const (
	OutcomeServed     = "served"
	OutcomeRejected   = "rejected"
	OutcomeIgnored    = "ignored"
	OutcomeReadError  = "read_error"
	OutcomeWriteError = "write_error"
)
