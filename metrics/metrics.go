// Package metrics exposes Prometheus metrics for the strongbox service on a
// dedicated listener, kept separate from the API server so scrapes never
// compete with request traffic.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsServer serves the /metrics endpoint for Prometheus scraping.
type MetricsServer struct {
	srv        *http.Server
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
}

// New creates a metrics server for the given service name listening on addr.
func New(name, addr string) (*MetricsServer, error) {
	registry := prometheus.NewRegistry()

	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "strongbox",
		Name:      "gate_operations_total",
		Help:      "Gate operations by operation and result.",
		ConstLabels: prometheus.Labels{
			"service": name,
		},
	}, []string{"operation", "result"})

	if err := registry.Register(operations); err != nil {
		return nil, fmt.Errorf("failed to register operations counter: %w", err)
	}
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return &MetricsServer{
		srv: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		registry:   registry,
		operations: operations,
	}, nil
}

// RecordOperation counts one gate operation with its result
// ("success" or "error").
func (m *MetricsServer) RecordOperation(operation, result string) {
	m.operations.WithLabelValues(operation, result).Inc()
}

// ListenAndServe starts serving the metrics endpoint. Blocks until the
// server stops.
func (m *MetricsServer) ListenAndServe() error {
	return m.srv.ListenAndServe()
}

// Shutdown gracefully stops the metrics server.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
