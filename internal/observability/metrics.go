// Package observability exposes Prometheus metrics for impact calculations.
package observability

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/rshade/ecoshop-impact/internal/carbon"
)

const namespace = "ecoshop"

// Metrics records estimation events on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	manufacturing    *prometheus.CounterVec
	externalFailures *prometheus.CounterVec
	externalDuration prometheus.Histogram
	products         *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		manufacturing: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "manufacturing_estimates_total",
			Help:      "Manufacturing footprint estimates by source (external or local).",
		}, []string{"source"}),
		externalFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "external_failures_total",
			Help:      "External estimate failures that fell back to the local formula, by reason.",
		}, []string{"reason"}),
		externalDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "external_request_duration_seconds",
			Help:      "Duration of external estimate requests.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		products: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "products_processed_total",
			Help:      "Products processed by batch runs, by outcome.",
		}, []string{"status"}),
	}
	m.registry.MustRegister(m.manufacturing, m.externalFailures, m.externalDuration, m.products)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveManufacturing implements carbon.Recorder.
func (m *Metrics) ObserveManufacturing(source carbon.ManufacturingSource) {
	m.manufacturing.WithLabelValues(string(source)).Inc()
}

// ObserveExternalFailure implements carbon.Recorder.
func (m *Metrics) ObserveExternalFailure(reason carbon.FailureReason) {
	m.externalFailures.WithLabelValues(string(reason)).Inc()
}

// ObserveExternalDuration implements carbon.Recorder.
func (m *Metrics) ObserveExternalDuration(d time.Duration) {
	m.externalDuration.Observe(d.Seconds())
}

// ObserveProduct implements batch.Recorder.
func (m *Metrics) ObserveProduct(status string) {
	m.products.WithLabelValues(status).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, logger zerolog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("metrics server shutdown failed")
		}
	}()

	logger.Info().Str("addr", addr).Msg("serving metrics")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
