// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package metrics holds the prometheus instruments for outbound platform calls
// and asset uploads. A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"bzm-mcp/cli/internal/errors"
)

// Outcome labels for platform requests. Credential outcomes reuse the error
// kind names so dashboards and logs agree.
const (
	OutcomeOK                = "ok"
	OutcomeNoCredential      = string(errors.NoCredential)
	OutcomeInvalidCredential = string(errors.InvalidCredential)
	OutcomeHTTPError         = "http_error"
	OutcomeNetworkError      = "network_error"
	OutcomeDecodeError       = "decode_error"
)

// Upload labels.
const (
	UploadSucceeded = "succeeded"
	UploadFailed    = "failed"
	UploadInvalid   = "invalid"
)

// Metrics groups the instruments registered for one process.
type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	UploadFilesTotal *prometheus.CounterVec
}

// New creates the instruments and registers them with reg. A nil reg leaves
// them unregistered, which is handy in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bzm_mcp_platform_requests_total",
				Help: "Total number of BlazeMeter API requests by method and outcome",
			},
			[]string{"method", "outcome"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bzm_mcp_platform_request_duration_seconds",
				Help:    "BlazeMeter API request duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
			},
			[]string{"method"},
		),
		RequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "bzm_mcp_platform_requests_in_flight",
				Help: "BlazeMeter API requests currently in flight",
			},
		),
		UploadFilesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bzm_mcp_upload_files_total",
				Help: "Asset files processed by upload outcome",
			},
			[]string{"outcome"},
		),
	}
}

// Begin marks a request as in flight and returns a func that records its end.
func (m *Metrics) Begin(method string) func(outcome string) {
	if m == nil {
		return func(string) {}
	}
	start := time.Now()
	m.RequestsInFlight.Inc()
	return func(outcome string) {
		m.RequestsInFlight.Dec()
		m.RequestsTotal.WithLabelValues(method, outcome).Inc()
		m.RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	}
}

// Count records a request that never reached the network.
func (m *Metrics) Count(method, outcome string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, outcome).Inc()
}

// UploadFiles adds n files with the given outcome.
func (m *Metrics) UploadFiles(outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.UploadFilesTotal.WithLabelValues(outcome).Add(float64(n))
}
