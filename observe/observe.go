// Copyright 2025 The Wayfind Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package observe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Provider selects the built-in exporter backend.
type Provider string

const (
	// PrometheusProvider exports metrics through a private Prometheus
	// registry; serve Recorder.MetricsHandler() to expose them.
	PrometheusProvider Provider = "prometheus"

	// StdoutProvider writes metrics and traces to stdout periodically.
	// Intended for development.
	StdoutProvider Provider = "stdout"

	// noProvider disables the built-in providers. Metrics and tracing still
	// work if custom providers were supplied.
	noProvider Provider = ""
)

// ErrUnsupportedProvider indicates an unknown provider name.
var ErrUnsupportedProvider = errors.New("unsupported observability provider")

// instrumentationName identifies this package as the instrumentation scope.
const instrumentationName = "wayfind.dev/router/observe"

// Recorder implements router.ObservabilityRecorder with OpenTelemetry
// metrics and tracing plus slog access logging. All methods are safe for
// concurrent use after New returns.
type Recorder struct {
	provider    Provider
	serviceName string

	// Built-in SDK providers, nil when a custom provider is in use.
	sdkMeterProvider  *sdkmetric.MeterProvider
	sdkTracerProvider *sdktrace.TracerProvider

	customMeterProvider  metric.MeterProvider
	customTracerProvider trace.TracerProvider

	prometheusRegistry *promclient.Registry
	prometheusHandler  http.Handler

	meter  metric.Meter
	tracer trace.Tracer

	requestDuration metric.Float64Histogram
	requestCount    metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
	responseSize    metric.Int64Histogram

	// Access logging
	logger        *slog.Logger
	errorsOnly    bool
	slowThreshold time.Duration

	excluded map[string]struct{}
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithPrometheus selects the Prometheus metrics backend. Tracing is left
// disabled unless a tracer provider is supplied separately.
func WithPrometheus() Option {
	return func(r *Recorder) {
		r.provider = PrometheusProvider
	}
}

// WithStdout selects stdout exporters for both metrics and traces.
func WithStdout() Option {
	return func(r *Recorder) {
		r.provider = StdoutProvider
	}
}

// WithMeterProvider uses a caller-supplied meter provider instead of a
// built-in one. The caller owns its lifecycle; Shutdown will not touch it.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(r *Recorder) {
		r.customMeterProvider = mp
	}
}

// WithTracerProvider uses a caller-supplied tracer provider instead of a
// built-in one. The caller owns its lifecycle; Shutdown will not touch it.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Recorder) {
		r.customTracerProvider = tp
	}
}

// WithServiceName sets the service.name attached to spans.
//
// Default: "wayfind"
func WithServiceName(name string) Option {
	return func(r *Recorder) {
		r.serviceName = name
	}
}

// WithAccessLog enables structured access logging with the given logger.
func WithAccessLog(logger *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// WithErrorsOnly limits access logging to 4xx/5xx responses and slow
// requests.
func WithErrorsOnly() Option {
	return func(r *Recorder) {
		r.errorsOnly = true
	}
}

// WithSlowRequestThreshold marks requests slower than d in the access log.
// Slow requests are logged even in errors-only mode. Zero disables the
// check.
func WithSlowRequestThreshold(d time.Duration) Option {
	return func(r *Recorder) {
		r.slowThreshold = d
	}
}

// WithExcludedPaths skips all observability for the given exact request
// paths. Typical candidates are /health and /metrics, which would otherwise
// dominate the numbers.
func WithExcludedPaths(paths ...string) Option {
	return func(r *Recorder) {
		for _, p := range paths {
			r.excluded[p] = struct{}{}
		}
	}
}

// New creates a Recorder with the given options. Without a provider option
// or custom providers the recorder only does access logging (when enabled).
//
// Example:
//
//	rec, err := observe.New(
//	    observe.WithPrometheus(),
//	    observe.WithAccessLog(slog.Default()),
//	    observe.WithExcludedPaths("/health", "/metrics"),
//	)
func New(opts ...Option) (*Recorder, error) {
	r := &Recorder{
		serviceName: "wayfind",
		excluded:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.initProviders(); err != nil {
		return nil, fmt.Errorf("observability setup failed: %w", err)
	}
	if err := r.initInstruments(); err != nil {
		return nil, fmt.Errorf("observability setup failed: %w", err)
	}
	return r, nil
}

// MustNew creates a Recorder and panics on configuration errors.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("observe.MustNew: %v", err))
	}
	return r
}

// MetricsHandler returns the Prometheus scrape handler, or nil when the
// Prometheus provider is not in use.
func (r *Recorder) MetricsHandler() http.Handler {
	return r.prometheusHandler
}

// metricsEnabled reports whether metric instruments were created.
func (r *Recorder) metricsEnabled() bool {
	return r.requestDuration != nil
}

// tracingEnabled reports whether a tracer is available.
func (r *Recorder) tracingEnabled() bool {
	return r.tracer != nil
}

// Shutdown flushes and stops the built-in providers. Custom providers are
// the caller's responsibility.
func (r *Recorder) Shutdown(ctx context.Context) error {
	var errs []error
	if r.sdkMeterProvider != nil {
		if err := r.sdkMeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}
	if r.sdkTracerProvider != nil {
		if err := r.sdkTracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}
