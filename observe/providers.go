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
	"fmt"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// initProviders wires the configured backend into meter and tracer handles.
// Custom providers take precedence over the built-in ones.
func (r *Recorder) initProviders() error {
	if err := r.initMeter(); err != nil {
		return err
	}
	return r.initTracer()
}

func (r *Recorder) initMeter() error {
	if r.customMeterProvider != nil {
		r.meter = r.customMeterProvider.Meter(instrumentationName)
		return nil
	}

	switch r.provider {
	case PrometheusProvider:
		return r.initPrometheusMeter()
	case StdoutProvider:
		return r.initStdoutMeter()
	case noProvider:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedProvider, r.provider)
	}
}

// initPrometheusMeter exports metrics through a private registry so the
// recorder never collides with other collectors in the process.
func (r *Recorder) initPrometheusMeter() error {
	r.prometheusRegistry = promclient.NewRegistry()

	exporter, err := prometheus.New(
		prometheus.WithRegisterer(r.prometheusRegistry),
	)
	if err != nil {
		return fmt.Errorf("prometheus exporter: %w", err)
	}

	r.sdkMeterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	r.prometheusHandler = promhttp.HandlerFor(
		r.prometheusRegistry,
		promhttp.HandlerOpts{},
	)
	r.meter = r.sdkMeterProvider.Meter(instrumentationName)
	return nil
}

func (r *Recorder) initStdoutMeter() error {
	exporter, err := stdoutmetric.New()
	if err != nil {
		return fmt.Errorf("stdout metric exporter: %w", err)
	}

	r.sdkMeterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(
			exporter,
			sdkmetric.WithInterval(15*time.Second),
		)),
	)
	r.meter = r.sdkMeterProvider.Meter(instrumentationName)
	return nil
}

func (r *Recorder) initTracer() error {
	if r.customTracerProvider != nil {
		r.tracer = r.customTracerProvider.Tracer(instrumentationName)
		return nil
	}

	// Only the stdout provider has a built-in trace exporter; Prometheus is
	// metrics-only.
	if r.provider != StdoutProvider {
		return nil
	}

	exporter, err := stdouttrace.New()
	if err != nil {
		return fmt.Errorf("stdout trace exporter: %w", err)
	}

	r.sdkTracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
	)
	r.tracer = r.sdkTracerProvider.Tracer(instrumentationName)
	return nil
}

// initInstruments creates the HTTP server instruments. No-op when metrics
// are disabled.
func (r *Recorder) initInstruments() error {
	if r.meter == nil {
		return nil
	}

	var err error
	r.requestDuration, err = r.meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("request duration histogram: %w", err)
	}

	r.requestCount, err = r.meter.Int64Counter(
		"http.server.request.count",
		metric.WithDescription("Total HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return fmt.Errorf("request counter: %w", err)
	}

	r.activeRequests, err = r.meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("In-flight HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return fmt.Errorf("active requests counter: %w", err)
	}

	r.responseSize, err = r.meter.Int64Histogram(
		"http.server.response.size",
		metric.WithDescription("HTTP response body size"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return fmt.Errorf("response size histogram: %w", err)
	}

	return nil
}
