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

// Package observe provides a ready-made router.ObservabilityRecorder backed
// by OpenTelemetry metrics and tracing plus slog access logging.
//
// Metrics and spans are labeled with the matched route template (e.g.
// "/users/:id"), never the raw request path, so cardinality stays bounded no
// matter what clients send.
//
// # Providers
//
//	WithPrometheus()  - OTel metrics exported via a private Prometheus
//	                    registry; scrape endpoint available from
//	                    Recorder.MetricsHandler()
//	WithStdout()      - periodic stdout exporters for metrics and traces,
//	                    for development
//	WithMeterProvider / WithTracerProvider - bring your own SDK
//
// # Usage
//
//	rec := observe.MustNew(
//	    observe.WithPrometheus(),
//	    observe.WithAccessLog(slog.Default()),
//	)
//	defer rec.Shutdown(context.Background())
//
//	r := router.MustNew()
//	r.SetObservabilityRecorder(rec)
//	r.GET("/metrics", func(c *router.Context) {
//	    rec.MetricsHandler().ServeHTTP(c.Response, c.Request)
//	})
package observe
