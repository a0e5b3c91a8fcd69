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
	"bufio"
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"wayfind.dev/router"
)

// Compile-time check that Recorder plugs into the router's lifecycle.
var _ router.ObservabilityRecorder = (*Recorder)(nil)

// requestState is the opaque token passed between lifecycle methods.
type requestState struct {
	start time.Time
	span  trace.Span
	req   *http.Request
}

// OnRequestStart begins the observability lifecycle: starts the server span
// and the in-flight counter. Excluded paths return a nil state, which skips
// everything downstream.
func (r *Recorder) OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any) {
	if _, skip := r.excluded[req.URL.Path]; skip {
		return ctx, nil
	}

	state := &requestState{
		start: time.Now(),
		req:   req,
	}

	// Span names use the raw path only until routing resolves the template;
	// OnRequestEnd renames the span to the low-cardinality form.
	if r.tracingEnabled() {
		ctx, state.span = r.tracer.Start(ctx, req.Method+" "+req.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("service.name", r.serviceName),
				attribute.String("http.request.method", req.Method),
				attribute.String("url.path", req.URL.Path),
			),
		)
	}

	if r.metricsEnabled() {
		r.activeRequests.Add(ctx, 1)
	}

	return ctx, state
}

// WrapResponseWriter wraps the writer to capture status and size. When state
// is nil the request is excluded and the writer passes through untouched.
func (r *Recorder) WrapResponseWriter(w http.ResponseWriter, state any) http.ResponseWriter {
	if state == nil {
		return w
	}
	return &observedWriter{ResponseWriter: w}
}

// OnRequestEnd records metrics, finishes the span, and writes the access log
// entry. routeTemplate is the matched pattern or a router sentinel, never
// the raw path.
func (r *Recorder) OnRequestEnd(ctx context.Context, state any, w http.ResponseWriter, routeTemplate string) {
	s, ok := state.(*requestState)
	if !ok || s == nil {
		return
	}

	duration := time.Since(s.start)
	statusCode := http.StatusOK
	var size int64
	if info, ok := w.(router.ResponseInfo); ok {
		statusCode = info.StatusCode()
		size = info.Size()
	}

	if r.metricsEnabled() {
		attrs := metric.WithAttributes(
			attribute.String("http.request.method", s.req.Method),
			attribute.String("http.route", routeTemplate),
			attribute.Int("http.response.status_code", statusCode),
			attribute.String("http.response.status_class", statusClass(statusCode)),
		)
		r.requestDuration.Record(ctx, duration.Seconds(), attrs)
		r.requestCount.Add(ctx, 1, attrs)
		r.responseSize.Record(ctx, size, attrs)
		r.activeRequests.Add(ctx, -1)
	}

	if s.span != nil {
		if s.span.IsRecording() {
			s.span.SetName(s.req.Method + " " + routeTemplate)
			s.span.SetAttributes(
				attribute.String("http.route", routeTemplate),
				attribute.Int("http.response.status_code", statusCode),
			)
			if statusCode >= 500 {
				s.span.SetStatus(codes.Error, http.StatusText(statusCode))
			}
		}
		s.span.End()
	}

	if r.logger != nil {
		r.logAccess(ctx, s.req, statusCode, size, duration, routeTemplate)
	}
}

func (r *Recorder) logAccess(ctx context.Context, req *http.Request, statusCode int, size int64, duration time.Duration, routeTemplate string) {
	isError := statusCode >= 400
	isSlow := r.slowThreshold > 0 && duration >= r.slowThreshold
	if r.errorsOnly && !isError && !isSlow {
		return
	}

	fields := []any{
		"method", req.Method,
		"path", req.URL.Path,
		"route", routeTemplate,
		"status", statusCode,
		"duration_ms", duration.Milliseconds(),
		"bytes_sent", size,
		"remote_addr", req.RemoteAddr,
		"user_agent", req.UserAgent(),
	}
	if reqID := req.Header.Get("X-Request-ID"); reqID != "" {
		fields = append(fields, "request_id", reqID)
	}
	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		fields = append(fields, "trace_id", span.SpanContext().TraceID().String())
	}
	if isSlow {
		fields = append(fields, "slow", true)
	}

	switch {
	case statusCode >= 500:
		r.logger.ErrorContext(ctx, "access", fields...)
	case isError || isSlow:
		r.logger.WarnContext(ctx, "access", fields...)
	default:
		r.logger.InfoContext(ctx, "access", fields...)
	}
}

// BuildRequestLogger returns a logger pre-populated with request metadata
// and trace correlation IDs.
func (r *Recorder) BuildRequestLogger(ctx context.Context, req *http.Request, routeTemplate string) *slog.Logger {
	if r.logger == nil {
		return router.NoopLogger()
	}

	logger := r.logger.With(
		"method", req.Method,
		"path", req.URL.Path,
		"route", routeTemplate,
	)
	if reqID := req.Header.Get("X-Request-ID"); reqID != "" {
		logger = logger.With("request_id", reqID)
	}
	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		sc := span.SpanContext()
		logger = logger.With(
			"trace_id", sc.TraceID().String(),
			"span_id", sc.SpanID().String(),
		)
	}
	return logger
}

// statusClass buckets a status code into "2xx", "4xx", etc. for aggregation.
func statusClass(statusCode int) string {
	switch {
	case statusCode >= 500:
		return "5xx"
	case statusCode >= 400:
		return "4xx"
	case statusCode >= 300:
		return "3xx"
	case statusCode >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}

// observedWriter wraps http.ResponseWriter to capture status and size while
// preserving the optional interfaces streaming handlers rely on.
type observedWriter struct {
	http.ResponseWriter
	statusCode int
	size       int64
	written    bool
}

var _ router.ResponseInfo = (*observedWriter)(nil)

func (w *observedWriter) WriteHeader(code int) {
	if !w.written {
		w.statusCode = code
		w.ResponseWriter.WriteHeader(code)
		w.written = true
	}
}

func (w *observedWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.written = true
		w.statusCode = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += int64(n)
	return n, err
}

func (w *observedWriter) StatusCode() int {
	if w.statusCode == 0 {
		return http.StatusOK
	}
	return w.statusCode
}

func (w *observedWriter) Size() int64 {
	return w.size
}

func (w *observedWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := w.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

func (w *observedWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
