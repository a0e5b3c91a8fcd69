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

package router

import (
	"context"
	"io"
	"log/slog"
	"net/http"
)

// noopLogger is a singleton no-op logger used when no observability is configured.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// NoopLogger returns the singleton no-op logger.
// This is used by implementations of ObservabilityRecorder when logging is disabled.
func NoopLogger() *slog.Logger {
	return noopLogger
}

// ObservabilityRecorder provides unified observability lifecycle hooks for HTTP requests.
// Implementations typically combine metrics collection, distributed tracing, and access logging.
// The observe subpackage provides a ready implementation backed by OpenTelemetry.
//
// Lifecycle:
//  1. Router calls OnRequestStart(ctx, req) → (enrichedCtx, state)
//     - Returns an enriched context (e.g., with a trace span) and an opaque
//       state token (nil if the request should be excluded)
//  2. Router attaches the enriched context even for excluded requests, so
//     downstream calls keep trace propagation
//  3. Router wraps the ResponseWriter only if state != nil
//  4. Handler chain executes
//  5. Router calls OnRequestEnd(ctx, state, writer, routePattern) only if
//     state != nil; the implementation extracts status/size via ResponseInfo
//     and records metrics, finishes traces, and writes the access log entry
//
// routePattern is always the matched route pattern (e.g. "/users/:id") or a
// sentinel like "_not_found", never the raw request path, so metric and trace
// cardinality stays bounded.
//
// Thread safety: all methods must be safe for concurrent use.
type ObservabilityRecorder interface {
	// OnRequestStart is called before routing begins. Return (enrichedCtx,
	// nil) to exclude a request (e.g. /health) from metrics and logs while
	// keeping context enrichment.
	OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any)

	// WrapResponseWriter wraps the writer to capture response metadata. The
	// wrapped writer should implement ResponseInfo. When state is nil the
	// original writer must be returned unchanged.
	WrapResponseWriter(w http.ResponseWriter, state any) http.ResponseWriter

	// OnRequestEnd is called after the handler chain completes, only when
	// state != nil.
	OnRequestEnd(ctx context.Context, state any, writer http.ResponseWriter, routePattern string)

	// BuildRequestLogger returns the request-scoped structured logger handed
	// to handlers via Context.Logger. Implementations may return NoopLogger()
	// when access logging is disabled.
	BuildRequestLogger(ctx context.Context, req *http.Request, routePattern string) *slog.Logger
}

// ResponseInfo is implemented by response writers that track response metadata.
// Implementations of ObservabilityRecorder should have their wrapped ResponseWriter
// implement this interface so OnRequestEnd can extract status and size.
type ResponseInfo interface {
	StatusCode() int
	Size() int64
}
