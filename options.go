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

import "time"

// Option defines functional options for router configuration.
type Option func(*Router)

// WithCaseInsensitive makes literal segments and literal affixes match
// case-insensitively. Captured parameter values keep the request's original
// case. Patterns that differ only in literal case collapse into one route.
//
// Example:
//
//	r := router.MustNew(router.WithCaseInsensitive())
//	r.GET("/Users/:id", handler) // also matches /users/42, /USERS/42
func WithCaseInsensitive() Option {
	return func(r *Router) {
		r.caseInsensitive = true
	}
}

// WithEmptyCatchAll controls whether a trailing "**" may match zero
// segments. Enabled by default: /files/** matches /files as well as
// /files/a/b. When disabled, "**" requires at least one remaining segment.
//
// Example:
//
//	r := router.MustNew(router.WithEmptyCatchAll(false))
func WithEmptyCatchAll(allowed bool) Option {
	return func(r *Router) {
		r.emptyCatchAll = allowed
	}
}

// WithCatchAllKey sets the parameter name under which the catch-all
// remainder is exposed via c.Param and c.Params.
//
// Default: "path"
// Must be non-empty or validation will fail.
//
// Example:
//
//	r := router.MustNew(router.WithCatchAllKey("filepath"))
//	r.GET("/static/**", func(c *router.Context) {
//	    http.ServeFile(c.Response, c.Request, filepath.Join(root, c.Param("filepath")))
//	})
func WithCatchAllKey(key string) Option {
	return func(r *Router) {
		r.catchAllKey = key
	}
}

// WithDiagnostics sets a handler for diagnostic events the router emits
// outside the request path: route conflicts found by Validate, high
// parameter counts at registration, H2C activation.
//
// Example:
//
//	r := router.MustNew(router.WithDiagnostics(
//	    router.DiagnosticHandlerFunc(func(e router.DiagnosticEvent) {
//	        log.Printf("%s: %s %v", e.Kind, e.Message, e.Fields)
//	    }),
//	))
func WithDiagnostics(handler DiagnosticHandler) Option {
	return func(r *Router) {
		r.diagnostics = handler
	}
}

// WithH2C enables HTTP/2 Cleartext support.
//
// ⚠️ SECURITY WARNING: Only use in development or behind a trusted load
// balancer. DO NOT enable on public-facing servers without TLS.
//
// Requires: golang.org/x/net/http2/h2c
//
// Example:
//
//	r := router.MustNew(router.WithH2C(true))
//	r.Serve(":8080")
func WithH2C(enable bool) Option {
	return func(r *Router) {
		r.enableH2C = enable
	}
}

// WithServerTimeouts configures HTTP server timeouts for Serve and ServeTLS.
// These are critical for preventing slowloris attacks and resource
// exhaustion.
//
// Defaults (if not set):
//
//	ReadHeaderTimeout: 5s  - Time to read request headers
//	ReadTimeout:       15s - Time to read entire request
//	WriteTimeout:      30s - Time to write response
//	IdleTimeout:       60s - Keep-alive idle time
func WithServerTimeouts(readHeader, read, write, idle time.Duration) Option {
	return func(r *Router) {
		r.serverTimeouts = &serverTimeouts{
			readHeader: readHeader,
			read:       read,
			write:      write,
			idle:       idle,
		}
	}
}

// WithCancellationCheck enables or disables context cancellation checks in
// the handler chain. When enabled, the router stops the chain between
// handlers once the request context is cancelled, avoiding wasted work on
// timed-out requests.
//
// Default: true (enabled)
func WithCancellationCheck(enabled bool) Option {
	return func(r *Router) {
		r.checkCancellation = enabled
	}
}
