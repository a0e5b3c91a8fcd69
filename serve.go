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
	"net/http"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// routeNotFound is the route label used for observability when no route
// matched the request path.
const routeNotFound = "_not_found"

// routeMethodNotAllowed is the route label used when the path matched but
// the method is not registered.
const routeMethodNotAllowed = "_method_not_allowed"

// ServeHTTP implements the http.Handler interface for Router.
//
// The first request freezes the route set and compiles it; after that point
// route registration fails with ErrRouterFrozen. Configuration and serving
// are mutually exclusive phases, which is what makes lock-free concurrent
// lookups safe.
//
// For each request:
//  1. Starts the observability lifecycle (if configured)
//  2. Matches the path against the compiled routes, extracting parameters
//     into a pooled context
//  3. Executes the handler chain, or responds 405/404
//  4. Finishes the observability lifecycle with the matched route template
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.Freeze()

	path := req.URL.Path
	ctx := req.Context()
	var obsState any

	// Observability lifecycle - start
	if r.observability != nil {
		var enrichedCtx context.Context
		enrichedCtx, obsState = r.observability.OnRequestStart(ctx, req)
		if enrichedCtx != ctx {
			ctx = enrichedCtx
			req = req.WithContext(ctx)
		}
	}
	if r.observability != nil && obsState != nil {
		w = r.observability.WrapResponseWriter(w, obsState)
	}

	ct := r.snapshot()

	c := acquireContext()
	c.Request = req
	c.Response = w
	c.router = r

	v, pattern, ok := ct.Lookup(path, c)
	if !ok {
		releaseContext(c)
		r.handleNotFound(w, req, obsState)
		return
	}

	ep := v.(*endpoint)
	entry, ok := ep.byMethod[req.Method]
	if !ok {
		releaseContext(c)
		r.handleMethodNotAllowed(w, req, ep.allowedMethods(), obsState)
		return
	}

	c.routeTemplate = pattern
	if r.observability != nil {
		c.logger = r.observability.BuildRequestLogger(ctx, req, pattern)
	}
	c.handlers = entry.chain
	c.index = -1
	c.Next()

	releaseContext(c)

	if obsState != nil {
		r.observability.OnRequestEnd(ctx, obsState, w, pattern)
	}
}

// handleNotFound responds 404 via the custom NoRoute handler when set, or
// http.NotFound otherwise.
func (r *Router) handleNotFound(w http.ResponseWriter, req *http.Request, obsState any) {
	r.noRouteMu.RLock()
	handler := r.noRouteHandler
	r.noRouteMu.RUnlock()

	if handler != nil {
		c := acquireContext()
		c.Request = req
		c.Response = w
		c.router = r
		c.routeTemplate = routeNotFound
		if r.observability != nil {
			c.logger = r.observability.BuildRequestLogger(req.Context(), req, routeNotFound)
		}
		c.handlers = []HandlerFunc{handler}
		c.index = -1
		c.Next()
		releaseContext(c)
	} else {
		http.NotFound(w, req)
	}

	if obsState != nil {
		r.observability.OnRequestEnd(req.Context(), obsState, w, routeNotFound)
	}
}

// handleMethodNotAllowed responds 405 with the Allow header listing the
// methods registered for the matched path.
func (r *Router) handleMethodNotAllowed(w http.ResponseWriter, req *http.Request, allowed []string, obsState any) {
	c := acquireContext()
	c.Request = req
	c.Response = w
	c.router = r
	c.routeTemplate = routeMethodNotAllowed
	c.MethodNotAllowed(allowed)
	releaseContext(c)

	if obsState != nil {
		r.observability.OnRequestEnd(req.Context(), obsState, w, routeMethodNotAllowed)
	}
}

// defaultServerTimeouts returns default timeout configuration.
func defaultServerTimeouts() *serverTimeouts {
	return &serverTimeouts{
		readHeader: 5 * time.Second,
		read:       15 * time.Second,
		write:      30 * time.Second,
		idle:       60 * time.Second,
	}
}

// Serve starts an HTTP server on addr with production-safe timeouts.
//
// With H2C enabled (dev/behind LB only):
//
//	r := router.MustNew(router.WithH2C(true))
//	r.Serve(":8080")
func (r *Router) Serve(addr string) error {
	h := http.Handler(r)

	if r.enableH2C {
		h = h2c.NewHandler(h, &http2.Server{})
		r.emit(DiagH2CEnabled, "H2C enabled; use only in dev or behind a trusted LB", nil)
	}

	timeouts := r.serverTimeouts
	if timeouts == nil {
		timeouts = defaultServerTimeouts()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: timeouts.readHeader,
		ReadTimeout:       timeouts.read,
		WriteTimeout:      timeouts.write,
		IdleTimeout:       timeouts.idle,
	}

	return srv.ListenAndServe()
}

// ServeTLS starts an HTTPS server on addr. HTTP/2 is enabled automatically
// over TLS via ALPN.
func (r *Router) ServeTLS(addr, certFile, keyFile string) error {
	timeouts := r.serverTimeouts
	if timeouts == nil {
		timeouts = defaultServerTimeouts()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: timeouts.readHeader,
		ReadTimeout:       timeouts.read,
		WriteTimeout:      timeouts.write,
		IdleTimeout:       timeouts.idle,
	}

	return srv.ListenAndServeTLS(certFile, keyFile)
}
