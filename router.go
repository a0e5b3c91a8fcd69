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
	"bufio"
	"fmt"
	"net"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"wayfind.dev/router/trie"
)

// HandlerFunc is the handler signature for routes and middleware.
// Middleware calls c.Next() to pass control to the rest of the chain.
type HandlerFunc func(c *Context)

// responseWriter wraps http.ResponseWriter to capture status code and size.
// It also prevents "superfluous response.WriteHeader call" errors.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int64
	written    bool
}

// WriteHeader captures the status code and prevents duplicate calls.
func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.ResponseWriter.WriteHeader(code)
		rw.written = true
	}
}

// Write captures the response size and marks as written.
func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.written = true
	}
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += int64(n)
	return n, err
}

// StatusCode returns the HTTP status code.
func (rw *responseWriter) StatusCode() int {
	if rw.statusCode == 0 {
		return http.StatusOK
	}
	return rw.statusCode
}

// Size returns the response size in bytes.
func (rw *responseWriter) Size() int64 {
	return rw.size
}

// Compile-time check that responseWriter implements ResponseInfo.
var _ ResponseInfo = (*responseWriter)(nil)

// Hijack implements the http.Hijacker interface.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, ErrResponseWriterNotHijacker
}

// Flush implements the http.Flusher interface.
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// routeEntry is one registered (method, pattern) pair. The chain is the
// fully assembled handler sequence built at compile time: global middleware,
// then the route's own handlers.
type routeEntry struct {
	method   string
	pattern  string
	handlers []HandlerFunc
	chain    []HandlerFunc
}

// endpoint is the value stored at a trie terminal: every method registered
// for one structural path. Patterns that differ only in capture names share
// a single endpoint.
type endpoint struct {
	pattern  string
	byMethod map[string]*routeEntry
}

func (e *endpoint) allowedMethods() []string {
	methods := make([]string, 0, len(e.byMethod))
	for m := range e.byMethod {
		methods = append(methods, m)
	}
	slices.Sort(methods)
	return methods
}

// Router matches HTTP requests to registered routes and executes handler
// chains. Registration is single-threaded setup; on the first request the
// route set freezes and compiles into an immutable lookup structure that is
// read lock-free by any number of goroutines.
//
// Example:
//
//	r := router.MustNew()
//	r.GET("/users/:id", func(c *router.Context) {
//	    c.JSON(http.StatusOK, map[string]string{"id": c.Param("id")})
//	})
//	http.ListenAndServe(":8080", r)
type Router struct {
	builder  *trie.Builder
	compiled atomic.Pointer[trie.CompiledTrie]

	mu     sync.Mutex // Protects builder, middleware, and routes during setup
	routes []RouteInfo

	middleware []HandlerFunc

	observability ObservabilityRecorder
	diagnostics   DiagnosticHandler

	noRouteHandler HandlerFunc
	noRouteMu      sync.RWMutex

	// Configuration
	caseInsensitive   bool
	emptyCatchAll     bool
	catchAllKey       string
	checkCancellation bool

	// HTTP/2 Cleartext (H2C) support
	enableH2C      bool
	serverTimeouts *serverTimeouts

	// Freezing: after the first request the route set is immutable.
	frozen     atomic.Bool
	freezeOnce sync.Once
}

// serverTimeouts holds HTTP server timeout configuration.
type serverTimeouts struct {
	readHeader time.Duration
	read       time.Duration
	write      time.Duration
	idle       time.Duration
}

// defaultCatchAllKey is the parameter name under which the catch-all
// remainder is exposed when no custom key is configured.
const defaultCatchAllKey = "path"

// New creates a new router instance with optional configuration.
//
// Returns an error if the configuration is invalid. Configuration is
// validated immediately at startup rather than at runtime.
//
// For a version that panics instead of returning an error, use MustNew.
//
// Example:
//
//	r, err := router.New(
//	    router.WithCaseInsensitive(),
//	    router.WithCatchAllKey("filepath"),
//	)
//	if err != nil {
//	    log.Fatalf("invalid router configuration: %v", err)
//	}
func New(opts ...Option) (*Router, error) {
	r := &Router{
		emptyCatchAll:     true,
		catchAllKey:       defaultCatchAllKey,
		checkCancellation: true,
	}

	for _, opt := range opts {
		opt(r)
	}

	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("router configuration validation failed: %w", err)
	}

	var topts []trie.Option
	if r.caseInsensitive {
		topts = append(topts, trie.WithCaseFolding())
	}
	topts = append(topts, trie.WithEmptyCatchAll(r.emptyCatchAll))
	r.builder = trie.NewBuilder(topts...)

	return r, nil
}

// MustNew creates a new Router instance and panics if configuration is
// invalid. Convenience wrapper around New for cases where configuration
// errors should fail the application immediately at startup.
func MustNew(opts ...Option) *Router {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("router.MustNew: %v", err))
	}
	return r
}

// validate checks the router configuration for common errors.
// Routes are validated at registration time, not here, because routes are
// registered after New() returns.
func (r *Router) validate() error {
	if r.catchAllKey == "" {
		return ErrCatchAllKeyEmpty
	}
	if t := r.serverTimeouts; t != nil {
		if t.readHeader < 0 || t.read < 0 || t.write < 0 || t.idle < 0 {
			return ErrServerTimeoutInvalid
		}
	}
	return nil
}

// SetObservabilityRecorder sets the observability recorder for metrics,
// tracing, and logging. Pass nil to disable all observability.
//
// Example:
//
//	r := router.MustNew()
//	r.SetObservabilityRecorder(observe.MustNew(observe.WithPrometheus()))
func (r *Router) SetObservabilityRecorder(recorder ObservabilityRecorder) {
	r.observability = recorder
}

// emit sends a diagnostic event if a handler is configured.
func (r *Router) emit(kind DiagnosticKind, message string, fields map[string]any) {
	if r.diagnostics != nil {
		r.diagnostics.OnDiagnostic(DiagnosticEvent{
			Kind:    kind,
			Message: message,
			Fields:  fields,
		})
	}
}

// NoRoute sets a custom handler for requests that match no registered route.
// Setting handler to nil restores the default http.NotFound behavior.
//
// Example:
//
//	r.NoRoute(func(c *router.Context) {
//	    c.JSON(http.StatusNotFound, map[string]string{"error": "route not found"})
//	})
func (r *Router) NoRoute(handler HandlerFunc) {
	r.noRouteMu.Lock()
	defer r.noRouteMu.Unlock()
	r.noRouteHandler = handler
}

// Use adds global middleware executed for every matched route, in
// registration order, before the route's own handlers.
//
// Middleware must be registered before the first request is served; later
// additions take effect only after an explicit Compile.
func (r *Router) Use(middleware ...HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middleware = append(r.middleware, middleware...)
}

// Handle registers handlers for the given method and pattern.
//
// Patterns use path segments separated by slashes:
//
//	/users           literal segments
//	/users/:id       capture, binds one segment under "id"
//	/files/:name.png prefix capture, ":name" plus a required literal suffix
//	/v:major         suffix capture, required literal prefix plus ":major"
//	/img/*           wildcard, matches one segment without binding
//	/img/*.png       suffix wildcard
//	/static/**       catch-all, consumes the rest of the path (final only)
//
// Registering the same method twice for one structural pattern is an error
// wrapping ErrDuplicateRoute; two patterns that differ only in capture names
// collide. Registering after the first request has been served returns
// ErrRouterFrozen.
func (r *Router) Handle(method, pattern string, handlers ...HandlerFunc) error {
	if r.frozen.Load() {
		return fmt.Errorf("%w: cannot register %s %s", ErrRouterFrozen, method, pattern)
	}
	if method == "" {
		return ErrEmptyMethod
	}
	if len(handlers) == 0 {
		return fmt.Errorf("%w: %s %s", ErrNoHandlers, method, pattern)
	}

	p, err := trie.ParsePattern(pattern)
	if err != nil {
		return err
	}
	r.warnHighParamCount(p)

	entry := &routeEntry{
		method:   method,
		pattern:  p.String(),
		handlers: slices.Clone(handlers),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ep := &endpoint{
		pattern:  p.String(),
		byMethod: map[string]*routeEntry{method: entry},
	}
	err = r.builder.Insert(p, ep, func(existing, _ any) (any, error) {
		old := existing.(*endpoint)
		if prior, ok := old.byMethod[method]; ok {
			return nil, fmt.Errorf("%w: %s already registered as %q", trie.ErrDuplicateRoute, method, prior.pattern)
		}
		old.byMethod[method] = entry
		return old, nil
	})
	if err != nil {
		return err
	}

	r.routes = append(r.routes, RouteInfo{Method: method, Pattern: entry.pattern})
	// Invalidate any previous compile so the next request picks up the route.
	r.compiled.Store(nil)
	return nil
}

// warnHighParamCount emits a diagnostic when a pattern binds more captures
// than the context's inline parameter slots.
func (r *Router) warnHighParamCount(p trie.Pattern) {
	n := 0
	for _, seg := range p.Segments() {
		switch seg.Kind {
		case trie.KindCapture, trie.KindPrefixCapture, trie.KindSuffixCapture, trie.KindCatchAll:
			n++
		}
	}
	if n > maxInlineParams {
		r.emit(DiagHighParamCount, "route binds more parameters than the inline slots; lookups will allocate", map[string]any{
			"pattern": p.String(),
			"params":  n,
		})
	}
}

// register is the panicking form of Handle used by the method helpers.
// Registration errors are programmer errors, so failing fast at startup is
// preferable to an error return at every call site.
func (r *Router) register(method, pattern string, handlers []HandlerFunc) {
	if err := r.Handle(method, pattern, handlers...); err != nil {
		panic(fmt.Sprintf("router: %v", err))
	}
}

// GET registers handlers for GET requests on the given pattern.
// Panics on registration errors; use Handle for an error return.
func (r *Router) GET(pattern string, handlers ...HandlerFunc) {
	r.register(http.MethodGet, pattern, handlers)
}

// POST registers handlers for POST requests on the given pattern.
func (r *Router) POST(pattern string, handlers ...HandlerFunc) {
	r.register(http.MethodPost, pattern, handlers)
}

// PUT registers handlers for PUT requests on the given pattern.
func (r *Router) PUT(pattern string, handlers ...HandlerFunc) {
	r.register(http.MethodPut, pattern, handlers)
}

// PATCH registers handlers for PATCH requests on the given pattern.
func (r *Router) PATCH(pattern string, handlers ...HandlerFunc) {
	r.register(http.MethodPatch, pattern, handlers)
}

// DELETE registers handlers for DELETE requests on the given pattern.
func (r *Router) DELETE(pattern string, handlers ...HandlerFunc) {
	r.register(http.MethodDelete, pattern, handlers)
}

// HEAD registers handlers for HEAD requests on the given pattern.
func (r *Router) HEAD(pattern string, handlers ...HandlerFunc) {
	r.register(http.MethodHead, pattern, handlers)
}

// OPTIONS registers handlers for OPTIONS requests on the given pattern.
func (r *Router) OPTIONS(pattern string, handlers ...HandlerFunc) {
	r.register(http.MethodOptions, pattern, handlers)
}

// Compile flattens the current route set into the immutable lookup structure
// used to serve requests. Compiling twice over the same route set produces
// identical output, and the swap is atomic: in-flight requests finish on the
// structure they started with.
//
// Compile is called automatically on the first request; call it explicitly
// to front-load the work, or after late registration to publish new routes.
func (r *Router) Compile() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.compileLocked()
}

func (r *Router) compileLocked() {
	// Assemble chains so the compiled values are ready to serve. Global
	// middleware is prepended to every route's handlers.
	ct := r.builder.Compile()
	for _, v := range ct.Values() {
		ep := v.(*endpoint)
		for _, entry := range ep.byMethod {
			chain := make([]HandlerFunc, 0, len(r.middleware)+len(entry.handlers))
			chain = append(chain, r.middleware...)
			chain = append(chain, entry.handlers...)
			entry.chain = chain
		}
	}
	r.compiled.Store(ct)
}

// snapshot returns the current compiled lookup structure, compiling first if
// routes changed since the last compile.
func (r *Router) snapshot() *trie.CompiledTrie {
	if ct := r.compiled.Load(); ct != nil {
		return ct
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if ct := r.compiled.Load(); ct != nil {
		return ct
	}
	r.compileLocked()
	return r.compiled.Load()
}

// Freeze makes the route set immutable and compiles it. Called automatically
// on the first request; safe to call concurrently and repeatedly.
func (r *Router) Freeze() {
	r.freezeOnce.Do(func() {
		r.frozen.Store(true)
		r.snapshot()
	})
}

// Validate checks the registered routes for shadowing conflicts: routes that
// can never match because a higher-priority sibling accepts every request
// they would. Conflicts are reported, not fixed; registration order and
// priorities decide what actually matches.
//
// Each conflict is also emitted as a DiagRouteConflict diagnostic event.
func (r *Router) Validate() []trie.Conflict {
	r.mu.Lock()
	conflicts := r.builder.Validate()
	r.mu.Unlock()

	for _, c := range conflicts {
		r.emit(DiagRouteConflict, c.String(), map[string]any{
			"overridden": c.Overridden,
			"shadowing":  c.Shadowing,
		})
	}
	return conflicts
}

// Param is one extracted path parameter.
type Param struct {
	Name  string
	Value string
}

// RouteMatch is the result of a programmatic Lookup.
type RouteMatch struct {
	Pattern     string
	Handlers    []HandlerFunc
	Params      []Param
	CatchAll    string
	HasCatchAll bool
}

// Lookup resolves a method and path against the compiled routes without
// serving a request. The boolean is false when no route matches or the path
// matches but the method is not registered.
//
// Example:
//
//	if m, ok := r.Lookup(http.MethodGet, "/users/42"); ok {
//	    fmt.Println(m.Pattern, m.Params)
//	}
func (r *Router) Lookup(method, path string) (*RouteMatch, bool) {
	ct := r.snapshot()

	var capture trie.ParamCapture
	v, pattern, ok := ct.Lookup(path, &capture)
	if !ok {
		return nil, false
	}
	ep := v.(*endpoint)
	entry, ok := ep.byMethod[method]
	if !ok {
		return nil, false
	}

	m := &RouteMatch{
		Pattern:     pattern,
		Handlers:    entry.handlers,
		CatchAll:    capture.CatchAll,
		HasCatchAll: capture.HasCatchAll,
	}
	for i, name := range capture.Names {
		m.Params = append(m.Params, Param{Name: name, Value: capture.Values[i]})
	}
	return m, true
}

// RouteExists reports whether a route is registered for the method and path.
func (r *Router) RouteExists(method, path string) bool {
	_, ok := r.Lookup(method, path)
	return ok
}
