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
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"wayfind.dev/router/trie"
)

// maxInlineParams is the number of parameter slots held in fixed arrays
// before the context falls back to a map. Routes rarely carry more than a
// handful of captures, so the common case allocates nothing.
const maxInlineParams = 8

// Context carries request-scoped state through the handler chain: the
// matched route's extracted parameters, the response writer, and the
// request-scoped logger.
//
// Contexts are pooled and reused across requests. A Context is only valid
// for the duration of the handler chain; do not retain it after the handler
// returns.
type Context struct {
	Request  *http.Request
	Response http.ResponseWriter

	router        *Router
	handlers      []HandlerFunc
	index         int
	logger        *slog.Logger
	routeTemplate string

	// Parameter storage: fixed arrays for the common case, map overflow
	// beyond maxInlineParams.
	paramKeys     [maxInlineParams]string
	paramValues   [maxInlineParams]string
	paramCount    int
	paramOverflow map[string]string

	// Catch-all remainder: a set-once slot filled by a trailing "**".
	catchAll    string
	hasCatchAll bool
}

// Compile-time check that Context records parameters for the trie matcher.
var _ trie.ParamSink = (*Context)(nil)

// Bind records one named path capture. It implements trie.ParamSink and is
// called by the matcher; handlers read parameters via Param.
func (c *Context) Bind(name, value string) {
	if c.paramCount < maxInlineParams {
		c.paramKeys[c.paramCount] = name
		c.paramValues[c.paramCount] = value
		c.paramCount++
		return
	}
	if c.paramOverflow == nil {
		c.paramOverflow = make(map[string]string, 2)
	}
	c.paramOverflow[name] = value
}

// BindCatchAll records the joined remainder consumed by a trailing "**".
// The slot is set-once; later calls during the same match are ignored.
func (c *Context) BindCatchAll(remainder string) {
	if c.hasCatchAll {
		return
	}
	c.catchAll = remainder
	c.hasCatchAll = true
}

// Param returns the value captured under name, or "" when the route bound no
// such parameter. The catch-all remainder is exposed under the router's
// catch-all key ("path" unless configured otherwise).
func (c *Context) Param(name string) string {
	for i := 0; i < c.paramCount; i++ {
		if c.paramKeys[i] == name {
			return c.paramValues[i]
		}
	}
	if c.paramOverflow != nil {
		if v, ok := c.paramOverflow[name]; ok {
			return v
		}
	}
	if c.hasCatchAll && c.router != nil && name == c.router.catchAllKey {
		return c.catchAll
	}
	return ""
}

// CatchAll returns the path remainder consumed by a trailing "**" and
// whether the matched route had one.
func (c *Context) CatchAll() (string, bool) {
	return c.catchAll, c.hasCatchAll
}

// Params returns all captured parameters as a fresh map, including the
// catch-all entry under the router's catch-all key. Intended for debugging
// and templating; hot paths should prefer Param.
func (c *Context) Params() map[string]string {
	out := make(map[string]string, c.paramCount+1)
	for i := 0; i < c.paramCount; i++ {
		out[c.paramKeys[i]] = c.paramValues[i]
	}
	for k, v := range c.paramOverflow {
		out[k] = v
	}
	if c.hasCatchAll && c.router != nil {
		out[c.router.catchAllKey] = c.catchAll
	}
	return out
}

// Route returns the normalized pattern of the matched route (e.g.
// "/users/:id"), or a sentinel such as "_not_found" for unmatched requests.
// Use it as the low-cardinality label for metrics and traces.
func (c *Context) Route() string {
	return c.routeTemplate
}

// Logger returns the request-scoped structured logger. Without an
// observability recorder this is a no-op logger, so handlers can log
// unconditionally.
func (c *Context) Logger() *slog.Logger {
	if c.logger == nil {
		return noopLogger
	}
	return c.logger
}

// Context returns the request's context.
func (c *Context) Context() context.Context {
	if c.Request == nil {
		return context.Background()
	}
	return c.Request.Context()
}

// Next executes the remaining handlers in the chain. Middleware calls Next
// to pass control onward and regains control when the rest of the chain
// returns.
func (c *Context) Next() {
	c.index++
	for c.index < len(c.handlers) {
		if c.router != nil && c.router.checkCancellation && c.Request != nil {
			select {
			case <-c.Request.Context().Done():
				return
			default:
			}
		}
		c.handlers[c.index](c)
		c.index++
	}
}

// Abort stops the handler chain. Pending handlers are skipped; the current
// handler finishes normally.
func (c *Context) Abort() {
	c.index = len(c.handlers)
}

// Status writes the response header with the given status code.
func (c *Context) Status(code int) {
	c.Response.WriteHeader(code)
}

// String writes a formatted plain-text response.
func (c *Context) String(code int, format string, args ...any) {
	c.Response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.Response.WriteHeader(code)
	if len(args) == 0 {
		fmt.Fprint(c.Response, format)
		return
	}
	fmt.Fprintf(c.Response, format, args...)
}

// JSON writes v as a JSON response.
func (c *Context) JSON(code int, v any) error {
	c.Response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.Response.WriteHeader(code)
	return json.NewEncoder(c.Response).Encode(v)
}

// NotFound writes the default 404 response.
func (c *Context) NotFound() {
	http.NotFound(c.Response, c.Request)
}

// MethodNotAllowed writes a 405 response with the Allow header listing the
// methods registered for the path.
func (c *Context) MethodNotAllowed(allowed []string) {
	if len(allowed) > 0 {
		c.Response.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(c.Response, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

// reset clears request state so the context can return to the pool.
func (c *Context) reset() {
	c.Request = nil
	c.Response = nil
	c.router = nil
	c.handlers = nil
	c.index = -1
	c.logger = nil
	c.routeTemplate = ""
	for i := 0; i < c.paramCount && i < maxInlineParams; i++ {
		c.paramKeys[i] = ""
		c.paramValues[i] = ""
	}
	c.paramCount = 0
	c.paramOverflow = nil
	c.catchAll = ""
	c.hasCatchAll = false
}
