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
	"net/http"
	"strings"
)

// Group organizes related routes under a common path prefix with shared
// middleware. Groups inherit the parent router's global middleware and can
// add their own; the final chain for a grouped route is:
// [global middleware...] + [group middleware...] + [route handlers...]
//
// Example:
//
//	api := r.Group("/api/v1", AuthMiddleware())
//	users := api.Group("/users")
//	users.GET("/:id", getUserHandler) // Final path: /api/v1/users/:id
type Group struct {
	router     *Router
	prefix     string
	middleware []HandlerFunc
}

// Group creates a route group with the given path prefix and optional
// group-level middleware.
func (r *Router) Group(prefix string, middleware ...HandlerFunc) *Group {
	return &Group{
		router:     r,
		prefix:     prefix,
		middleware: middleware,
	}
}

// Use adds middleware executed for all routes registered through this group,
// after the router's global middleware and before the route handlers.
// It affects only routes registered after the call.
func (g *Group) Use(middleware ...HandlerFunc) {
	g.middleware = append(g.middleware, middleware...)
}

// Group creates a nested group. The new group's prefix is the parent's
// prefix plus the provided prefix, and the parent's middleware is inherited.
//
// Example:
//
//	api := r.Group("/api")
//	v1 := api.Group("/v1")
//	v1.GET("/users", handler) // Matches /api/v1/users
func (g *Group) Group(prefix string, middleware ...HandlerFunc) *Group {
	allMiddleware := make([]HandlerFunc, 0, len(g.middleware)+len(middleware))
	allMiddleware = append(allMiddleware, g.middleware...)
	allMiddleware = append(allMiddleware, middleware...)

	return &Group{
		router:     g.router,
		prefix:     g.joinPrefix(prefix),
		middleware: allMiddleware,
	}
}

func (g *Group) joinPrefix(path string) string {
	if g.prefix == "" {
		return path
	}
	if path == "" || path == "/" {
		return g.prefix
	}
	var sb strings.Builder
	sb.Grow(len(g.prefix) + len(path) + 1)
	sb.WriteString(g.prefix)
	if !strings.HasSuffix(g.prefix, "/") && !strings.HasPrefix(path, "/") {
		sb.WriteByte('/')
	}
	sb.WriteString(path)
	return sb.String()
}

// Handle registers handlers for the given method under the group's prefix,
// with the group's middleware prepended.
func (g *Group) Handle(method, path string, handlers ...HandlerFunc) error {
	combined := make([]HandlerFunc, 0, len(g.middleware)+len(handlers))
	combined = append(combined, g.middleware...)
	combined = append(combined, handlers...)
	return g.router.Handle(method, g.joinPrefix(path), combined...)
}

func (g *Group) register(method, path string, handlers []HandlerFunc) {
	if err := g.Handle(method, path, handlers...); err != nil {
		panic("router: " + err.Error())
	}
}

// GET adds a GET route to the group with the group's prefix.
//
// Example:
//
//	api := r.Group("/api/v1")
//	api.GET("/users", handler) // Final path: /api/v1/users
func (g *Group) GET(path string, handlers ...HandlerFunc) {
	g.register(http.MethodGet, path, handlers)
}

// POST adds a POST route to the group with the group's prefix.
func (g *Group) POST(path string, handlers ...HandlerFunc) {
	g.register(http.MethodPost, path, handlers)
}

// PUT adds a PUT route to the group with the group's prefix.
func (g *Group) PUT(path string, handlers ...HandlerFunc) {
	g.register(http.MethodPut, path, handlers)
}

// PATCH adds a PATCH route to the group with the group's prefix.
func (g *Group) PATCH(path string, handlers ...HandlerFunc) {
	g.register(http.MethodPatch, path, handlers)
}

// DELETE adds a DELETE route to the group with the group's prefix.
func (g *Group) DELETE(path string, handlers ...HandlerFunc) {
	g.register(http.MethodDelete, path, handlers)
}

// HEAD adds a HEAD route to the group with the group's prefix.
func (g *Group) HEAD(path string, handlers ...HandlerFunc) {
	g.register(http.MethodHead, path, handlers)
}

// OPTIONS adds an OPTIONS route to the group with the group's prefix.
func (g *Group) OPTIONS(path string, handlers ...HandlerFunc) {
	g.register(http.MethodOptions, path, handlers)
}
