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

// Package router provides an embeddable HTTP router built around a
// priority-ordered segment trie.
//
// # Key Features
//
//   - Literal, capture, affixed, wildcard, and catch-all path segments
//   - Deterministic match priority independent of registration order
//   - Allocation-free lookups over an immutable compiled route table
//   - Context pooling and middleware chains
//   - Route grouping for hierarchical API organization
//   - Shadowing detection for unreachable routes (Validate)
//   - Observability hooks for metrics, tracing, and request logging
//   - HTTP/2 Cleartext (h2c) support for dev and behind-LB deployments
//
// # Patterns
//
// Patterns are slash-separated segments. Each segment is one of:
//
//	users       literal, matches exactly
//	:id         capture, matches one segment and binds it under "id"
//	:name.png   prefix capture, ":name" plus a required literal suffix
//	v:major     suffix capture, required literal prefix plus ":major"
//	*           wildcard, matches one segment without binding
//	*.png       suffix wildcard
//	img-*       prefix wildcard
//	**          catch-all, consumes the rest of the path (final segment only)
//
// When several routes could match one path, the more specific segment kind
// wins at each step: literals beat affixed captures, affixed captures beat
// plain captures, captures beat wildcards, and the catch-all matches last.
// Registration order never changes the outcome except between same-kind
// siblings, where earlier registration wins.
//
// # Lifecycle
//
// Registration is a single-threaded setup phase. The first request freezes
// the route set and compiles it into an immutable lookup structure; after
// that, lookups are lock-free and safe for any number of goroutines, and
// further registration fails with ErrRouterFrozen. Call Compile explicitly
// to front-load the work before serving.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "net/http"
//	    "wayfind.dev/router"
//	)
//
//	func main() {
//	    r := router.MustNew()
//
//	    r.GET("/users/:id", func(c *router.Context) {
//	        c.JSON(http.StatusOK, map[string]string{"user_id": c.Param("id")})
//	    })
//
//	    r.GET("/static/**", func(c *router.Context) {
//	        c.String(http.StatusOK, "asset: %s", c.Param("path"))
//	    })
//
//	    http.ListenAndServe(":8080", r)
//	}
//
// The matching engine itself lives in the trie subpackage and can be used
// on its own for non-HTTP path routing.
package router
