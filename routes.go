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

import "slices"

// RouteInfo describes one registered route.
type RouteInfo struct {
	Method  string
	Pattern string // Normalized pattern, e.g. "/users/:id"
}

// Routes returns a snapshot of all registered routes in registration order.
// Useful for startup logging, documentation generation, and tests.
func (r *Router) Routes() []RouteInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.routes)
}

// HasRoute reports whether the exact method and normalized pattern pair has
// been registered. Unlike RouteExists it compares patterns, not request
// paths.
func (r *Router) HasRoute(method, pattern string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ri := range r.routes {
		if ri.Method == method && ri.Pattern == pattern {
			return true
		}
	}
	return false
}
