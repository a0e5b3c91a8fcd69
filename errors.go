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

import "errors"

var (
	// ErrNoHandlers indicates that a route was registered without handlers.
	ErrNoHandlers = errors.New("route requires at least one handler")

	// ErrEmptyMethod indicates that a route was registered with an empty HTTP method.
	ErrEmptyMethod = errors.New("route requires a non-empty HTTP method")

	// ErrRouterFrozen indicates a registration attempt after the router started serving.
	ErrRouterFrozen = errors.New("cannot register routes after the router has started serving")

	// ErrCatchAllKeyEmpty indicates that the catch-all parameter key must be non-empty.
	ErrCatchAllKeyEmpty = errors.New("catch-all parameter key must be non-empty")

	// ErrServerTimeoutInvalid indicates that a server timeout value must be positive.
	ErrServerTimeoutInvalid = errors.New("server timeout must be positive")

	// ErrResponseWriterNotHijacker indicates that ResponseWriter does not implement the http.Hijacker interface.
	ErrResponseWriterNotHijacker = errors.New("responseWriter does not implement http.Hijacker")
)
