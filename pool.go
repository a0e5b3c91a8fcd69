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

import "sync"

// contextPool recycles Context values across requests. Shared globally so
// multiple routers in one process draw from the same pool.
var contextPool = sync.Pool{
	New: func() any {
		return &Context{index: -1}
	},
}

func acquireContext() *Context {
	return contextPool.Get().(*Context)
}

func releaseContext(c *Context) {
	c.reset()
	contextPool.Put(c)
}
