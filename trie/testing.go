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

package trie

// ParamCapture is a ParamSink that records bindings in memory. It exists for
// tests and offline tooling; the request path uses the router's pooled
// context instead.
type ParamCapture struct {
	Names       []string
	Values      []string
	CatchAll    string
	HasCatchAll bool
}

// Bind appends one named capture in match order.
func (p *ParamCapture) Bind(name, value string) {
	p.Names = append(p.Names, name)
	p.Values = append(p.Values, value)
}

// BindCatchAll records the catch-all remainder. The slot is set-once: later
// calls during the same lookup are ignored.
func (p *ParamCapture) BindCatchAll(remainder string) {
	if p.HasCatchAll {
		return
	}
	p.CatchAll = remainder
	p.HasCatchAll = true
}

// Get returns the first value bound under name.
func (p *ParamCapture) Get(name string) (string, bool) {
	for i, n := range p.Names {
		if n == name {
			return p.Values[i], true
		}
	}
	return "", false
}

// Reset clears all recorded bindings so the capture can be reused.
func (p *ParamCapture) Reset() {
	p.Names = p.Names[:0]
	p.Values = p.Values[:0]
	p.CatchAll = ""
	p.HasCatchAll = false
}
