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

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateRoute indicates that the identical route was registered twice.
// It is a configuration error surfaced at insert time, never at request time.
var ErrDuplicateRoute = errors.New("duplicate route registration")

// MergeFunc combines the existing terminal value with a newly inserted one
// when two patterns land on the same trie node. Routers use this to add one
// more HTTP method to an endpoint's method map. Returning an error rejects
// the insertion; return ErrDuplicateRoute (or wrap it) for a true duplicate.
type MergeFunc func(existing, incoming any) (any, error)

// builderNode is one mutable node of the insertion-time tree. Child order is
// registration order; priority order is established later by the flattener.
type builderNode struct {
	seg      Segment
	children []*builderNode
	value    any
	pattern  string // normalized pattern terminating at this node, "" if none
}

// child returns the structurally-equal child for seg, creating it if absent.
// Structural equality ignores binding names, so ":a" and ":b" at the same
// position reuse one node; the first registered name wins.
func (n *builderNode) child(seg Segment) *builderNode {
	for _, c := range n.children {
		if c.seg.equal(seg) {
			return c
		}
	}
	c := &builderNode{seg: seg}
	n.children = append(n.children, c)
	return c
}

// Builder accumulates route patterns during the single-threaded configuration
// phase and compiles them into an immutable CompiledTrie.
//
// A Builder is not safe for concurrent use. Once Compile has produced a trie,
// the trie is safe for unbounded concurrent readers; the Builder may be kept
// around to validate or to compile again after further insertions (each
// Compile produces an independent snapshot).
type Builder struct {
	root          builderNode
	routes        int
	foldCase      bool
	emptyCatchAll bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithCaseFolding makes literal and affix comparison case-insensitive. The
// literal text of registered patterns is lowercased; captured path text is
// preserved as-cased.
func WithCaseFolding() Option {
	return func(b *Builder) { b.foldCase = true }
}

// WithEmptyCatchAll controls whether a trailing "**" also matches zero
// remaining segments, so that "/static/**" matches the bare path "/static".
// Enabled by default.
func WithEmptyCatchAll(allowed bool) Option {
	return func(b *Builder) { b.emptyCatchAll = allowed }
}

// NewBuilder returns an empty Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{emptyCatchAll: true}
	b.root.seg = Segment{Kind: KindRoot}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Len returns the number of terminal nodes (registered routes).
func (b *Builder) Len() int { return b.routes }

// Insert walks or creates one node per segment of p and attaches value to the
// terminal node. If the terminal already holds a value, merge decides the
// outcome; a nil merge rejects the insertion with ErrDuplicateRoute. A set
// value is never silently overwritten.
func (b *Builder) Insert(p Pattern, value any, merge MergeFunc) error {
	n := &b.root
	for _, seg := range p.Segments() {
		if b.foldCase && seg.Text != "" {
			seg.Text = strings.ToLower(seg.Text)
		}
		n = n.child(seg)
	}

	if n.value == nil {
		n.value = value
		n.pattern = p.String()
		b.routes++
		return nil
	}
	if merge == nil {
		return fmt.Errorf("%w: %s", ErrDuplicateRoute, p.String())
	}
	merged, err := merge(n.value, value)
	if err != nil {
		return fmt.Errorf("route %s: %w", n.pattern, err)
	}
	n.value = merged
	return nil
}
