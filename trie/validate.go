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

import "fmt"

// samplePlaceholder stands in for "any text" when synthesizing a
// representative segment for a capture or wildcard. A route literal could in
// principle collide with it; the validator is a sampling heuristic, not a
// language-intersection proof.
const samplePlaceholder = "~"

// Conflict reports a route that can never match because a sibling placed
// earlier in priority order accepts every path the route accepts.
type Conflict struct {
	Overridden string // normalized pattern of the unreachable route
	Shadowing  string // normalized pattern of the route that always wins
}

func (c Conflict) String() string {
	return fmt.Sprintf("route %s is unreachable: shadowed by %s", c.Overridden, c.Shadowing)
}

// Validate analyzes the builder tree for permanently shadowed routes. It is
// meant to run once at configuration time, before the server accepts traffic;
// a non-empty result should normally abort start-up.
//
// For every sibling group, siblings are ordered as the flattener will order
// them. For each node after the first, Validate synthesizes one
// representative segment the node's predicate accepts and tests it against
// every sibling placed before it. If an earlier sibling also accepts the
// sample, the matcher will always commit to that earlier branch, so every
// route terminating in the later node's subtree is reported as overridden.
//
// The analysis recurses into every child whether or not a conflict was found,
// enumerating all conflicts in one pass. It is a one-representative-example
// heuristic: overlaps that only manifest for specific segment lengths or
// character classes can escape it.
func (b *Builder) Validate() []Conflict {
	var out []Conflict
	b.validateNode(&b.root, &out)
	return out
}

func (b *Builder) validateNode(n *builderNode, out *[]Conflict) {
	kids := sortedChildren(n)
	for i := 1; i < len(kids); i++ {
		lower := kids[i]
		sample := sampleSegment(lower.seg)
		for j := 0; j < i; j++ {
			if kids[j].seg.matches(sample, b.foldCase) {
				shadow := firstPattern(kids[j])
				for _, overridden := range terminalPatterns(lower) {
					*out = append(*out, Conflict{Overridden: overridden, Shadowing: shadow})
				}
				break
			}
		}
	}
	for _, c := range n.children {
		b.validateNode(c, out)
	}
}

// sampleSegment synthesizes one path segment the given segment's predicate
// accepts: its own text for literals, a placeholder combined with the
// constant affix for capture and wildcard kinds. For a catch-all the sample
// is the first segment of a synthetic multi-segment remainder.
func sampleSegment(s Segment) string {
	switch s.Kind {
	case KindLiteral:
		return s.Text
	case KindPrefixCapture, KindPrefixWildcard:
		return samplePlaceholder + s.Text
	case KindSuffixCapture, KindSuffixWildcard:
		return s.Text + samplePlaceholder
	default:
		return samplePlaceholder
	}
}

// terminalPatterns collects the normalized patterns of every route
// terminating in n's subtree, in registration order.
func terminalPatterns(n *builderNode) []string {
	var out []string
	var walk func(*builderNode)
	walk = func(c *builderNode) {
		if c.pattern != "" {
			out = append(out, c.pattern)
		}
		for _, k := range c.children {
			walk(k)
		}
	}
	walk(n)
	return out
}

// firstPattern returns the first registered pattern in n's subtree, falling
// back to the node's own grammar form when the subtree holds no terminal.
func firstPattern(n *builderNode) string {
	if n.pattern != "" {
		return n.pattern
	}
	for _, c := range n.children {
		if p := firstPattern(c); p != "" {
			return p
		}
	}
	return "/" + n.seg.String()
}
