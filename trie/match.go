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

// ParamSink receives the parameter bindings extracted by one Lookup. The
// router's pooled request context implements it with fixed-size arrays so a
// match allocates nothing.
//
// BindCatchAll is a set-once slot: implementations must keep the first value
// recorded during a lookup.
type ParamSink interface {
	// Bind records one named capture in registration order.
	Bind(name, value string)

	// BindCatchAll records the joined path remainder consumed by a trailing
	// catch-all segment. The remainder carries no leading slash and may be
	// empty when the catch-all matched zero segments.
	BindCatchAll(remainder string)
}

// Lookup resolves a request path against the compiled trie. It returns the
// terminal value, the normalized pattern of the matched route, and whether a
// route matched at all. An unmatched path is an expected outcome, not an
// error, and costs no allocation.
//
// The walk is O(len(path)): path segments are sliced in place, and at each
// level the children are scanned in their pre-sorted priority order. The
// first child whose predicate accepts the current segment is taken and the
// walk commits to that branch; there is no backtracking across siblings.
// Under a configuration that passes Validate this loses no matches, because
// at most one viable candidate of each rank can exist per level.
//
// sink may be nil when the caller needs no parameters (existence probes,
// allowed-method scans).
//
// Lookup is a pure function of the trie and the path, safe for any number of
// concurrent callers.
func (t *CompiledTrie) Lookup(path string, sink ParamSink) (any, string, bool) {
	cur := int32(0)
	start := 0
	if len(path) > 0 && path[0] == '/' {
		start = 1
	}
	pathLen := len(path)

	for start < pathLen {
		end := start
		for end < pathLen && path[end] != '/' {
			end++
		}
		seg := path[start:end]
		if seg == "" {
			// Duplicate slashes normalize away, same as in patterns.
			start = end + 1
			continue
		}

		matched := none
		for child := t.nodes[cur].firstChild; child != none; child = t.nodes[child].nextSibling {
			if t.accepts(child, seg) {
				matched = child
				break
			}
		}
		if matched == none {
			return nil, "", false
		}

		n := &t.nodes[matched]
		if n.kind == KindCatchAll {
			// The catch-all consumes every remaining segment as one unit
			// and ends the walk.
			if sink != nil {
				sink.BindCatchAll(path[start:])
			}
			return t.terminal(matched)
		}
		if sink != nil && n.nameIndex != none {
			t.bind(sink, n, seg)
		}

		cur = matched
		start = end + 1
	}

	if v, pattern, ok := t.terminal(cur); ok {
		return v, pattern, ok
	}

	// Path exhausted on a non-terminal node: a child catch-all may still
	// claim the empty remainder when the zero-segment policy allows it.
	if t.emptyCatchAll {
		for child := t.nodes[cur].firstChild; child != none; child = t.nodes[child].nextSibling {
			if t.nodes[child].kind == KindCatchAll {
				if sink != nil {
					sink.BindCatchAll("")
				}
				return t.terminal(child)
			}
		}
	}

	return nil, "", false
}

// accepts tests the child node's segment predicate against one path segment.
func (t *CompiledTrie) accepts(idx int32, seg string) bool {
	n := &t.nodes[idx]
	s := Segment{Kind: n.kind}
	if n.textIndex != none {
		s.Text = t.strs[n.textIndex]
	}
	return s.matches(seg, t.foldCase)
}

// bind records the captured part of seg for a capture-kind node. Affixed
// captures bind only the variable part; the constant affix is dropped.
func (t *CompiledTrie) bind(sink ParamSink, n *cnode, seg string) {
	name := t.strs[n.nameIndex]
	switch n.kind {
	case KindCapture:
		sink.Bind(name, seg)
	case KindPrefixCapture:
		sink.Bind(name, seg[:len(seg)-len(t.strs[n.textIndex])])
	case KindSuffixCapture:
		sink.Bind(name, seg[len(t.strs[n.textIndex]):])
	}
}

// terminal returns the value and pattern at idx when it is a terminal node.
func (t *CompiledTrie) terminal(idx int32) (any, string, bool) {
	vi := t.nodes[idx].valueIndex
	if vi == none {
		return nil, "", false
	}
	return t.values[vi], t.patterns[vi], true
}
