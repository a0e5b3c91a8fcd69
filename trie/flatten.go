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

import "slices"

// none marks an absent index in the flattened node array and side tables.
const none int32 = -1

// cnode is one node of the flattened trie.
//
// Children of a node are contiguous in the array, pre-sorted by priority rank
// descending, so the matcher walks a sibling group by following nextSibling
// without chasing heap pointers. Literal and affix text lives once in the
// interned string table and is referenced by index.
type cnode struct {
	kind        Kind
	textIndex   int32 // interned literal/affix text, none when absent
	nameIndex   int32 // interned capture binding name, none when absent
	valueIndex  int32 // terminal value/pattern slot, none for non-terminals
	firstChild  int32 // index of the highest-priority child, none for leaves
	nextSibling int32 // next sibling in priority order, none at group end
}

// CompiledTrie is the immutable, array-backed form of a Builder. It is never
// mutated after Compile returns it and is safe for unbounded concurrent
// readers without locking.
type CompiledTrie struct {
	nodes    []cnode
	strs     []string // interned literal/affix/name text
	values   []any    // terminal values, indexed by valueIndex
	patterns []string // normalized route patterns, parallel to values

	foldCase      bool
	emptyCatchAll bool
}

// Size returns the number of nodes in the flattened array, root included.
func (t *CompiledTrie) Size() int { return len(t.nodes) }

// Routes returns the normalized patterns of all registered routes, in
// flattening order.
func (t *CompiledTrie) Routes() []string {
	return slices.Clone(t.patterns)
}

// Values returns the terminal values of all registered routes, parallel to
// Routes. The slice is fresh but the values are shared with the trie.
func (t *CompiledTrie) Values() []any {
	return slices.Clone(t.values)
}

// sortedChildren returns n's children ordered by priority rank descending.
// The sort is stable: siblings of equal rank keep registration order, which
// is what makes compilation deterministic and repeatable.
func sortedChildren(n *builderNode) []*builderNode {
	kids := slices.Clone(n.children)
	slices.SortStableFunc(kids, func(a, b *builderNode) int {
		return int(b.seg.Kind.rank()) - int(a.seg.Kind.rank())
	})
	return kids
}

// Compile flattens the builder tree into a CompiledTrie.
//
// The traversal is breadth-first so that every sibling group lands in one
// contiguous block. Cost is linear in the number of trie nodes; Compile is
// meant to run exactly once after registration completes, though compiling an
// unchanged Builder again yields an equivalent trie.
func (b *Builder) Compile() *CompiledTrie {
	t := &CompiledTrie{
		foldCase:      b.foldCase,
		emptyCatchAll: b.emptyCatchAll,
		nodes:         make([]cnode, 0, b.countNodes()),
	}
	intern := make(map[string]int32)

	t.nodes = append(t.nodes, cnode{
		kind:        KindRoot,
		textIndex:   none,
		nameIndex:   none,
		valueIndex:  t.addTerminal(&b.root),
		firstChild:  none,
		nextSibling: none,
	})

	type item struct {
		bn  *builderNode
		idx int32
	}
	queue := []item{{&b.root, 0}}

	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]

		kids := sortedChildren(it.bn)
		if len(kids) == 0 {
			continue
		}
		first := int32(len(t.nodes))
		t.nodes[it.idx].firstChild = first

		for i, c := range kids {
			idx := first + int32(i)
			n := cnode{
				kind:        c.seg.Kind,
				textIndex:   t.intern(intern, c.seg.Text),
				nameIndex:   t.intern(intern, c.seg.Name),
				valueIndex:  t.addTerminal(c),
				firstChild:  none,
				nextSibling: none,
			}
			if i < len(kids)-1 {
				n.nextSibling = idx + 1
			}
			t.nodes = append(t.nodes, n)
			queue = append(queue, item{c, idx})
		}
	}

	return t
}

// intern stores s once in the string table and returns its index, or none for
// the empty string.
func (t *CompiledTrie) intern(seen map[string]int32, s string) int32 {
	if s == "" {
		return none
	}
	if i, ok := seen[s]; ok {
		return i
	}
	i := int32(len(t.strs))
	t.strs = append(t.strs, s)
	seen[s] = i
	return i
}

// addTerminal records n's value and pattern in the side tables and returns
// the slot index, or none when n is not a terminal.
func (t *CompiledTrie) addTerminal(n *builderNode) int32 {
	if n.value == nil {
		return none
	}
	i := int32(len(t.values))
	t.values = append(t.values, n.value)
	t.patterns = append(t.patterns, n.pattern)
	return i
}

// countNodes sizes the output array up front to avoid regrowth.
func (b *Builder) countNodes() int {
	count := 0
	var walk func(*builderNode)
	walk = func(n *builderNode) {
		count++
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(&b.root)
	return count
}
