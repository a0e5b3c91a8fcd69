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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCompileSortsSiblingsByPriority tests that a sibling group is laid out
// priority-descending regardless of registration order.
func TestCompileSortsSiblingsByPriority(t *testing.T) {
	t.Parallel()

	// Registered from least to most specific on purpose.
	b := NewBuilder()
	require.NoError(t, b.Insert(mustParse(t, "/a/**"), "catchall", nil))
	require.NoError(t, b.Insert(mustParse(t, "/a/*"), "wild", nil))
	require.NoError(t, b.Insert(mustParse(t, "/a/*.png"), "affixwild", nil))
	require.NoError(t, b.Insert(mustParse(t, "/a/:x"), "capture", nil))
	require.NoError(t, b.Insert(mustParse(t, "/a/:x.png"), "affixcap", nil))
	require.NoError(t, b.Insert(mustParse(t, "/a/b"), "literal", nil))

	ct := b.Compile()

	// Root has a single "a" child; its children are the sibling group.
	a := ct.nodes[ct.nodes[0].firstChild]
	var kinds []Kind
	for child := a.firstChild; child != none; child = ct.nodes[child].nextSibling {
		kinds = append(kinds, ct.nodes[child].kind)
	}
	assert.Equal(t, []Kind{
		KindLiteral,
		KindPrefixCapture,
		KindCapture,
		KindPrefixWildcard,
		KindWildcard,
		KindCatchAll,
	}, kinds)
}

// TestCompileStableWithinRank tests that same-rank siblings keep their
// registration order after sorting.
func TestCompileStableWithinRank(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	require.NoError(t, b.Insert(mustParse(t, "/f/:n.tar.gz"), "tgz", nil))
	require.NoError(t, b.Insert(mustParse(t, "/f/:n.gz"), "gz", nil))

	ct := b.Compile()
	f := ct.nodes[ct.nodes[0].firstChild]

	var affixes []string
	for child := f.firstChild; child != none; child = ct.nodes[child].nextSibling {
		affixes = append(affixes, ct.strs[ct.nodes[child].textIndex])
	}
	assert.Equal(t, []string{".tar.gz", ".gz"}, affixes)
}

// TestCompileDeterministic tests that compiling an unchanged builder twice
// yields structurally identical tries.
func TestCompileDeterministic(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	for _, p := range []string{"/users/:id", "/users/me", "/static/**", "/img/*.png", "/"} {
		require.NoError(t, b.Insert(mustParse(t, p), p, nil))
	}

	first := b.Compile()
	second := b.Compile()

	assert.Equal(t, first.nodes, second.nodes)
	assert.Equal(t, first.strs, second.strs)
	assert.Equal(t, first.patterns, second.patterns)

	// And they resolve identically for a spread of inputs.
	for _, path := range []string{"/users/42", "/users/me", "/static/a/b", "/img/x.png", "/", "/none"} {
		v1, p1, ok1 := first.Lookup(path, nil)
		v2, p2, ok2 := second.Lookup(path, nil)
		assert.Equal(t, ok1, ok2, path)
		assert.Equal(t, v1, v2, path)
		assert.Equal(t, p1, p2, path)
	}
}

// TestCompileInternsRepeatedText tests that a literal appearing on many
// branches is stored once in the string table.
func TestCompileInternsRepeatedText(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	require.NoError(t, b.Insert(mustParse(t, "/a/list"), "1", nil))
	require.NoError(t, b.Insert(mustParse(t, "/b/list"), "2", nil))
	require.NoError(t, b.Insert(mustParse(t, "/c/list"), "3", nil))

	ct := b.Compile()
	seen := 0
	for _, s := range ct.strs {
		if s == "list" {
			seen++
		}
	}
	assert.Equal(t, 1, seen)
}

// TestCompileSizeAndRoutes sanity-checks the flattened node count and the
// pattern side table.
func TestCompileSizeAndRoutes(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	require.NoError(t, b.Insert(mustParse(t, "/users/:id"), "a", nil))
	require.NoError(t, b.Insert(mustParse(t, "/users/me"), "b", nil))

	ct := b.Compile()
	// root + users + :id + me
	assert.Equal(t, 4, ct.Size())
	assert.ElementsMatch(t, []string{"/users/:id", "/users/me"}, ct.Routes())
}
