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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, pattern string) Pattern {
	t.Helper()
	p, err := ParsePattern(pattern)
	require.NoError(t, err)
	return p
}

// TestInsertSharesStructurallyEqualNodes tests that two patterns with a
// common prefix reuse the same nodes instead of growing parallel branches.
func TestInsertSharesStructurallyEqualNodes(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	require.NoError(t, b.Insert(mustParse(t, "/users/:id"), "byID", nil))
	require.NoError(t, b.Insert(mustParse(t, "/users/:id/posts"), "posts", nil))

	root := &b.root
	require.Len(t, root.children, 1)
	users := root.children[0]
	require.Len(t, users.children, 1)
	assert.Equal(t, KindCapture, users.children[0].seg.Kind)
}

// TestInsertCollapsesDifferingCaptureNames tests that captures with
// different binding names at the same position merge into one node; the
// first registered name wins.
func TestInsertCollapsesDifferingCaptureNames(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	require.NoError(t, b.Insert(mustParse(t, "/users/:id"), "a", nil))
	require.NoError(t, b.Insert(mustParse(t, "/users/:name/posts"), "b", nil))

	users := b.root.children[0]
	require.Len(t, users.children, 1)
	assert.Equal(t, "id", users.children[0].seg.Name)
}

// TestInsertDuplicateWithoutMerge tests that re-inserting the same pattern
// with no merge callback fails with ErrDuplicateRoute.
func TestInsertDuplicateWithoutMerge(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	require.NoError(t, b.Insert(mustParse(t, "/a/b"), "v1", nil))

	err := b.Insert(mustParse(t, "/a/b"), "v2", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateRoute)

	// The original value survives the failed insertion.
	v, pattern, ok := b.Compile().Lookup("/a/b", nil)
	require.True(t, ok)
	assert.Equal(t, "v1", v)
	assert.Equal(t, "/a/b", pattern)
}

// TestInsertMergeCallback tests that the merge callback decides the outcome
// when two insertions land on the same terminal.
func TestInsertMergeCallback(t *testing.T) {
	t.Parallel()

	merge := func(existing, incoming any) (any, error) {
		return existing.(string) + "+" + incoming.(string), nil
	}

	b := NewBuilder()
	require.NoError(t, b.Insert(mustParse(t, "/a"), "x", merge))
	require.NoError(t, b.Insert(mustParse(t, "/a"), "y", merge))

	v, _, ok := b.Compile().Lookup("/a", nil)
	require.True(t, ok)
	assert.Equal(t, "x+y", v)
}

// TestInsertMergeError tests that a merge error rejects the insertion and is
// wrapped with the route pattern.
func TestInsertMergeError(t *testing.T) {
	t.Parallel()

	merge := func(existing, incoming any) (any, error) {
		return nil, fmt.Errorf("%w: GET", ErrDuplicateRoute)
	}

	b := NewBuilder()
	require.NoError(t, b.Insert(mustParse(t, "/a/b"), "v1", merge))

	err := b.Insert(mustParse(t, "/a/b"), "v2", merge)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateRoute)
	assert.Contains(t, err.Error(), "/a/b")
}

// TestInsertRootPattern tests that "/" terminates at the trie root.
func TestInsertRootPattern(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	require.NoError(t, b.Insert(mustParse(t, "/"), "home", nil))
	assert.Equal(t, 1, b.Len())

	v, pattern, ok := b.Compile().Lookup("/", nil)
	require.True(t, ok)
	assert.Equal(t, "home", v)
	assert.Equal(t, "/", pattern)
}

// TestInsertCaseFoldingNormalizesLiterals tests that case-insensitive
// builders merge literals that differ only in case.
func TestInsertCaseFoldingNormalizesLiterals(t *testing.T) {
	t.Parallel()

	b := NewBuilder(WithCaseFolding())
	require.NoError(t, b.Insert(mustParse(t, "/Users/list"), "a", nil))
	require.NoError(t, b.Insert(mustParse(t, "/users/detail"), "b", nil))

	require.Len(t, b.root.children, 1)
	assert.Equal(t, "users", b.root.children[0].seg.Text)
}

func TestBuilderLen(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	assert.Equal(t, 0, b.Len())
	require.NoError(t, b.Insert(mustParse(t, "/a"), "v", nil))
	require.NoError(t, b.Insert(mustParse(t, "/b"), "v", nil))
	assert.Equal(t, 2, b.Len())

	// Merging into an existing terminal does not add a route.
	merge := func(existing, incoming any) (any, error) { return existing, nil }
	require.NoError(t, b.Insert(mustParse(t, "/a"), "v2", merge))
	assert.Equal(t, 2, b.Len())
}
