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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParsePatternClassification tests that each component form maps to the
// expected segment kind.
func TestParsePatternClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		pattern  string
		want     []Segment
		wantNorm string
	}{
		{
			name:     "single literal",
			pattern:  "/users",
			want:     []Segment{{Kind: KindLiteral, Text: "users"}},
			wantNorm: "/users",
		},
		{
			name:    "multi-segment literals",
			pattern: "/api/v1/users",
			want: []Segment{
				{Kind: KindLiteral, Text: "api"},
				{Kind: KindLiteral, Text: "v1"},
				{Kind: KindLiteral, Text: "users"},
			},
			wantNorm: "/api/v1/users",
		},
		{
			name:    "capture",
			pattern: "/users/:id",
			want: []Segment{
				{Kind: KindLiteral, Text: "users"},
				{Kind: KindCapture, Name: "id"},
			},
			wantNorm: "/users/:id",
		},
		{
			name:    "prefix capture with constant suffix",
			pattern: "/img/:name.png",
			want: []Segment{
				{Kind: KindLiteral, Text: "img"},
				{Kind: KindPrefixCapture, Name: "name", Text: ".png"},
			},
			wantNorm: "/img/:name.png",
		},
		{
			name:    "suffix capture with constant prefix",
			pattern: "/releases/v:major",
			want: []Segment{
				{Kind: KindLiteral, Text: "releases"},
				{Kind: KindSuffixCapture, Name: "major", Text: "v"},
			},
			wantNorm: "/releases/v:major",
		},
		{
			name:     "wildcard",
			pattern:  "/files/*",
			want:     []Segment{{Kind: KindLiteral, Text: "files"}, {Kind: KindWildcard}},
			wantNorm: "/files/*",
		},
		{
			name:     "prefix wildcard",
			pattern:  "/img/*.png",
			want:     []Segment{{Kind: KindLiteral, Text: "img"}, {Kind: KindPrefixWildcard, Text: ".png"}},
			wantNorm: "/img/*.png",
		},
		{
			name:     "suffix wildcard",
			pattern:  "/assets/img-*",
			want:     []Segment{{Kind: KindLiteral, Text: "assets"}, {Kind: KindSuffixWildcard, Text: "img-"}},
			wantNorm: "/assets/img-*",
		},
		{
			name:     "catch-all in final position",
			pattern:  "/static/**",
			want:     []Segment{{Kind: KindLiteral, Text: "static"}, {Kind: KindCatchAll}},
			wantNorm: "/static/**",
		},
		{
			name:     "slash normalization",
			pattern:  "//users///:id/",
			want:     []Segment{{Kind: KindLiteral, Text: "users"}, {Kind: KindCapture, Name: "id"}},
			wantNorm: "/users/:id",
		},
		{
			name:     "root pattern",
			pattern:  "/",
			want:     nil,
			wantNorm: "/",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := ParsePattern(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Segments())
			assert.Equal(t, tt.wantNorm, p.String())
		})
	}
}

// TestParsePatternErrors tests that malformed patterns fail at parse time
// with a SyntaxError wrapping ErrPatternSyntax.
func TestParsePatternErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
	}{
		{name: "catch-all not final", pattern: "/static/**/files"},
		{name: "two captures in one segment", pattern: "/a/:x:y"},
		{name: "empty capture name", pattern: "/a/:"},
		{name: "empty capture name with suffix", pattern: "/a/:.png"},
		{name: "mixed capture and wildcard", pattern: "/a/:x*"},
		{name: "embedded wildcard", pattern: "/a/im*g"},
		{name: "double wildcard with affix", pattern: "/a/**x"},
		{name: "empty prefixed capture name", pattern: "/a/v:"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParsePattern(tt.pattern)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrPatternSyntax)

			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, tt.pattern, syntaxErr.Pattern)
		})
	}
}

// TestSegmentMatches tests the per-kind predicates, including the rule that
// the variable part of a capture or wildcard must be non-empty.
func TestSegmentMatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		seg  Segment
		text string
		fold bool
		want bool
	}{
		{name: "literal exact", seg: Segment{Kind: KindLiteral, Text: "users"}, text: "users", want: true},
		{name: "literal mismatch", seg: Segment{Kind: KindLiteral, Text: "users"}, text: "Users", want: false},
		{name: "literal folded", seg: Segment{Kind: KindLiteral, Text: "users"}, text: "USERS", fold: true, want: true},
		{name: "capture non-empty", seg: Segment{Kind: KindCapture, Name: "id"}, text: "42", want: true},
		{name: "capture empty", seg: Segment{Kind: KindCapture, Name: "id"}, text: "", want: false},
		{name: "prefix capture suffix present", seg: Segment{Kind: KindPrefixCapture, Name: "n", Text: ".png"}, text: "logo.png", want: true},
		{name: "prefix capture bare affix", seg: Segment{Kind: KindPrefixCapture, Name: "n", Text: ".png"}, text: ".png", want: false},
		{name: "prefix capture wrong suffix", seg: Segment{Kind: KindPrefixCapture, Name: "n", Text: ".png"}, text: "logo.jpg", want: false},
		{name: "suffix capture prefix present", seg: Segment{Kind: KindSuffixCapture, Name: "v", Text: "v"}, text: "v2", want: true},
		{name: "suffix capture bare affix", seg: Segment{Kind: KindSuffixCapture, Name: "v", Text: "v"}, text: "v", want: false},
		{name: "prefix wildcard folded affix", seg: Segment{Kind: KindPrefixWildcard, Text: ".PNG"}, text: "logo.png", fold: true, want: true},
		{name: "wildcard any", seg: Segment{Kind: KindWildcard}, text: "anything", want: true},
		{name: "catch-all always", seg: Segment{Kind: KindCatchAll}, text: "x", want: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.seg.matches(tt.text, tt.fold))
		})
	}
}

// TestKindRankOrder pins the priority total order the flattener sorts by.
func TestKindRankOrder(t *testing.T) {
	t.Parallel()

	order := []Kind{
		KindLiteral,
		KindPrefixCapture,
		KindCapture,
		KindPrefixWildcard,
		KindWildcard,
		KindCatchAll,
	}
	for i := 1; i < len(order); i++ {
		assert.Greater(t, order[i-1].rank(), order[i].rank(),
			"%s must outrank %s", order[i-1], order[i])
	}

	// Affixed forms share a rank.
	assert.Equal(t, KindPrefixCapture.rank(), KindSuffixCapture.rank())
	assert.Equal(t, KindPrefixWildcard.rank(), KindSuffixWildcard.rank())
}

func TestSyntaxErrorUnwrap(t *testing.T) {
	t.Parallel()

	_, err := ParsePattern("/a/:")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPatternSyntax))
}
