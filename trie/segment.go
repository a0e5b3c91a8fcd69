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

// ErrPatternSyntax is the sentinel wrapped by every *SyntaxError.
// Use errors.Is(err, trie.ErrPatternSyntax) to detect malformed patterns.
var ErrPatternSyntax = errors.New("malformed route pattern")

// SyntaxError describes a malformed route pattern. It is returned at
// registration time; a pattern that parses never fails later at request time.
type SyntaxError struct {
	Pattern string // full pattern as passed by the caller
	Segment string // offending path segment
	Reason  string // human-readable cause
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("pattern %q: segment %q: %s", e.Pattern, e.Segment, e.Reason)
}

func (e *SyntaxError) Unwrap() error { return ErrPatternSyntax }

// Kind identifies the matching behavior of one path segment.
//
// Kinds form a closed set with a fixed priority rank (see rank). When several
// segment kinds could occupy the same position in the trie, the flattener
// sorts siblings by rank so that matching order is a pure data property.
type Kind uint8

const (
	// KindRoot is the sentinel kind owned by the trie root only.
	KindRoot Kind = iota

	// KindLiteral matches exactly its text ("users", "api").
	KindLiteral

	// KindPrefixCapture matches text ending in a constant suffix and binds
	// the part before the suffix (":name.png" binds "logo" for "logo.png").
	KindPrefixCapture

	// KindSuffixCapture matches text starting with a constant prefix and
	// binds the part after the prefix ("v:major" binds "2" for "v2").
	KindSuffixCapture

	// KindCapture matches any non-empty segment and binds it (":id").
	KindCapture

	// KindPrefixWildcard matches text ending in a constant suffix without
	// binding ("*.png").
	KindPrefixWildcard

	// KindSuffixWildcard matches text starting with a constant prefix
	// without binding ("img-*").
	KindSuffixWildcard

	// KindWildcard matches any non-empty segment without binding ("*").
	KindWildcard

	// KindCatchAll matches the remaining path segments as a single unit
	// ("**"). Legal only as the final segment of a pattern. The joined
	// remainder is bound to the reserved catch-all key.
	KindCatchAll
)

// rank returns the match priority of a segment kind. Higher ranks are more
// specific and are tried first. Siblings of equal rank keep registration
// order.
func (k Kind) rank() uint8 {
	switch k {
	case KindRoot:
		return 7
	case KindLiteral:
		return 6
	case KindPrefixCapture, KindSuffixCapture:
		return 5
	case KindCapture:
		return 4
	case KindPrefixWildcard, KindSuffixWildcard:
		return 3
	case KindWildcard:
		return 2
	case KindCatchAll:
		return 1
	}
	return 0
}

// String returns a short name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindLiteral:
		return "literal"
	case KindPrefixCapture:
		return "prefix-capture"
	case KindSuffixCapture:
		return "suffix-capture"
	case KindCapture:
		return "capture"
	case KindPrefixWildcard:
		return "prefix-wildcard"
	case KindSuffixWildcard:
		return "suffix-wildcard"
	case KindWildcard:
		return "wildcard"
	case KindCatchAll:
		return "catch-all"
	}
	return "unknown"
}

// Segment is one typed component of a route pattern.
//
// Text holds the literal text for KindLiteral and the constant affix for the
// affixed kinds. Name holds the binding name for the capture kinds. Two
// segments are structurally equal when Kind and Text agree; Name is
// deliberately excluded so that captures with different binding names at the
// same trie position collapse to one node.
type Segment struct {
	Kind Kind
	Name string
	Text string
}

// equal reports structural equality: same kind and same constant text.
// Binding names do not participate (see Segment doc).
func (s Segment) equal(o Segment) bool {
	return s.Kind == o.Kind && s.Text == o.Text
}

// matches reports whether the segment predicate accepts text. The variable
// part of a capture or wildcard must be non-empty, so an affixed segment
// requires text strictly longer than its affix. fold enables case-insensitive
// comparison of literals and affixes.
func (s Segment) matches(text string, fold bool) bool {
	switch s.Kind {
	case KindLiteral:
		if fold {
			return strings.EqualFold(text, s.Text)
		}
		return text == s.Text
	case KindCapture, KindWildcard:
		return text != ""
	case KindPrefixCapture, KindPrefixWildcard:
		return len(text) > len(s.Text) && hasSuffix(text, s.Text, fold)
	case KindSuffixCapture, KindSuffixWildcard:
		return len(text) > len(s.Text) && hasPrefix(text, s.Text, fold)
	case KindCatchAll:
		return true
	}
	return false
}

// String renders the segment in pattern grammar form.
func (s Segment) String() string {
	switch s.Kind {
	case KindLiteral:
		return s.Text
	case KindPrefixCapture:
		return ":" + s.Name + s.Text
	case KindSuffixCapture:
		return s.Text + ":" + s.Name
	case KindCapture:
		return ":" + s.Name
	case KindPrefixWildcard:
		return "*" + s.Text
	case KindSuffixWildcard:
		return s.Text + "*"
	case KindWildcard:
		return "*"
	case KindCatchAll:
		return "**"
	}
	return ""
}

func hasPrefix(s, prefix string, fold bool) bool {
	if !fold {
		return strings.HasPrefix(s, prefix)
	}
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func hasSuffix(s, suffix string, fold bool) bool {
	if !fold {
		return strings.HasSuffix(s, suffix)
	}
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}

// Pattern is the parsed form of one route pattern string, immutable after
// ParsePattern returns it.
type Pattern struct {
	raw      string
	segments []Segment
}

// Segments returns the parsed segment sequence. Callers must not modify the
// returned slice.
func (p Pattern) Segments() []Segment { return p.segments }

// String returns the normalized pattern: segments joined by "/", with empty
// components dropped. A pattern with no segments renders as "/".
func (p Pattern) String() string {
	if len(p.segments) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, s := range p.segments {
		b.WriteByte('/')
		b.WriteString(s.String())
	}
	return b.String()
}

// ParsePattern compiles a route pattern string into a Pattern.
//
// The pattern is split on "/" and empty components are discarded, so leading,
// trailing and duplicate slashes are all normalized away. Each component is
// classified per the grammar:
//
//	users          literal
//	:id            capture
//	:name.png      prefix capture (constant suffix ".png")
//	v:major        suffix capture (constant prefix "v")
//	*              wildcard
//	*.png          prefix wildcard
//	img-*          suffix wildcard
//	**             catch-all, final segment only
//
// Malformed components (multiple markers in one segment, empty capture name,
// "**" not in final position) return a *SyntaxError.
func ParsePattern(pattern string) (Pattern, error) {
	p := Pattern{raw: pattern}

	rest := pattern
	for rest != "" {
		var comp string
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			comp, rest = rest[:i], rest[i+1:]
		} else {
			comp, rest = rest, ""
		}
		if comp == "" {
			continue
		}

		if n := len(p.segments); n > 0 && p.segments[n-1].Kind == KindCatchAll {
			return Pattern{}, &SyntaxError{Pattern: pattern, Segment: comp, Reason: "** must be the final segment"}
		}

		seg, reason := parseComponent(comp)
		if reason != "" {
			return Pattern{}, &SyntaxError{Pattern: pattern, Segment: comp, Reason: reason}
		}
		p.segments = append(p.segments, seg)
	}

	return p, nil
}

// parseComponent classifies a single non-empty path component. It returns a
// non-empty reason string on failure.
func parseComponent(comp string) (Segment, string) {
	colons := strings.Count(comp, ":")
	stars := strings.Count(comp, "*")

	switch {
	case colons == 0 && stars == 0:
		return Segment{Kind: KindLiteral, Text: comp}, ""

	case colons > 0 && stars > 0:
		return Segment{}, "segment mixes capture and wildcard markers"

	case stars > 0:
		if comp == "*" {
			return Segment{Kind: KindWildcard}, ""
		}
		if comp == "**" {
			return Segment{Kind: KindCatchAll}, ""
		}
		if stars > 1 {
			return Segment{}, "multiple wildcard markers in one segment"
		}
		if comp[0] == '*' {
			return Segment{Kind: KindPrefixWildcard, Text: comp[1:]}, ""
		}
		if comp[len(comp)-1] == '*' {
			return Segment{Kind: KindSuffixWildcard, Text: comp[:len(comp)-1]}, ""
		}
		return Segment{}, "wildcard must be at the start or end of a segment"

	default: // colons > 0, stars == 0
		if colons > 1 {
			return Segment{}, "multiple capture markers in one segment"
		}
		i := strings.IndexByte(comp, ':')
		if i > 0 {
			// prefix:name form; the name runs to the end of the segment.
			name := comp[i+1:]
			if name == "" {
				return Segment{}, "empty capture name"
			}
			if !validName(name) {
				return Segment{}, "invalid capture name"
			}
			return Segment{Kind: KindSuffixCapture, Name: name, Text: comp[:i]}, ""
		}
		// :name or :name<suffix> form; the name stops at the first
		// character that cannot appear in a binding name.
		j := 1
		for j < len(comp) && isNameByte(comp[j]) {
			j++
		}
		name := comp[1:j]
		if name == "" {
			return Segment{}, "empty capture name"
		}
		if j == len(comp) {
			return Segment{Kind: KindCapture, Name: name}, ""
		}
		return Segment{Kind: KindPrefixCapture, Name: name, Text: comp[j:]}, ""
	}
}

// validName reports whether s consists solely of binding-name characters.
func validName(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isNameByte(s[i]) {
			return false
		}
	}
	return true
}

// isNameByte reports whether c may appear in a capture binding name.
func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-'
}
