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

// Package trie implements the route-matching engine for the Wayfind router.
//
// The engine turns declared URL patterns into an immutable matching structure,
// resolves a request path to a registered value plus extracted parameters, and
// statically detects routes that a higher-priority sibling makes unreachable.
//
// # Lifecycle
//
// The engine has an explicit two-phase lifecycle:
//
//  1. Registration (single-threaded, start-up only): ParsePattern compiles
//     each pattern string into typed segments, and Builder.Insert grows a
//     mutable tree keyed by segment.
//  2. Serving (concurrent, lock-free): Builder.Compile flattens the tree once
//     into a CompiledTrie, which every request-handling goroutine reads
//     without coordination for the lifetime of the process.
//
// The Builder is never touched at request time; the CompiledTrie is never
// mutated after construction. A reload builds a fresh trie off to the side
// and swaps a pointer, it never patches a live structure.
//
// # Segment kinds and priority
//
// A pattern component is one of a closed set of segment kinds, each with a
// fixed priority rank, most to least specific:
//
//	literal          users          rank 6
//	affixed capture  :name.png      rank 5
//	capture          :id            rank 4
//	affixed wildcard *.png          rank 3
//	wildcard         *              rank 2
//	catch-all        **             rank 1
//
// Several kinds may coexist at the same trie position. The flattener sorts
// every sibling group by rank descending (stable within a rank), which makes
// matching order a pure data property rather than behavior scattered across
// dispatch.
//
// # Flattened layout
//
// Compile produces a single array of fixed-size nodes. Children of a node are
// contiguous and each node links to the next candidate sibling by array
// index, so the matcher traverses an array of structs instead of chasing a
// pointer graph. Literal and affix strings are interned once into a side
// table; terminal values and route patterns live in parallel side tables.
// The layout exists purely for request-time performance: no allocation, no
// pointer chasing, good cache locality.
//
// # Matching
//
// Lookup walks the path one segment at a time, slicing the string in place.
// At each level the first sibling whose predicate accepts the segment wins
// and the walk commits to that branch; there is no backtracking. A trailing
// catch-all consumes the whole remainder (including, by default, an empty
// one) as a single unit. An unmatched path returns ok=false, never an error.
//
// # Conflict detection
//
// Because the matcher never backtracks, a route can be registered yet
// permanently unreachable: a sibling placed earlier in priority order may
// accept everything the route accepts. Builder.Validate surfaces these at
// configuration time by sampling one representative segment per
// lower-priority sibling, for example:
//
//	b := trie.NewBuilder()
//	// "/img/:name" outranks "/img/*.png" and accepts every segment the
//	// affixed wildcard accepts, so the wildcard route can never match.
//	conflicts := b.Validate()
//	for _, c := range conflicts {
//	    log.Fatal(c)
//	}
//
// Validate is a strong heuristic guard, not a formal proof of unambiguity;
// see the method documentation for its known gaps.
package trie
