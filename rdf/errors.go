// Copyright 2020-2021 Dolthub, Inc.
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

package rdf

import "gopkg.in/src-d/go-errors.v1"

// Error kinds, one per behavioural category in spec.md §7. Input
// errors, resource-exhaustion errors and transaction failures are the
// ones that reach a caller as a returned error; schema errors and
// expression type errors are absorbed locally (empty stream / unbound
// value) and never constructed here.
var (
	// ErrSyntax is raised by the lexer/parser on malformed query text.
	ErrSyntax = errors.NewKind("syntax error at %s: %s")

	// ErrUnknownPrefix is raised when a prefixed name uses an
	// undeclared prefix.
	ErrUnknownPrefix = errors.NewKind("unknown prefix: %s")

	// ErrMalformedFrontmatter is raised by the vault indexer when a
	// note's frontmatter cannot be parsed; the note is skipped and
	// indexing continues (spec.md §4.C).
	ErrMalformedFrontmatter = errors.NewKind("malformed frontmatter in %s: %s")

	// ErrTransactionFailed is raised by a transaction's Commit when the
	// transaction was already rolled back or committed.
	ErrTransactionFailed = errors.NewKind("transaction %s: %s")

	// ErrQueryTimeout is raised by DrainMappings when the context
	// deadline (for example one set via Context.WithTimeout) has passed
	// before the stream is exhausted.
	ErrQueryTimeout = errors.NewKind("query exceeded its deadline")

	// ErrPathDepthExceeded is raised by the property-path executor if
	// a `+` or `*` traversal would exceed the configured bound on BFS rounds
	// (spec.md §4.H, §7 resource exhaustion); in practice the visited
	// set makes this unreachable on a finite store, but the bound
	// exists as a circuit breaker against pathological inputs.
	ErrPathDepthExceeded = errors.NewKind("property path exceeded depth bound of %d rounds")
)
