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

// Package store provides the in-memory, indexed triple store (spec.md
// §4.B): the sole shared resource the indexer writes and the executor
// reads.
package store

import "github.com/kitelev/exocortex-triplestore/rdf"

// Store is the external interface consumed by the indexer, the
// executor, and the serializers (spec.md §6).
type Store interface {
	Add(t rdf.Triple) error
	AddAll(ts []rdf.Triple) error
	Remove(t rdf.Triple) bool
	RemoveAll(ts []rdf.Triple) int
	Has(t rdf.Triple) bool
	Clear()
	Count() int
	// Match returns every stored triple whose bound positions equal
	// the given terms; a nil pointer in a position means unbound.
	Match(s, p, o *rdf.Term) []rdf.Triple
	Subjects() []rdf.Term
	Predicates() []rdf.Term
	Objects() []rdf.Term
	BeginTransaction() Transaction
}

// Transaction stages add/remove operations that become visible
// atomically on Commit, or are discarded on Rollback (spec.md §4.B).
type Transaction interface {
	Add(t rdf.Triple)
	Remove(t rdf.Triple)
	Commit() error
	Rollback()
}
