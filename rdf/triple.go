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

// Triple is an immutable (subject, predicate, object) fact. Subject is
// an IRI or blank node; predicate is always an IRI; object is an IRI,
// blank node, or literal. Triples are value-compared and hashable, so
// they can be used directly as Go map keys.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// NewTriple constructs a Triple. It does not validate term kinds;
// callers (the indexer, the store, CONSTRUCT) are responsible for only
// producing well-formed triples, matching spec.md §3's invariants.
func NewTriple(s, p, o Term) Triple {
	return Triple{Subject: s, Predicate: p, Object: o}
}

// Equal reports whether two triples assert the same fact.
func (t Triple) Equal(other Triple) bool {
	return t.Subject.Equal(other.Subject) &&
		t.Predicate.Equal(other.Predicate) &&
		t.Object.Equal(other.Object)
}

// String renders "subject predicate object ." per the N-Triples
// convention the serializer relies on (spec.md §6).
func (t Triple) String() string {
	return t.Subject.String() + " " + t.Predicate.String() + " " + t.Object.String() + " ."
}

// Matches reports whether the triple satisfies the given pattern,
// where a nil pointer in any position means "unbound" (matches
// anything). This is the predicate the store's Match uses once it has
// picked an index (spec.md §4.B).
func (t Triple) Matches(s, p, o *Term) bool {
	if s != nil && !t.Subject.Equal(*s) {
		return false
	}
	if p != nil && !t.Predicate.Equal(*p) {
		return false
	}
	if o != nil && !t.Object.Equal(*o) {
		return false
	}
	return true
}
