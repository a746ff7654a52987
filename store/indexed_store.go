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

package store

import (
	"sync"

	"github.com/kitelev/exocortex-triplestore/rdf"
)

// termIndex maps a bound term to the set of triples having that term
// in one fixed position.
type termIndex map[rdf.Term]map[rdf.Triple]struct{}

func (ix termIndex) add(key rdf.Term, t rdf.Triple) {
	set, ok := ix[key]
	if !ok {
		set = map[rdf.Triple]struct{}{}
		ix[key] = set
	}
	set[t] = struct{}{}
}

func (ix termIndex) remove(key rdf.Term, t rdf.Triple) {
	set, ok := ix[key]
	if !ok {
		return
	}
	delete(set, t)
	if len(set) == 0 {
		delete(ix, key)
	}
}

// IndexedStore is the in-memory triple store: a canonical insertion
// order plus three hash indexes, matching the invariants of spec.md
// §3-4.B. It is safe for single-writer/multi-reader use the way the
// concurrency model in spec.md §5 describes (the indexer is the only
// writer; the executor only reads); the mutex below exists so stray
// concurrent callers fail safely rather than corrupt indexes, not to
// support genuine concurrent writers.
type IndexedStore struct {
	mu sync.RWMutex

	order   []rdf.Triple
	present map[rdf.Triple]struct{}

	bySubject   termIndex
	byPredicate termIndex
	byObject    termIndex
}

// New returns an empty IndexedStore.
func New() *IndexedStore {
	return &IndexedStore{
		present:     map[rdf.Triple]struct{}{},
		bySubject:   termIndex{},
		byPredicate: termIndex{},
		byObject:    termIndex{},
	}
}

// Add is an idempotent set insert (spec.md §4.B); adding an equal
// triple again is a no-op and never an error.
func (s *IndexedStore) Add(t rdf.Triple) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(t)
	return nil
}

func (s *IndexedStore) addLocked(t rdf.Triple) {
	if _, ok := s.present[t]; ok {
		return
	}
	s.present[t] = struct{}{}
	s.order = append(s.order, t)
	s.bySubject.add(t.Subject, t)
	s.byPredicate.add(t.Predicate, t)
	s.byObject.add(t.Object, t)
}

// AddAll bulk-inserts, preserving set semantics per triple.
func (s *IndexedStore) AddAll(ts []rdf.Triple) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range ts {
		s.addLocked(t)
	}
	return nil
}

// Remove deletes t if present and reports whether it was removed.
func (s *IndexedStore) Remove(t rdf.Triple) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(t)
}

func (s *IndexedStore) removeLocked(t rdf.Triple) bool {
	if _, ok := s.present[t]; !ok {
		return false
	}
	delete(s.present, t)
	s.bySubject.remove(t.Subject, t)
	s.byPredicate.remove(t.Predicate, t)
	s.byObject.remove(t.Object, t)

	for i, cur := range s.order {
		if cur.Equal(t) {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// RemoveAll bulk-removes and returns the count actually removed.
func (s *IndexedStore) RemoveAll(ts []rdf.Triple) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range ts {
		if s.removeLocked(t) {
			n++
		}
	}
	return n
}

// Has is a membership test.
func (s *IndexedStore) Has(t rdf.Triple) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.present[t]
	return ok
}

// Clear empties the store.
func (s *IndexedStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.present = map[rdf.Triple]struct{}{}
	s.bySubject = termIndex{}
	s.byPredicate = termIndex{}
	s.byObject = termIndex{}
}

// Count returns the canonical size, equal to len(order) by invariant.
func (s *IndexedStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Match uses the index of the first bound position, checked in subject,
// predicate, object order, then linearly filters by any remaining bound
// positions (spec.md §4.B). It does not compare bucket sizes to pick
// the smallest index.
// Order follows insertion order of the chosen index's bucket, which is
// deterministic for a fixed store state.
func (s *IndexedStore) Match(s1, p, o *rdf.Term) []rdf.Triple {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var candidates []rdf.Triple
	switch {
	case s1 != nil:
		candidates = orderedBucket(s.bySubject[*s1], s.order)
	case p != nil:
		candidates = orderedBucket(s.byPredicate[*p], s.order)
	case o != nil:
		candidates = orderedBucket(s.byObject[*o], s.order)
	default:
		candidates = append([]rdf.Triple(nil), s.order...)
		return candidates
	}

	out := make([]rdf.Triple, 0, len(candidates))
	for _, t := range candidates {
		if t.Matches(s1, p, o) {
			out = append(out, t)
		}
	}
	return out
}

// orderedBucket returns bucket's members in canonical insertion order,
// so Match results are deterministic for a fixed store state.
func orderedBucket(bucket map[rdf.Triple]struct{}, order []rdf.Triple) []rdf.Triple {
	if len(bucket) == 0 {
		return nil
	}
	out := make([]rdf.Triple, 0, len(bucket))
	for _, t := range order {
		if _, ok := bucket[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Subjects, Predicates, Objects return the deduplicated set of terms
// appearing in that position across all stored triples. spec.md §9
// leaves multiset-vs-set ambiguous; this store resolves it to
// deduplicated sets (documented in DESIGN.md).
func (s *IndexedStore) Subjects() []rdf.Term   { return s.termsLocked(s.bySubject) }
func (s *IndexedStore) Predicates() []rdf.Term { return s.termsLocked(s.byPredicate) }
func (s *IndexedStore) Objects() []rdf.Term    { return s.termsLocked(s.byObject) }

func (s *IndexedStore) termsLocked(ix termIndex) []rdf.Term {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]rdf.Term, 0, len(ix))
	for term := range ix {
		out = append(out, term)
	}
	return out
}

// BeginTransaction returns a handle that stages adds/removes until
// Commit, at which point they become visible atomically (spec.md
// §4.B). If two transactions are active, the second to commit observes
// the first's effects, consistent with the single-writer concurrency
// model of spec.md §5.
func (s *IndexedStore) BeginTransaction() Transaction {
	return newTransaction(s)
}
