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

package analyzer

import (
	"sort"

	"github.com/kitelev/exocortex-triplestore/rdf"
	"github.com/kitelev/exocortex-triplestore/rdf/parse"
	"github.com/kitelev/exocortex-triplestore/rdf/plan"
	"github.com/kitelev/exocortex-triplestore/store"
)

// ReorderBgps rewrites every Bgp in n so its patterns run most- to
// least-selective, estimated first by how many term positions are
// bound and whether a bound term is an IRI or a literal (spec.md §4.F:
// "bound IRI ≫ bound literal ≫ variable"), then by an actual match
// count from s for patterns that tie. Reordering a Bgp's internal
// pattern list never changes its result set, only the order in which
// rowexec discovers it.
func ReorderBgps(n plan.Node, s store.Store) (plan.Node, error) {
	return transformUp(n, func(cur plan.Node) (plan.Node, error) {
		b, ok := cur.(*plan.Bgp)
		if !ok || len(b.Patterns) < 2 {
			return cur, nil
		}
		return &plan.Bgp{Patterns: orderPatterns(b.Patterns, s)}, nil
	})
}

func orderPatterns(patterns []parse.TriplePattern, s store.Store) []parse.TriplePattern {
	ordered := make([]parse.TriplePattern, len(patterns))
	copy(ordered, patterns)

	weight := make([]int, len(ordered))
	count := make([]int, len(ordered))
	for i, p := range ordered {
		weight[i] = selectivityWeight(p)
		count[i] = matchCount(p, s)
	}

	// Sort a permutation of indices so weight/count stay aligned with
	// the patterns they were computed for.
	perm := make([]int, len(ordered))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		i, j := perm[a], perm[b]
		if weight[i] != weight[j] {
			return weight[i] > weight[j] // more bound/more selective first
		}
		return count[i] < count[j] // fewer matches first
	})
	for k, i := range perm {
		ordered[k] = patterns[i]
	}
	return ordered
}

// selectivityWeight scores a pattern by its bound positions: an IRI is
// worth more than a literal, which is worth more than leaving the
// position a variable.
func selectivityWeight(p parse.TriplePattern) int {
	w := termWeight(p.Subject) + termWeight(p.Object)
	if pp, ok := p.Predicate.(parse.PredicatePath); ok {
		w += termWeight(pp.Term)
	}
	return w
}

func termWeight(t parse.Term) int {
	switch t.Kind {
	case parse.TermIRI:
		return 2
	case parse.TermLiteral:
		return 1
	default: // TermVar
		return 0
	}
}

// matchCount asks the store how many triples a pattern's bound
// positions actually match, the "informed by store index counts" part
// of spec.md §4.F. Patterns with no bound position at all are never
// queried against the store (that would just be Count()); they sort
// last by weight regardless.
func matchCount(p parse.TriplePattern, s store.Store) int {
	pp, ok := p.Predicate.(parse.PredicatePath)
	if !ok {
		return s.Count()
	}
	subj := boundTerm(p.Subject)
	pred := boundTerm(pp.Term)
	obj := boundTerm(p.Object)
	if subj == nil && pred == nil && obj == nil {
		return s.Count()
	}
	return len(s.Match(subj, pred, obj))
}

func boundTerm(t parse.Term) *rdf.Term {
	if t.Kind == parse.TermVar {
		return nil
	}
	v := t.Value
	return &v
}
