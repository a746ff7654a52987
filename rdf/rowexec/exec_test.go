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

package rowexec

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kitelev/exocortex-triplestore/rdf"
	"github.com/kitelev/exocortex-triplestore/rdf/parse"
	"github.com/kitelev/exocortex-triplestore/rdf/plan"
	"github.com/kitelev/exocortex-triplestore/store"
)

func run(t *testing.T, s store.Store, query string) []rdf.SolutionMapping {
	t.Helper()
	require := require.New(t)
	q, err := parse.Parse(query)
	require.NoError(err)
	node, err := plan.Translate(q)
	require.NoError(err)
	iter, err := Execute(rdf.NewEmptyContext(), node, s)
	require.NoError(err)
	rows, err := rdf.DrainMappings(rdf.NewEmptyContext(), iter)
	require.NoError(err)
	return rows
}

func values(t *testing.T, rows []rdf.SolutionMapping, v string) []string {
	t.Helper()
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		term, ok := r.Get(v)
		require.True(t, ok)
		out = append(out, term.Value())
	}
	sort.Strings(out)
	return out
}

func knowledgeBase(t *testing.T) store.Store {
	t.Helper()
	require := require.New(t)
	s := store.New()
	add := func(sub, pred, obj rdf.Term) {
		require.NoError(s.Add(rdf.NewTriple(sub, pred, obj)))
	}
	ex := func(local string) rdf.Term { return rdf.NewIRI("ex:" + local) }

	add(ex("alice"), ex("knows"), ex("bob"))
	add(ex("bob"), ex("knows"), ex("carol"))
	add(ex("carol"), ex("knows"), ex("dave"))
	add(ex("alice"), ex("age"), rdf.NewTypedLiteral("30", rdf.XSDInteger))
	add(ex("bob"), ex("age"), rdf.NewTypedLiteral("25", rdf.XSDInteger))

	add(ex("Mammal"), ex("sub"), ex("Animal"))
	add(ex("Dog"), ex("sub"), ex("Mammal"))
	add(ex("Poodle"), ex("sub"), ex("Dog"))
	add(ex("loop"), ex("self"), ex("loop"))

	add(ex("note1"), ex("title"), rdf.NewLiteral("Draft one"))
	add(ex("note2"), ex("title"), rdf.NewLiteral("Draft two"))
	add(ex("note1"), ex("deprecated"), rdf.NewTypedLiteral("true", rdf.XSDBoolean))

	return s
}

func TestDirectTripleMatch(t *testing.T) {
	s := knowledgeBase(t)
	rows := run(t, s, `SELECT ?o WHERE { <ex:alice> <ex:knows> ?o }`)
	require.Equal(t, []string{"bob"}, values(t, rows, "o"))
}

func TestTransitiveSuperclassViaStarPath(t *testing.T) {
	s := knowledgeBase(t)
	rows := run(t, s, `SELECT ?super WHERE { <ex:Poodle> <ex:sub>* ?super }`)
	require.ElementsMatch(t, []string{"Poodle", "Dog", "Mammal", "Animal"}, values(t, rows, "super"))
}

func TestSelfLoopViaPlusPath(t *testing.T) {
	s := knowledgeBase(t)
	rows := run(t, s, `SELECT ?x WHERE { <ex:loop> <ex:self>+ ?x }`)
	require.Equal(t, []string{"loop"}, values(t, rows, "x"))
}

func TestInversePath(t *testing.T) {
	s := knowledgeBase(t)
	rows := run(t, s, `SELECT ?s WHERE { <ex:bob> ^<ex:knows> ?s }`)
	require.Equal(t, []string{"alice"}, values(t, rows, "s"))
}

func TestOptionalWithMissingSide(t *testing.T) {
	s := knowledgeBase(t)
	rows := run(t, s, `
		SELECT ?p ?age WHERE {
			?p <ex:knows> ?next .
			OPTIONAL { ?next <ex:age> ?age }
		}`)
	// alice->bob (bob has an age) and bob->carol (carol has none) and
	// carol->dave (dave has none): three rows total, two unbound ages.
	require.Len(t, rows, 3)
	var boundAges, unboundAges int
	for _, r := range rows {
		if _, ok := r.Get("age"); ok {
			boundAges++
		} else {
			unboundAges++
		}
	}
	require.Equal(t, 1, boundAges)
	require.Equal(t, 2, unboundAges)
}

func TestNotExistsFiltersDeprecatedNotes(t *testing.T) {
	s := knowledgeBase(t)
	rows := run(t, s, `
		SELECT ?n WHERE {
			?n <ex:title> ?t .
			FILTER NOT EXISTS { ?n <ex:deprecated> true }
		}`)
	require.Equal(t, []string{"note2"}, values(t, rows, "n"))
}

func TestFilterComparison(t *testing.T) {
	s := knowledgeBase(t)
	rows := run(t, s, `SELECT ?p WHERE { ?p <ex:age> ?age . FILTER(?age > 26) }`)
	require.Equal(t, []string{"alice"}, values(t, rows, "p"))
}

func TestBindComputesNewVariable(t *testing.T) {
	s := knowledgeBase(t)
	rows := run(t, s, `SELECT ?p ?isAdult WHERE { ?p <ex:age> ?age . BIND(?age > 18 AS ?isAdult) }`)
	require.Len(t, rows, 2)
	for _, r := range rows {
		v, ok := r.Get("isAdult")
		require.True(t, ok)
		require.Equal(t, "true", v.Value())
	}
}

func TestUnionCombinesBothBranches(t *testing.T) {
	s := knowledgeBase(t)
	rows := run(t, s, `
		SELECT ?x WHERE {
			{ ?x <ex:sub> <ex:Animal> } UNION { ?x <ex:sub> <ex:Mammal> }
		}`)
	require.ElementsMatch(t, []string{"Mammal", "Dog"}, values(t, rows, "x"))
}

func TestDistinctDeduplicates(t *testing.T) {
	s := knowledgeBase(t)
	rows := run(t, s, `SELECT DISTINCT ?p WHERE { ?p <ex:knows> ?x }`)
	require.ElementsMatch(t, []string{"alice", "bob", "carol"}, values(t, rows, "p"))
}

func TestOrderByNumericAscending(t *testing.T) {
	s := knowledgeBase(t)
	rows := run(t, s, `SELECT ?p ?age WHERE { ?p <ex:age> ?age } ORDER BY ?age`)
	require.Len(t, rows, 2)
	first, _ := rows[0].Get("age")
	require.Equal(t, "25", first.Value())
}

func TestSliceLimitAndOffset(t *testing.T) {
	s := knowledgeBase(t)
	rows := run(t, s, `SELECT ?x WHERE { ?x <ex:sub> ?y } ORDER BY ?x LIMIT 1 OFFSET 1`)
	require.Len(t, rows, 1)
}

func TestAskEquivalentEmptyVsNonEmpty(t *testing.T) {
	s := knowledgeBase(t)
	present := run(t, s, `SELECT ?x WHERE { <ex:alice> <ex:knows> <ex:bob> }`)
	require.Len(t, present, 1)
	absent := run(t, s, `SELECT ?x WHERE { <ex:alice> <ex:knows> <ex:nobody> }`)
	require.Len(t, absent, 0)
}
