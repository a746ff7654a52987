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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kitelev/exocortex-triplestore/rdf"
	"github.com/kitelev/exocortex-triplestore/rdf/parse"
	"github.com/kitelev/exocortex-triplestore/rdf/plan"
	"github.com/kitelev/exocortex-triplestore/store"
)

func iriTerm(v string) parse.Term { return parse.ValueTerm(rdf.NewIRI(v)) }

func TestReorderBgpsPutsMostBoundPatternFirst(t *testing.T) {
	require := require.New(t)
	s := store.New()
	require.NoError(s.Add(rdf.NewTriple(rdf.NewIRI("ex:a"), rdf.NewIRI("ex:type"), rdf.NewIRI("ex:Class"))))

	// First pattern is all-variable (weight 0); second fully bound
	// except the subject (weight 4, IRI predicate + IRI object).
	b := &plan.Bgp{Patterns: []parse.TriplePattern{
		{Subject: parse.VarTerm("s"), Predicate: parse.PredicatePath{Term: parse.VarTerm("p")}, Object: parse.VarTerm("o")},
		{Subject: parse.VarTerm("s"), Predicate: parse.PredicatePath{Term: iriTerm("ex:type")}, Object: iriTerm("ex:Class")},
	}}

	out, err := ReorderBgps(b, s)
	require.NoError(err)
	reordered := out.(*plan.Bgp)
	require.Len(reordered.Patterns, 2)

	first := reordered.Patterns[0]
	pp, ok := first.Predicate.(parse.PredicatePath)
	require.True(ok)
	require.Equal("ex:type", pp.Term.Value.Value())
}

func TestReorderBgpsBreaksTiesByMatchCount(t *testing.T) {
	require := require.New(t)
	s := store.New()
	// ex:p has one match, ex:q has three: both patterns bind only the
	// predicate (equal weight), so match count should decide order.
	require.NoError(s.Add(rdf.NewTriple(rdf.NewIRI("ex:s1"), rdf.NewIRI("ex:p"), rdf.NewIRI("ex:o1"))))
	require.NoError(s.Add(rdf.NewTriple(rdf.NewIRI("ex:s2"), rdf.NewIRI("ex:q"), rdf.NewIRI("ex:o2"))))
	require.NoError(s.Add(rdf.NewTriple(rdf.NewIRI("ex:s3"), rdf.NewIRI("ex:q"), rdf.NewIRI("ex:o3"))))
	require.NoError(s.Add(rdf.NewTriple(rdf.NewIRI("ex:s4"), rdf.NewIRI("ex:q"), rdf.NewIRI("ex:o4"))))

	b := &plan.Bgp{Patterns: []parse.TriplePattern{
		{Subject: parse.VarTerm("s"), Predicate: parse.PredicatePath{Term: iriTerm("ex:q")}, Object: parse.VarTerm("o")},
		{Subject: parse.VarTerm("s"), Predicate: parse.PredicatePath{Term: iriTerm("ex:p")}, Object: parse.VarTerm("o")},
	}}

	out, err := ReorderBgps(b, s)
	require.NoError(err)
	reordered := out.(*plan.Bgp)
	first := reordered.Patterns[0].Predicate.(parse.PredicatePath)
	require.Equal("ex:p", first.Term.Value.Value(), "the less frequent predicate should be matched first")
}

func TestPushdownFiltersIntoLeftSideOfJoin(t *testing.T) {
	require := require.New(t)
	left := &plan.Bgp{Patterns: []parse.TriplePattern{
		{Subject: parse.VarTerm("s"), Predicate: parse.PredicatePath{Term: iriTerm("ex:age")}, Object: parse.VarTerm("age")},
	}}
	right := &plan.Bgp{Patterns: []parse.TriplePattern{
		{Subject: parse.VarTerm("s"), Predicate: parse.PredicatePath{Term: iriTerm("ex:name")}, Object: parse.VarTerm("name")},
	}}
	join := plan.NewJoin(left, right)
	expr := parse.BinaryExpr{Op: ">", Left: parse.VarExpr{Name: "age"}, Right: parse.LiteralExpr{Value: rdf.NewTypedLiteral("18", rdf.XSDInteger)}}
	filter := plan.NewFilter(expr, join)

	out, err := PushdownFilters(filter)
	require.NoError(err)
	j, ok := out.(*plan.Join)
	require.True(ok, "filter should have been pushed below the join, leaving Join on top, got %T", out)
	_, ok = j.Left.(*plan.Filter)
	require.True(ok, "filter referencing only ?age should land on the left (age) side")
	_, ok = j.Right.(*plan.Bgp)
	require.True(ok, "right side should be untouched")
}

func TestPushdownFiltersLeavesCrossJoinFilterInPlace(t *testing.T) {
	require := require.New(t)
	left := &plan.Bgp{Patterns: []parse.TriplePattern{
		{Subject: parse.VarTerm("s"), Predicate: parse.PredicatePath{Term: iriTerm("ex:age")}, Object: parse.VarTerm("age")},
	}}
	right := &plan.Bgp{Patterns: []parse.TriplePattern{
		{Subject: parse.VarTerm("s"), Predicate: parse.PredicatePath{Term: iriTerm("ex:limit")}, Object: parse.VarTerm("limit")},
	}}
	join := plan.NewJoin(left, right)
	expr := parse.BinaryExpr{Op: "<", Left: parse.VarExpr{Name: "age"}, Right: parse.VarExpr{Name: "limit"}}
	filter := plan.NewFilter(expr, join)

	out, err := PushdownFilters(filter)
	require.NoError(err)
	_, ok := out.(*plan.Filter)
	require.True(ok, "a filter referencing variables from both sides of a join must stay above it")
}

func TestOptimizeKeepsJoinAtRoot(t *testing.T) {
	require := require.New(t)
	s := store.New()
	require.NoError(s.Add(rdf.NewTriple(rdf.NewIRI("ex:a"), rdf.NewIRI("ex:p"), rdf.NewIRI("ex:b"))))

	left := &plan.Bgp{Patterns: []parse.TriplePattern{
		{Subject: parse.VarTerm("s"), Predicate: parse.PredicatePath{Term: parse.VarTerm("p")}, Object: parse.VarTerm("o")},
	}}
	right := &plan.Bgp{Patterns: []parse.TriplePattern{
		{Subject: parse.VarTerm("s"), Predicate: parse.PredicatePath{Term: iriTerm("ex:p")}, Object: parse.VarTerm("o")},
	}}
	node := plan.NewJoin(left, right)

	out, err := Optimize(node, s)
	require.NoError(err)
	require.NotNil(out)
	_, ok := out.(*plan.Join)
	require.True(ok)
}
