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

package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kitelev/exocortex-triplestore/rdf/parse"
)

func translate(t *testing.T, query string) Node {
	t.Helper()
	q, err := parse.Parse(query)
	require.NoError(t, err)
	node, err := Translate(q)
	require.NoError(t, err)
	return node
}

func TestTranslateAdjacentTriplesFormOneBgp(t *testing.T) {
	require := require.New(t)
	node := translate(t, `SELECT ?s WHERE { ?s <http://example.org/p> ?o . ?o <http://example.org/q> ?r }`)
	proj, ok := node.(*Project)
	require.True(ok)
	bgp, ok := proj.Child.(*Bgp)
	require.True(ok, "expected adjacent plain triples to merge into one Bgp, got %T", proj.Child)
	require.Len(bgp.Patterns, 2)
}

func TestTranslatePathPatternBecomesPathNode(t *testing.T) {
	require := require.New(t)
	node := translate(t, `SELECT ?s WHERE { ?s <http://example.org/sub>* <http://example.org/C> }`)
	proj := node.(*Project)
	_, ok := proj.Child.(*Path)
	require.True(ok, "expected a lone path-predicate triple to become a Path node, got %T", proj.Child)
}

func TestTranslateMixedBgpAndPathJoinInSourceOrder(t *testing.T) {
	require := require.New(t)
	node := translate(t, `SELECT ?s WHERE { ?s <http://example.org/p> ?o . ?o <http://example.org/sub>* ?c }`)
	proj := node.(*Project)
	join, ok := proj.Child.(*Join)
	require.True(ok, "expected a Join of the leading Bgp and the trailing Path, got %T", proj.Child)
	_, ok = join.Left.(*Bgp)
	require.True(ok)
	_, ok = join.Right.(*Path)
	require.True(ok)
}

func TestTranslateOptionalBecomesLeftJoin(t *testing.T) {
	require := require.New(t)
	node := translate(t, `SELECT ?s ?o WHERE { ?s <http://example.org/p> ?m . OPTIONAL { ?m <http://example.org/q> ?o } }`)
	proj := node.(*Project)
	lj, ok := proj.Child.(*LeftJoin)
	require.True(ok, "expected OPTIONAL to compile to LeftJoin, got %T", proj.Child)
	_, ok = lj.Left.(*Bgp)
	require.True(ok)
	_, ok = lj.Right.(*Bgp)
	require.True(ok)
}

func TestTranslateUnion(t *testing.T) {
	require := require.New(t)
	node := translate(t, `SELECT ?s WHERE { { ?s <http://example.org/p> ?o } UNION { ?s <http://example.org/q> ?o } }`)
	proj := node.(*Project)
	_, ok := proj.Child.(*Union)
	require.True(ok, "expected UNION to compile to Union, got %T", proj.Child)
}

func TestTranslateFilterWrapsPattern(t *testing.T) {
	require := require.New(t)
	node := translate(t, `SELECT ?s WHERE { ?s <http://example.org/age> ?age . FILTER(?age > 18) }`)
	proj := node.(*Project)
	f, ok := proj.Child.(*Filter)
	require.True(ok, "expected FILTER to wrap the pattern in Filter, got %T", proj.Child)
	_, ok = f.Child.(*Bgp)
	require.True(ok)
}

func TestTranslateBindBecomesExtend(t *testing.T) {
	require := require.New(t)
	node := translate(t, `SELECT ?n WHERE { ?s <http://example.org/name> ?raw . BIND(UCASE(?raw) AS ?n) }`)
	proj := node.(*Project)
	ext, ok := proj.Child.(*Extend)
	require.True(ok, "expected BIND to compile to Extend, got %T", proj.Child)
	require.Equal("n", ext.Var)
}

func TestTranslateModifiersWrapInCorrectOrder(t *testing.T) {
	require := require.New(t)
	node := translate(t, `SELECT DISTINCT ?s WHERE { ?s <http://example.org/p> ?o } ORDER BY ?s LIMIT 10 OFFSET 5`)
	slice, ok := node.(*Slice)
	require.True(ok, "outermost node should be Slice, got %T", node)
	require.Equal(5, slice.Offset)
	require.Equal(10, slice.Limit)

	dist, ok := slice.Child.(*Distinct)
	require.True(ok, "Slice should wrap Distinct, got %T", slice.Child)

	proj, ok := dist.Child.(*Project)
	require.True(ok, "Distinct should wrap Project, got %T", dist.Child)

	_, ok = proj.Child.(*OrderBy)
	require.True(ok, "Project should wrap OrderBy, got %T", proj.Child)
}

func TestTranslateSelectStarSkipsProject(t *testing.T) {
	require := require.New(t)
	node := translate(t, `SELECT * WHERE { ?s <http://example.org/p> ?o }`)
	_, ok := node.(*Bgp)
	require.True(ok, "SELECT * should not introduce a Project node, got %T", node)
}

func TestTranslateEmptyGroupIsUnitBgp(t *testing.T) {
	require := require.New(t)
	node := translate(t, `ASK { }`)
	bgp, ok := node.(*Bgp)
	require.True(ok)
	require.Empty(bgp.Patterns)
}
