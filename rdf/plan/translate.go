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

import "github.com/kitelev/exocortex-triplestore/rdf/parse"

// Translate compiles a parsed query into an algebra tree, applying the
// fixed rewriting rules of spec.md §4.E. It never inspects the store;
// analyzer.Optimize and rowexec.Execute do the rest.
func Translate(q *parse.Query) (Node, error) {
	var node Node
	if q.Where != nil {
		var err error
		node, err = TranslateGroup(q.Where)
		if err != nil {
			return nil, err
		}
	} else {
		node = &Bgp{}
	}

	if len(q.OrderBy) > 0 {
		node = NewOrderBy(q.OrderBy, node)
	}
	if q.Form == parse.FormSelect && q.Select != nil {
		if !q.Select.Star {
			node = NewProject(q.Select.Vars, node)
		}
		if q.Select.Distinct {
			node = NewDistinct(node)
		}
	}
	if q.Limit >= 0 || q.Offset > 0 {
		node = NewSlice(q.Offset, q.Limit, node)
	}
	return node, nil
}

// TranslateGroup compiles one `{ ... }` group graph pattern. It groups
// textually-adjacent plain triple patterns into a single Bgp, turns
// each path-predicate triple into its own Path node, and folds both
// into a left-deep Join chain in source order; OPTIONAL, UNION,
// FILTER, and BIND are then layered on in the order they appear.
func TranslateGroup(g *parse.GroupPattern) (Node, error) {
	var node Node
	var pendingBgp []parse.TriplePattern

	flushBgp := func() {
		if len(pendingBgp) == 0 {
			return
		}
		bgp := &Bgp{Patterns: pendingBgp}
		pendingBgp = nil
		if node == nil {
			node = bgp
		} else {
			node = NewJoin(node, bgp)
		}
	}
	combine := func(n Node) {
		if node == nil {
			node = n
		} else {
			node = NewJoin(node, n)
		}
	}

	for _, el := range g.Elements {
		switch e := el.(type) {
		case parse.TriplePattern:
			if _, ok := e.Predicate.(parse.PredicatePath); ok {
				pendingBgp = append(pendingBgp, e)
				continue
			}
			flushBgp()
			combine(&Path{Subject: e.Subject, PathExpr: e.Predicate, Object: e.Object})

		case *parse.OptionalPattern:
			flushBgp()
			inner, err := TranslateGroup(e.Inner)
			if err != nil {
				return nil, err
			}
			if node == nil {
				node = inner
			} else {
				node = NewLeftJoin(node, inner, nil)
			}

		case *parse.UnionPattern:
			flushBgp()
			left, err := TranslateGroup(e.Left)
			if err != nil {
				return nil, err
			}
			right, err := TranslateGroup(e.Right)
			if err != nil {
				return nil, err
			}
			combine(NewUnion(left, right))

		case *parse.FilterPattern:
			flushBgp()
			if node == nil {
				node = &Bgp{}
			}
			node = NewFilter(e.Expr, node)

		case *parse.BindPattern:
			flushBgp()
			if node == nil {
				node = &Bgp{}
			}
			node = NewExtend(e.Var, e.Expr, node)

		case *parse.GroupPattern:
			flushBgp()
			inner, err := TranslateGroup(e)
			if err != nil {
				return nil, err
			}
			combine(inner)
		}
	}
	flushBgp()

	if node == nil {
		// An empty group `{ }` matches exactly the unit mapping.
		node = &Bgp{}
	}
	return node, nil
}
