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

// Package analyzer rewrites an algebra tree built by rdf/plan into an
// equivalent tree that is cheaper to evaluate (spec.md §4.F). Every
// rule here is order-only: it never changes which solutions a query
// produces, only the sequence in which the executor finds them.
package analyzer

import (
	"github.com/kitelev/exocortex-triplestore/rdf/parse"
	"github.com/kitelev/exocortex-triplestore/rdf/plan"
)

// nodeVars returns the set of variable names a subtree may bind. It is
// deliberately conservative where exactness is hard to establish
// (e.g. it reports a Project's child vars rather than just its own
// Vars): pushdown only needs a superset to stay sound.
func nodeVars(n plan.Node) map[string]bool {
	vars := map[string]bool{}
	switch t := n.(type) {
	case *plan.Bgp:
		for _, p := range t.Patterns {
			addTermVar(vars, p.Subject)
			addTermVar(vars, p.Object)
			if pp, ok := p.Predicate.(parse.PredicatePath); ok {
				addTermVar(vars, pp.Term)
			}
		}
	case *plan.Path:
		addTermVar(vars, t.Subject)
		addTermVar(vars, t.Object)
		for v := range pathVars(t.PathExpr) {
			vars[v] = true
		}
	case *plan.Join:
		mergeInto(vars, nodeVars(t.Left))
		mergeInto(vars, nodeVars(t.Right))
	case *plan.LeftJoin:
		mergeInto(vars, nodeVars(t.Left))
		mergeInto(vars, nodeVars(t.Right))
	case *plan.Union:
		mergeInto(vars, nodeVars(t.Left))
		mergeInto(vars, nodeVars(t.Right))
	case *plan.Filter:
		mergeInto(vars, nodeVars(t.Child))
	case *plan.Extend:
		mergeInto(vars, nodeVars(t.Child))
		vars[t.Var] = true
	case *plan.Project:
		mergeInto(vars, nodeVars(t.Child))
	case *plan.Distinct:
		mergeInto(vars, nodeVars(t.Child))
	case *plan.OrderBy:
		mergeInto(vars, nodeVars(t.Child))
	case *plan.Slice:
		mergeInto(vars, nodeVars(t.Child))
	}
	return vars
}

func addTermVar(set map[string]bool, t parse.Term) {
	if t.Kind == parse.TermVar {
		set[t.Var] = true
	}
}

func mergeInto(dst, src map[string]bool) {
	for v := range src {
		dst[v] = true
	}
}

func pathVars(p parse.Path) map[string]bool {
	vars := map[string]bool{}
	var walk func(p parse.Path)
	walk = func(p parse.Path) {
		switch t := p.(type) {
		case parse.PredicatePath:
			addTermVar(vars, t.Term)
		case parse.InversePath:
			walk(t.Inner)
		case parse.SequencePath:
			walk(t.Left)
			walk(t.Right)
		case parse.AlternativePath:
			walk(t.Left)
			walk(t.Right)
		case parse.ZeroOrOnePath:
			walk(t.Inner)
		case parse.OneOrMorePath:
			walk(t.Inner)
		case parse.ZeroOrMorePath:
			walk(t.Inner)
		case parse.GroupPath:
			walk(t.Inner)
		}
	}
	walk(p)
	return vars
}

// exprVars returns the variables referenced by a FILTER/BIND
// expression, including those an EXISTS/NOT EXISTS subpattern would
// need bound from the enclosing scope to be evaluated correlated.
func exprVars(e parse.Expr) map[string]bool {
	vars := map[string]bool{}
	var walk func(e parse.Expr)
	walk = func(e parse.Expr) {
		switch t := e.(type) {
		case parse.VarExpr:
			vars[t.Name] = true
		case parse.UnaryExpr:
			walk(t.Expr)
		case parse.BinaryExpr:
			walk(t.Left)
			walk(t.Right)
		case parse.CallExpr:
			for _, a := range t.Args {
				walk(a)
			}
		case parse.ExistsExpr:
			mergeInto(vars, groupVars(t.Inner))
		}
	}
	walk(e)
	return vars
}

// groupVars returns the variables a parsed (pre-translation) group
// graph pattern references, used for EXISTS/NOT EXISTS subpatterns
// that have no algebra node of their own yet.
func groupVars(g *parse.GroupPattern) map[string]bool {
	vars := map[string]bool{}
	if g == nil {
		return vars
	}
	for _, el := range g.Elements {
		switch e := el.(type) {
		case parse.TriplePattern:
			addTermVar(vars, e.Subject)
			addTermVar(vars, e.Object)
			mergeInto(vars, pathVars(e.Predicate))
		case *parse.OptionalPattern:
			mergeInto(vars, groupVars(e.Inner))
		case *parse.UnionPattern:
			mergeInto(vars, groupVars(e.Left))
			mergeInto(vars, groupVars(e.Right))
		case *parse.FilterPattern:
			mergeInto(vars, exprVars(e.Expr))
		case *parse.BindPattern:
			vars[e.Var] = true
		case *parse.GroupPattern:
			mergeInto(vars, groupVars(e))
		}
	}
	return vars
}

func subsetOf(a, b map[string]bool) bool {
	for v := range a {
		if !b[v] {
			return false
		}
	}
	return true
}
