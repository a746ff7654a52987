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

import "github.com/kitelev/exocortex-triplestore/rdf/plan"

// transformUp rebuilds n with f applied to every node, children
// before parents, so a rule only ever sees already-rewritten operands.
func transformUp(n plan.Node, f func(plan.Node) (plan.Node, error)) (plan.Node, error) {
	rebuilt, err := mapChildren(n, func(c plan.Node) (plan.Node, error) {
		return transformUp(c, f)
	})
	if err != nil {
		return nil, err
	}
	return f(rebuilt)
}

// mapChildren returns a copy of n with each direct child replaced by
// f(child). Leaf nodes (Bgp, Path) are returned unchanged.
func mapChildren(n plan.Node, f func(plan.Node) (plan.Node, error)) (plan.Node, error) {
	switch t := n.(type) {
	case *plan.Bgp, *plan.Path:
		return n, nil
	case *plan.Join:
		l, err := f(t.Left)
		if err != nil {
			return nil, err
		}
		r, err := f(t.Right)
		if err != nil {
			return nil, err
		}
		return plan.NewJoin(l, r), nil
	case *plan.LeftJoin:
		l, err := f(t.Left)
		if err != nil {
			return nil, err
		}
		r, err := f(t.Right)
		if err != nil {
			return nil, err
		}
		return plan.NewLeftJoin(l, r, t.Filter), nil
	case *plan.Union:
		l, err := f(t.Left)
		if err != nil {
			return nil, err
		}
		r, err := f(t.Right)
		if err != nil {
			return nil, err
		}
		return plan.NewUnion(l, r), nil
	case *plan.Filter:
		c, err := f(t.Child)
		if err != nil {
			return nil, err
		}
		return plan.NewFilter(t.Expr, c), nil
	case *plan.Extend:
		c, err := f(t.Child)
		if err != nil {
			return nil, err
		}
		return plan.NewExtend(t.Var, t.Expr, c), nil
	case *plan.Project:
		c, err := f(t.Child)
		if err != nil {
			return nil, err
		}
		return plan.NewProject(t.Vars, c), nil
	case *plan.Distinct:
		c, err := f(t.Child)
		if err != nil {
			return nil, err
		}
		return plan.NewDistinct(c), nil
	case *plan.OrderBy:
		c, err := f(t.Child)
		if err != nil {
			return nil, err
		}
		return plan.NewOrderBy(t.Keys, c), nil
	case *plan.Slice:
		c, err := f(t.Child)
		if err != nil {
			return nil, err
		}
		return plan.NewSlice(t.Offset, t.Limit, c), nil
	default:
		return n, nil
	}
}
