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

// PushdownFilters moves a Filter below a Join when every variable the
// filter references is already bound on one side of the join, so the
// executor discards non-matching mappings before paying for the join
// rather than after (spec.md §4.F). A filter that references
// variables from both sides stays where it is: pushing it down would
// make it evaluate against mappings that don't yet have everything it
// needs, which is unsound, not just slower.
func PushdownFilters(n plan.Node) (plan.Node, error) {
	return transformUp(n, func(cur plan.Node) (plan.Node, error) {
		f, ok := cur.(*plan.Filter)
		if !ok {
			return cur, nil
		}
		join, ok := f.Child.(*plan.Join)
		if !ok {
			return cur, nil
		}

		needed := exprVars(f.Expr)
		switch {
		case subsetOf(needed, nodeVars(join.Left)):
			return plan.NewJoin(plan.NewFilter(f.Expr, join.Left), join.Right), nil
		case subsetOf(needed, nodeVars(join.Right)):
			return plan.NewJoin(join.Left, plan.NewFilter(f.Expr, join.Right)), nil
		default:
			return cur, nil
		}
	})
}
