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
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/kitelev/exocortex-triplestore/rdf"
	"github.com/kitelev/exocortex-triplestore/rdf/parse"
	"github.com/kitelev/exocortex-triplestore/rdf/plan"
	"github.com/kitelev/exocortex-triplestore/store"
)

// Execute compiles an analyzer-optimized algebra tree into the
// rdf.MappingIter it describes (spec.md §4.G). Operators pull from
// their children lazily, except that OrderBy materializes its input,
// Join and LeftJoin materialize their right side, and Path computes all
// its rows up front. Distinct streams, remembering the keys it has seen.
func Execute(ctx *rdf.Context, n plan.Node, s store.Store) (rdf.MappingIter, error) {
	switch t := n.(type) {
	case *plan.Bgp:
		return newBgpIter(t, s), nil

	case *plan.Path:
		rows, err := computePathRows(t, s)
		if err != nil {
			return nil, err
		}
		return rdf.NewSliceMappingIter(rows), nil

	case *plan.Join:
		return newJoinIter(ctx, t, s)

	case *plan.LeftJoin:
		return newLeftJoinIter(ctx, t, s)

	case *plan.Union:
		return newUnionIter(ctx, t, s)

	case *plan.Filter:
		return newFilterIter(ctx, t, s)

	case *plan.Extend:
		return newExtendIter(ctx, t, s)

	case *plan.Project:
		return newProjectIter(ctx, t, s)

	case *plan.Distinct:
		return newDistinctIter(ctx, t, s)

	case *plan.OrderBy:
		return newOrderByIter(ctx, t, s)

	case *plan.Slice:
		return newSliceIter(ctx, t, s)
	}
	return nil, fmt.Errorf("rowexec: unsupported plan node %T", n)
}

// --- Bgp: backtracking nested-loop join over pattern positions ---

type bgpFrame struct {
	matches []rdf.Triple
	pos     int
	mapping rdf.SolutionMapping
}

type bgpIter struct {
	patterns  []parse.TriplePattern
	s         store.Store
	stack     []bgpFrame
	started   bool
	emptyDone bool
}

func newBgpIter(b *plan.Bgp, s store.Store) *bgpIter {
	return &bgpIter{patterns: b.Patterns, s: s}
}

func (it *bgpIter) Next(ctx *rdf.Context) (rdf.SolutionMapping, error) {
	if len(it.patterns) == 0 {
		if it.emptyDone {
			return rdf.SolutionMapping{}, io.EOF
		}
		it.emptyDone = true
		return rdf.NewSolutionMapping(), nil
	}

	if !it.started {
		it.started = true
		it.stack = []bgpFrame{{
			matches: matchPattern(it.patterns[0], rdf.NewSolutionMapping(), it.store()),
			mapping: rdf.NewSolutionMapping(),
		}}
	}

	for len(it.stack) > 0 {
		level := len(it.stack) - 1
		top := &it.stack[level]
		if top.pos >= len(top.matches) {
			it.stack = it.stack[:level]
			continue
		}
		triple := top.matches[top.pos]
		top.pos++

		extended, ok := extendMapping(top.mapping, it.patterns[level], triple)
		if !ok {
			continue
		}
		if level == len(it.patterns)-1 {
			return extended, nil
		}
		it.stack = append(it.stack, bgpFrame{
			matches: matchPattern(it.patterns[level+1], extended, it.store()),
			mapping: extended,
		})
	}
	return rdf.SolutionMapping{}, io.EOF
}

func (it *bgpIter) Close(ctx *rdf.Context) error { return nil }

// store returns the Store newBgpIter was built against.
func (it *bgpIter) store() store.Store { return it.s }

func matchPattern(p parse.TriplePattern, m rdf.SolutionMapping, s store.Store) []rdf.Triple {
	pp := p.Predicate.(parse.PredicatePath)
	return s.Match(resolveConstraint(p.Subject, m), resolveConstraint(pp.Term, m), resolveConstraint(p.Object, m))
}

func resolveConstraint(t parse.Term, m rdf.SolutionMapping) *rdf.Term {
	if t.Kind == parse.TermVar {
		if v, ok := m.Get(t.Var); ok {
			return &v
		}
		return nil
	}
	v := t.Value
	return &v
}

func extendMapping(base rdf.SolutionMapping, p parse.TriplePattern, tr rdf.Triple) (rdf.SolutionMapping, bool) {
	pp := p.Predicate.(parse.PredicatePath)
	out, ok := bindTerm(base, p.Subject, tr.Subject)
	if !ok {
		return rdf.SolutionMapping{}, false
	}
	out, ok = bindTerm(out, pp.Term, tr.Predicate)
	if !ok {
		return rdf.SolutionMapping{}, false
	}
	out, ok = bindTerm(out, p.Object, tr.Object)
	if !ok {
		return rdf.SolutionMapping{}, false
	}
	return out, true
}

// bindTerm binds t's variable (if it is one) to val, checking against
// any value it already carries — a repeated variable within one triple
// pattern (e.g. "?x ex:knows ?x") must see the same term on both ends.
func bindTerm(m rdf.SolutionMapping, t parse.Term, val rdf.Term) (rdf.SolutionMapping, bool) {
	if t.Kind != parse.TermVar {
		return m, true
	}
	if existing, ok := m.Get(t.Var); ok {
		return m, existing.Equal(val)
	}
	return m.Extend(t.Var, val), true
}

// --- Path: property-path evaluation for all four bound/unbound combos ---

func computePathRows(p *plan.Path, s store.Store) ([]rdf.SolutionMapping, error) {
	subjVar, subjConst := termRole(p.Subject)
	objVar, objConst := termRole(p.Object)
	depthBound := DefaultPathDepthBound

	switch {
	case subjConst && objConst:
		ends, err := walkPath(p.PathExpr, s, p.Subject.Value, true, depthBound)
		if err != nil {
			return nil, err
		}
		for _, e := range ends {
			if e.Equal(p.Object.Value) {
				return []rdf.SolutionMapping{rdf.NewSolutionMapping()}, nil
			}
		}
		return nil, nil

	case subjConst && !objConst:
		ends, err := walkPath(p.PathExpr, s, p.Subject.Value, true, depthBound)
		if err != nil {
			return nil, err
		}
		rows := make([]rdf.SolutionMapping, 0, len(ends))
		for _, e := range ends {
			rows = append(rows, rdf.NewSolutionMapping().Extend(objVar, e))
		}
		return rows, nil

	case !subjConst && objConst:
		starts, err := walkPath(p.PathExpr, s, p.Object.Value, false, depthBound)
		if err != nil {
			return nil, err
		}
		rows := make([]rdf.SolutionMapping, 0, len(starts))
		for _, st := range starts {
			rows = append(rows, rdf.NewSolutionMapping().Extend(subjVar, st))
		}
		return rows, nil

	default:
		if _, isStar := p.PathExpr.(parse.ZeroOrMorePath); isStar {
			// Both endpoints unbound: every node is trivially
			// reachable from itself, so enumerating the store would
			// just emit the reflexive pair for every node in it
			// (spec.md §4.H: "the implementation does not enumerate
			// the universe").
			return nil, nil
		}
		var rows []rdf.SolutionMapping
		for _, c := range allNodes(s) {
			ends, err := walkPath(p.PathExpr, s, c, true, depthBound)
			if err != nil {
				return nil, err
			}
			if subjVar == objVar {
				for _, e := range ends {
					if e.Equal(c) {
						rows = append(rows, rdf.NewSolutionMapping().Extend(subjVar, c))
						break
					}
				}
				continue
			}
			for _, e := range ends {
				rows = append(rows, rdf.NewSolutionMapping().Extend(subjVar, c).Extend(objVar, e))
			}
		}
		return rows, nil
	}
}

// termRole reports the variable name a parsed Term binds to (empty if
// it is already a constant) and whether it is a constant.
func termRole(t parse.Term) (varName string, isConst bool) {
	if t.Kind == parse.TermVar {
		return t.Var, false
	}
	return "", true
}

// --- Join: block nested-loop, right side fully materialized ---

type joinIter struct {
	left       rdf.MappingIter
	rightRows  []rdf.SolutionMapping
	curLeft    rdf.SolutionMapping
	haveLeft   bool
	rightPos   int
}

func newJoinIter(ctx *rdf.Context, j *plan.Join, s store.Store) (*joinIter, error) {
	left, err := Execute(ctx, j.Left, s)
	if err != nil {
		return nil, err
	}
	rightIter, err := Execute(ctx, j.Right, s)
	if err != nil {
		left.Close(ctx)
		return nil, err
	}
	// The right side is materialized up front so each left mapping can
	// be rescanned against it; a build-side hash keyed on the join's
	// shared variables would avoid the full scan per left row, but
	// would only pay off once stores grow past what a single Match
	// already narrows down, so it is left as the linear scan.
	rightRows, err := rdf.DrainMappings(ctx, rightIter)
	if err != nil {
		left.Close(ctx)
		return nil, err
	}
	return &joinIter{left: left, rightRows: rightRows}, nil
}

func (it *joinIter) Next(ctx *rdf.Context) (rdf.SolutionMapping, error) {
	for {
		if !it.haveLeft {
			m, err := it.left.Next(ctx)
			if err != nil {
				return rdf.SolutionMapping{}, err
			}
			it.curLeft = m
			it.haveLeft = true
			it.rightPos = 0
		}
		for it.rightPos < len(it.rightRows) {
			r := it.rightRows[it.rightPos]
			it.rightPos++
			if merged, ok := it.curLeft.Merge(r); ok {
				return merged, nil
			}
		}
		it.haveLeft = false
	}
}

func (it *joinIter) Close(ctx *rdf.Context) error { return it.left.Close(ctx) }

// --- LeftJoin: SPARQL OPTIONAL ---

type leftJoinIter struct {
	left       rdf.MappingIter
	rightRows  []rdf.SolutionMapping
	filter     parse.Expr
	s          store.Store
	curLeft    rdf.SolutionMapping
	haveLeft   bool
	rightPos   int
	matchedAny bool
}

func newLeftJoinIter(ctx *rdf.Context, j *plan.LeftJoin, s store.Store) (*leftJoinIter, error) {
	left, err := Execute(ctx, j.Left, s)
	if err != nil {
		return nil, err
	}
	rightIter, err := Execute(ctx, j.Right, s)
	if err != nil {
		left.Close(ctx)
		return nil, err
	}
	rightRows, err := rdf.DrainMappings(ctx, rightIter)
	if err != nil {
		left.Close(ctx)
		return nil, err
	}
	return &leftJoinIter{left: left, rightRows: rightRows, filter: j.Filter, s: s}, nil
}

func (it *leftJoinIter) Next(ctx *rdf.Context) (rdf.SolutionMapping, error) {
	for {
		if !it.haveLeft {
			m, err := it.left.Next(ctx)
			if err != nil {
				return rdf.SolutionMapping{}, err
			}
			it.curLeft = m
			it.haveLeft = true
			it.rightPos = 0
			it.matchedAny = false
		}
		matched := false
		for it.rightPos < len(it.rightRows) {
			r := it.rightRows[it.rightPos]
			it.rightPos++
			merged, ok := it.curLeft.Merge(r)
			if !ok {
				continue
			}
			if it.filter != nil {
				v, vok := evalExpr(ctx, it.filter, merged, it.s, DefaultPathDepthBound)
				if !effectiveBoolean(v, vok) {
					continue
				}
			}
			it.matchedAny = true
			matched = true
			return merged, nil
		}
		if !matched {
			wasMatched := it.matchedAny
			fallback := it.curLeft
			it.haveLeft = false
			if !wasMatched {
				return fallback, nil
			}
		}
	}
}

func (it *leftJoinIter) Close(ctx *rdf.Context) error { return it.left.Close(ctx) }

// --- Union: concatenation ---

type unionIter struct {
	left, right rdf.MappingIter
	leftDone    bool
}

func newUnionIter(ctx *rdf.Context, u *plan.Union, s store.Store) (*unionIter, error) {
	left, err := Execute(ctx, u.Left, s)
	if err != nil {
		return nil, err
	}
	right, err := Execute(ctx, u.Right, s)
	if err != nil {
		left.Close(ctx)
		return nil, err
	}
	return &unionIter{left: left, right: right}, nil
}

func (it *unionIter) Next(ctx *rdf.Context) (rdf.SolutionMapping, error) {
	if !it.leftDone {
		m, err := it.left.Next(ctx)
		if err == io.EOF {
			it.leftDone = true
			return it.right.Next(ctx)
		}
		return m, err
	}
	return it.right.Next(ctx)
}

func (it *unionIter) Close(ctx *rdf.Context) error {
	err1 := it.left.Close(ctx)
	err2 := it.right.Close(ctx)
	if err1 != nil {
		return err1
	}
	return err2
}

// --- Filter ---

type filterIter struct {
	child rdf.MappingIter
	expr  parse.Expr
	s     store.Store
}

func newFilterIter(ctx *rdf.Context, f *plan.Filter, s store.Store) (*filterIter, error) {
	child, err := Execute(ctx, f.Child, s)
	if err != nil {
		return nil, err
	}
	return &filterIter{child: child, expr: f.Expr, s: s}, nil
}

func (it *filterIter) Next(ctx *rdf.Context) (rdf.SolutionMapping, error) {
	for {
		m, err := it.child.Next(ctx)
		if err != nil {
			return rdf.SolutionMapping{}, err
		}
		v, ok := evalExpr(ctx, it.expr, m, it.s, DefaultPathDepthBound)
		if effectiveBoolean(v, ok) {
			return m, nil
		}
	}
}

func (it *filterIter) Close(ctx *rdf.Context) error { return it.child.Close(ctx) }

// --- Extend: BIND ---

type extendIter struct {
	child rdf.MappingIter
	v     string
	expr  parse.Expr
	s     store.Store
}

func newExtendIter(ctx *rdf.Context, e *plan.Extend, s store.Store) (*extendIter, error) {
	child, err := Execute(ctx, e.Child, s)
	if err != nil {
		return nil, err
	}
	return &extendIter{child: child, v: e.Var, expr: e.Expr, s: s}, nil
}

func (it *extendIter) Next(ctx *rdf.Context) (rdf.SolutionMapping, error) {
	m, err := it.child.Next(ctx)
	if err != nil {
		return rdf.SolutionMapping{}, err
	}
	v, ok := evalExpr(ctx, it.expr, m, it.s, DefaultPathDepthBound)
	if !ok {
		return m, nil
	}
	return m.Extend(it.v, v), nil
}

func (it *extendIter) Close(ctx *rdf.Context) error { return it.child.Close(ctx) }

// --- Project ---

type projectIter struct {
	child rdf.MappingIter
	vars  []string
}

func newProjectIter(ctx *rdf.Context, p *plan.Project, s store.Store) (*projectIter, error) {
	child, err := Execute(ctx, p.Child, s)
	if err != nil {
		return nil, err
	}
	return &projectIter{child: child, vars: p.Vars}, nil
}

func (it *projectIter) Next(ctx *rdf.Context) (rdf.SolutionMapping, error) {
	m, err := it.child.Next(ctx)
	if err != nil {
		return rdf.SolutionMapping{}, err
	}
	return m.Project(it.vars), nil
}

func (it *projectIter) Close(ctx *rdf.Context) error { return it.child.Close(ctx) }

// --- Distinct ---

type distinctIter struct {
	child rdf.MappingIter
	seen  map[string]bool
}

func newDistinctIter(ctx *rdf.Context, d *plan.Distinct, s store.Store) (*distinctIter, error) {
	child, err := Execute(ctx, d.Child, s)
	if err != nil {
		return nil, err
	}
	return &distinctIter{child: child, seen: map[string]bool{}}, nil
}

func (it *distinctIter) Next(ctx *rdf.Context) (rdf.SolutionMapping, error) {
	for {
		m, err := it.child.Next(ctx)
		if err != nil {
			return rdf.SolutionMapping{}, err
		}
		key := mappingKey(m)
		if it.seen[key] {
			continue
		}
		it.seen[key] = true
		return m, nil
	}
}

func (it *distinctIter) Close(ctx *rdf.Context) error { return it.child.Close(ctx) }

// mappingKey builds an exact equality key from a mapping's bindings,
// used instead of SolutionMapping.Hash() so a hash collision can never
// merge two distinct solutions.
func mappingKey(m rdf.SolutionMapping) string {
	vars := m.Vars()
	parts := make([]string, len(vars))
	for i, v := range vars {
		t, _ := m.Get(v)
		parts[i] = v + "=" + t.String()
	}
	return strings.Join(parts, "\x1f")
}

// --- OrderBy: materialize, then sort ---

type orderByIter struct {
	rows []rdf.SolutionMapping
	pos  int
}

func newOrderByIter(ctx *rdf.Context, o *plan.OrderBy, s store.Store) (*orderByIter, error) {
	child, err := Execute(ctx, o.Child, s)
	if err != nil {
		return nil, err
	}
	rows, err := rdf.DrainMappings(ctx, child)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(rows, func(i, j int) bool {
		for _, key := range o.Keys {
			av, aok := evalExpr(ctx, key.Expr, rows[i], s, DefaultPathDepthBound)
			bv, bok := evalExpr(ctx, key.Expr, rows[j], s, DefaultPathDepthBound)
			switch {
			case !aok && !bok:
				continue
			case !aok:
				return false // unbound sorts last regardless of direction (spec.md §9)
			case !bok:
				return true
			case av.Equal(bv):
				continue
			}
			lt := compareTerms("<", av, bv)
			if key.Descending {
				return !lt
			}
			return lt
		}
		return false
	})
	return &orderByIter{rows: rows}, nil
}

func (it *orderByIter) Next(ctx *rdf.Context) (rdf.SolutionMapping, error) {
	if it.pos >= len(it.rows) {
		return rdf.SolutionMapping{}, io.EOF
	}
	m := it.rows[it.pos]
	it.pos++
	return m, nil
}

func (it *orderByIter) Close(ctx *rdf.Context) error { return nil }

// --- Slice: OFFSET/LIMIT, applied lazily ---

type sliceIter struct {
	child    rdf.MappingIter
	offset   int
	limit    int // -1 means unbounded
	skipped  bool
	consumed int
}

func newSliceIter(ctx *rdf.Context, sl *plan.Slice, s store.Store) (*sliceIter, error) {
	child, err := Execute(ctx, sl.Child, s)
	if err != nil {
		return nil, err
	}
	return &sliceIter{child: child, offset: sl.Offset, limit: sl.Limit}, nil
}

func (it *sliceIter) Next(ctx *rdf.Context) (rdf.SolutionMapping, error) {
	if !it.skipped {
		for i := 0; i < it.offset; i++ {
			if _, err := it.child.Next(ctx); err != nil {
				return rdf.SolutionMapping{}, err
			}
		}
		it.skipped = true
	}
	if it.limit >= 0 && it.consumed >= it.limit {
		return rdf.SolutionMapping{}, io.EOF
	}
	m, err := it.child.Next(ctx)
	if err != nil {
		return rdf.SolutionMapping{}, err
	}
	it.consumed++
	return m, nil
}

func (it *sliceIter) Close(ctx *rdf.Context) error { return it.child.Close(ctx) }

// --- FILTER (NOT) EXISTS support ---

// existsCompatibleSolution reports whether inner, compiled and
// executed fresh against s, produces at least one mapping that merges
// compatibly with m — the correlated-subquery semantics EXISTS needs
// (spec.md §4.D).
func existsCompatibleSolution(ctx *rdf.Context, inner *parse.GroupPattern, m rdf.SolutionMapping, s store.Store, depthBound int) (bool, error) {
	node, err := plan.TranslateGroup(inner)
	if err != nil {
		return false, err
	}
	iter, err := Execute(ctx, node, s)
	if err != nil {
		return false, err
	}
	defer iter.Close(ctx)

	for {
		candidate, err := iter.Next(ctx)
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if _, ok := candidate.Merge(m); ok {
			return true, nil
		}
	}
}
