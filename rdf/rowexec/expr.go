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

// Package rowexec walks an analyzer-optimized algebra tree and
// produces the rdf.MappingIter it describes (spec.md §4.G), plus the
// property-path engine (spec.md §4.H) that backs plan.Path nodes.
package rowexec

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/kitelev/exocortex-triplestore/rdf"
	"github.com/kitelev/exocortex-triplestore/rdf/parse"
	"github.com/kitelev/exocortex-triplestore/store"
)

// evalExpr evaluates e against m. ok is false whenever SPARQL would
// raise a type error: an unbound variable, arithmetic on a non-numeric
// term, a malformed REGEX pattern. The string builtins read any term's
// lexical value and do not fail on IRIs. Per spec.md §7 this
// is never surfaced as a Go error — the caller (Filter, BIND, ORDER
// BY) treats a false ok as "unbound"/"not true" and keeps going.
func evalExpr(ctx *rdf.Context, e parse.Expr, m rdf.SolutionMapping, s store.Store, depthBound int) (rdf.Term, bool) {
	switch t := e.(type) {
	case parse.VarExpr:
		return m.Get(t.Name)

	case parse.LiteralExpr:
		return t.Value, true

	case parse.UnaryExpr:
		return evalUnary(ctx, t, m, s, depthBound)

	case parse.BinaryExpr:
		return evalBinary(ctx, t, m, s, depthBound)

	case parse.CallExpr:
		return evalCall(ctx, t, m, s, depthBound)

	case parse.ExistsExpr:
		found, err := existsCompatibleSolution(ctx, t.Inner, m, s, depthBound)
		if err != nil {
			return rdf.Term{}, false
		}
		if t.Negate {
			found = !found
		}
		return boolTerm(found), true
	}
	return rdf.Term{}, false
}

func boolTerm(b bool) rdf.Term {
	if b {
		return rdf.NewTypedLiteral("true", rdf.XSDBoolean)
	}
	return rdf.NewTypedLiteral("false", rdf.XSDBoolean)
}

// effectiveBoolean implements SPARQL's EBV: a boolean is its value, a
// numeric is true when non-zero, any other literal is true when its
// lexical form is non-empty; IRIs, blank nodes and any value that
// failed to evaluate are false — never an error.
func effectiveBoolean(t rdf.Term, ok bool) bool {
	if !ok {
		return false
	}
	if !t.IsLiteral() {
		return false
	}
	switch t.Datatype() {
	case rdf.XSDBoolean:
		return t.Value() == "true" || t.Value() == "1"
	case rdf.XSDInteger, rdf.XSDDecimal, rdf.XSDDouble:
		f, err := cast.ToFloat64E(t.Value())
		return err == nil && f != 0
	default:
		return t.Value() != ""
	}
}

func asFloat(t rdf.Term) (float64, bool) {
	if !t.IsLiteral() || !rdf.IsNumericDatatype(t.Datatype()) {
		return 0, false
	}
	f, err := cast.ToFloat64E(t.Value())
	return f, err == nil
}

func evalUnary(ctx *rdf.Context, t parse.UnaryExpr, m rdf.SolutionMapping, s store.Store, depthBound int) (rdf.Term, bool) {
	v, ok := evalExpr(ctx, t.Expr, m, s, depthBound)
	switch t.Op {
	case "!":
		return boolTerm(!effectiveBoolean(v, ok)), true
	case "-":
		f, fok := asFloat(v)
		if !ok || !fok {
			return rdf.Term{}, false
		}
		return rdf.NewTypedLiteral(strconv.FormatFloat(-f, 'g', -1, 64), t2dt(v)), true
	}
	return rdf.Term{}, false
}

func t2dt(t rdf.Term) string {
	if dt := t.Datatype(); dt != "" {
		return dt
	}
	return rdf.XSDDouble
}

func evalBinary(ctx *rdf.Context, t parse.BinaryExpr, m rdf.SolutionMapping, s store.Store, depthBound int) (rdf.Term, bool) {
	switch t.Op {
	case "&&":
		l, lok := evalExpr(ctx, t.Left, m, s, depthBound)
		if !effectiveBoolean(l, lok) {
			return boolTerm(false), true
		}
		r, rok := evalExpr(ctx, t.Right, m, s, depthBound)
		return boolTerm(effectiveBoolean(r, rok)), true
	case "||":
		l, lok := evalExpr(ctx, t.Left, m, s, depthBound)
		if effectiveBoolean(l, lok) {
			return boolTerm(true), true
		}
		r, rok := evalExpr(ctx, t.Right, m, s, depthBound)
		return boolTerm(effectiveBoolean(r, rok)), true
	}

	l, lok := evalExpr(ctx, t.Left, m, s, depthBound)
	r, rok := evalExpr(ctx, t.Right, m, s, depthBound)
	if !lok || !rok {
		return rdf.Term{}, false
	}

	switch t.Op {
	case "=":
		return boolTerm(termEqual(l, r)), true
	case "!=":
		return boolTerm(!termEqual(l, r)), true
	case "<", "<=", ">", ">=":
		return boolTerm(compareTerms(t.Op, l, r)), true
	case "+", "-", "*", "/":
		lf, lfok := asFloat(l)
		rf, rfok := asFloat(r)
		if !lfok || !rfok {
			return rdf.Term{}, false
		}
		var res float64
		switch t.Op {
		case "+":
			res = lf + rf
		case "-":
			res = lf - rf
		case "*":
			res = lf * rf
		case "/":
			if rf == 0 {
				return rdf.Term{}, false
			}
			res = lf / rf
		}
		return rdf.NewTypedLiteral(strconv.FormatFloat(res, 'g', -1, 64), rdf.XSDDouble), true
	}
	return rdf.Term{}, false
}

func termEqual(l, r rdf.Term) bool {
	if lf, lok := asFloat(l); lok {
		if rf, rok := asFloat(r); rok {
			return lf == rf
		}
	}
	return l.Equal(r)
}

// compareTerms orders numerics by value and everything else by
// lexical string, matching the ORDER BY rule in spec.md §9.
func compareTerms(op string, l, r rdf.Term) bool {
	var cmp int
	if lf, lok := asFloat(l); lok {
		if rf, rok := asFloat(r); rok {
			switch {
			case lf < rf:
				cmp = -1
			case lf > rf:
				cmp = 1
			}
			return applyCmp(op, cmp)
		}
	}
	cmp = strings.Compare(l.Value(), r.Value())
	return applyCmp(op, cmp)
}

func applyCmp(op string, cmp int) bool {
	switch op {
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	}
	return false
}

func evalCall(ctx *rdf.Context, t parse.CallExpr, m rdf.SolutionMapping, s store.Store, depthBound int) (rdf.Term, bool) {
	switch t.Name {
	case "BOUND":
		if ve, ok := t.Args[0].(parse.VarExpr); ok {
			_, bound := m.Get(ve.Name)
			return boolTerm(bound), true
		}
		return rdf.Term{}, false

	case "IF":
		cond, condOk := evalExpr(ctx, t.Args[0], m, s, depthBound)
		if effectiveBoolean(cond, condOk) {
			return evalExpr(ctx, t.Args[1], m, s, depthBound)
		}
		return evalExpr(ctx, t.Args[2], m, s, depthBound)

	case "STR":
		v, ok := evalExpr(ctx, t.Args[0], m, s, depthBound)
		if !ok {
			return rdf.Term{}, false
		}
		return rdf.NewLiteral(v.Value()), true

	case "UCASE":
		v, ok := stringArg(ctx, t.Args[0], m, s, depthBound)
		if !ok {
			return rdf.Term{}, false
		}
		return rdf.NewLiteral(strings.ToUpper(v)), true

	case "LCASE":
		v, ok := stringArg(ctx, t.Args[0], m, s, depthBound)
		if !ok {
			return rdf.Term{}, false
		}
		return rdf.NewLiteral(strings.ToLower(v)), true

	case "STRLEN":
		v, ok := stringArg(ctx, t.Args[0], m, s, depthBound)
		if !ok {
			return rdf.Term{}, false
		}
		return rdf.NewTypedLiteral(strconv.Itoa(len([]rune(v))), rdf.XSDInteger), true

	case "CONTAINS":
		a, aok := stringArg(ctx, t.Args[0], m, s, depthBound)
		b, bok := stringArg(ctx, t.Args[1], m, s, depthBound)
		if !aok || !bok {
			return rdf.Term{}, false
		}
		return boolTerm(strings.Contains(a, b)), true

	case "REGEX":
		a, aok := stringArg(ctx, t.Args[0], m, s, depthBound)
		pat, pok := stringArg(ctx, t.Args[1], m, s, depthBound)
		if !aok || !pok {
			return rdf.Term{}, false
		}
		re, err := regexp.Compile(pat)
		if err != nil {
			return rdf.Term{}, false
		}
		return boolTerm(re.MatchString(a)), true

	case "ISIRI":
		v, ok := evalExpr(ctx, t.Args[0], m, s, depthBound)
		if !ok {
			return rdf.Term{}, false
		}
		return boolTerm(v.IsIRI()), true

	case "ISLITERAL":
		v, ok := evalExpr(ctx, t.Args[0], m, s, depthBound)
		if !ok {
			return rdf.Term{}, false
		}
		return boolTerm(v.IsLiteral()), true
	}
	return rdf.Term{}, false
}

func stringArg(ctx *rdf.Context, e parse.Expr, m rdf.SolutionMapping, s store.Store, depthBound int) (string, bool) {
	v, ok := evalExpr(ctx, e, m, s, depthBound)
	if !ok {
		return "", false
	}
	return v.Value(), true
}
