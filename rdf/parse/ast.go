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

// Package parse implements the SPARQL 1.1 subset lexer and
// recursive-descent parser (spec.md §4.D). It never returns a partial
// AST: any structural error aborts with position information.
package parse

import "github.com/kitelev/exocortex-triplestore/rdf"

// Query is the parsed form of one SPARQL query: SELECT, CONSTRUCT,
// ASK, or DESCRIBE, each with a WHERE pattern and shared modifiers.
type Query struct {
	Form      QueryForm
	Select    *SelectClause   // set when Form == FormSelect
	Construct []TriplePattern // set when Form == FormConstruct (template)
	Describe  []Term          // set when Form == FormDescribe (explicit IRIs/vars)

	Where *GroupPattern

	OrderBy []OrderKey
	Limit   int // -1 means unset
	Offset  int
}

// QueryForm discriminates the four supported query forms.
type QueryForm int

const (
	FormSelect QueryForm = iota
	FormConstruct
	FormAsk
	FormDescribe
)

// SelectClause holds SELECT's projection.
type SelectClause struct {
	Distinct bool
	Star     bool // SELECT *
	Vars     []string
}

// OrderKey is one ORDER BY key.
type OrderKey struct {
	Expr       Expr
	Descending bool
}

// Term is a parsed term position: a variable, an IRI, or a literal.
// Exactly one constructor field is meaningful, discriminated by Kind.
type Term struct {
	Kind TermKind
	// Var holds the variable name (without '?') when Kind == TermVar.
	Var string
	// Value holds the resolved rdf.Term when Kind == TermIRI or TermLiteral.
	Value rdf.Term
}

// TermKind discriminates a parsed Term.
type TermKind int

const (
	TermVar TermKind = iota
	TermIRI
	TermLiteral
)

// VarTerm constructs a variable-position Term.
func VarTerm(name string) Term { return Term{Kind: TermVar, Var: name} }

// ValueTerm constructs an IRI or literal Term from a resolved rdf.Term.
func ValueTerm(t rdf.Term) Term {
	k := TermIRI
	if t.IsLiteral() {
		k = TermLiteral
	}
	return Term{Kind: k, Value: t}
}

// TriplePattern is a basic triple pattern whose predicate may be a
// plain IRI/variable or a property path expression.
type TriplePattern struct {
	Subject   Term
	Predicate Path // a bare IRI/var predicate is PredicatePath{Term}
	Object    Term
}

// GraphPattern is the sum type of WHERE-clause pattern nodes.
type GraphPattern interface{ isGraphPattern() }

// GroupPattern is a conjunction: a sequence of sibling patterns
// (triples, nested groups, OPTIONAL, UNION, FILTER, BIND) evaluated
// together, corresponding to a `{ ... }` block. Elements preserves
// source order, since the plan translator's Bgp/Path grouping rule
// (spec.md §4.E) depends on which triple patterns are textually
// adjacent.
type GroupPattern struct {
	Elements []GraphPattern // TriplePattern, OptionalPattern, UnionPattern, FilterPattern, BindPattern, *GroupPattern
}

func (*GroupPattern) isGraphPattern() {}

func (TriplePattern) isGraphPattern() {}

// OptionalPattern is `OPTIONAL { inner }`.
type OptionalPattern struct {
	Inner *GroupPattern
}

func (*OptionalPattern) isGraphPattern() {}

// UnionPattern is `{ left } UNION { right }`.
type UnionPattern struct {
	Left, Right *GroupPattern
}

func (*UnionPattern) isGraphPattern() {}

// FilterPattern is `FILTER (expr)` or `FILTER NOT EXISTS { inner }` /
// `FILTER EXISTS { inner }`, modelled uniformly as a boolean Expr:
// EXISTS/NOT EXISTS compile to an ExistsExpr within Expr.
type FilterPattern struct {
	Expr Expr
}

func (*FilterPattern) isGraphPattern() {}

// BindPattern is `BIND (expr AS ?v)`.
type BindPattern struct {
	Expr Expr
	Var  string
}

func (*BindPattern) isGraphPattern() {}

// Expr is the sum type of scalar expressions used in FILTER/BIND.
type Expr interface{ isExpr() }

// VarExpr references a bound variable.
type VarExpr struct{ Name string }

func (VarExpr) isExpr() {}

// LiteralExpr is a constant IRI or literal term.
type LiteralExpr struct{ Value rdf.Term }

func (LiteralExpr) isExpr() {}

// UnaryExpr applies a prefix operator: "!" or "-".
type UnaryExpr struct {
	Op   string
	Expr Expr
}

func (UnaryExpr) isExpr() {}

// BinaryExpr applies an infix operator: arithmetic, comparison, or
// logical connective.
type BinaryExpr struct {
	Op          string
	Left, Right Expr
}

func (BinaryExpr) isExpr() {}

// CallExpr is a builtin function call: STR, UCASE, LCASE, STRLEN,
// CONTAINS, REGEX, ISIRI, ISLITERAL, BOUND, IF.
type CallExpr struct {
	Name string
	Args []Expr
}

func (CallExpr) isExpr() {}

// ExistsExpr is `EXISTS { inner }` or, with Negate set, `NOT EXISTS`.
type ExistsExpr struct {
	Inner  *GroupPattern
	Negate bool
}

func (ExistsExpr) isExpr() {}

// Path is the sum type of property path expressions (spec.md §4.D).
type Path interface{ isPath() }

// PredicatePath is a plain predicate: an IRI or a variable.
type PredicatePath struct{ Term Term }

func (PredicatePath) isPath() {}

// InversePath is `^P`.
type InversePath struct{ Inner Path }

func (InversePath) isPath() {}

// SequencePath is `P/Q`.
type SequencePath struct{ Left, Right Path }

func (SequencePath) isPath() {}

// AlternativePath is `P|Q`.
type AlternativePath struct{ Left, Right Path }

func (AlternativePath) isPath() {}

// ZeroOrOnePath is `P?`.
type ZeroOrOnePath struct{ Inner Path }

func (ZeroOrOnePath) isPath() {}

// OneOrMorePath is `P+`.
type OneOrMorePath struct{ Inner Path }

func (OneOrMorePath) isPath() {}

// ZeroOrMorePath is `P*`.
type ZeroOrMorePath struct{ Inner Path }

func (ZeroOrMorePath) isPath() {}

// GroupPath is `(P)`, kept to preserve explicit grouping for callers
// that print paths back out; it evaluates identically to Inner.
type GroupPath struct{ Inner Path }

func (GroupPath) isPath() {}
