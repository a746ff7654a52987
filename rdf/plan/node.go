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

// Package plan defines the algebra operator tree a query compiles to
// (spec.md §4.E) and the translator that builds one from a parsed
// query. rowexec walks this tree to produce a MappingIter; analyzer
// rewrites it in place before execution.
package plan

import (
	"fmt"
	"strings"

	"github.com/kitelev/exocortex-triplestore/rdf/parse"
)

// Node is one operator in the algebra tree.
type Node interface {
	// Children returns this node's direct operand nodes, in evaluation
	// order. Leaf nodes (Bgp, Path) return nil.
	Children() []Node
	fmt.Stringer
}

// unaryNode and binaryNode give concrete node types a Children()
// implementation without repeating the slice-building boilerplate.
type unaryNode struct{ Child Node }

func (n unaryNode) children() []Node { return []Node{n.Child} }

type binaryNode struct{ Left, Right Node }

func (n binaryNode) children() []Node { return []Node{n.Left, n.Right} }

// Bgp is a basic graph pattern: a conjunction of triple patterns with
// plain (non-path) predicates, matched jointly against the store.
type Bgp struct {
	Patterns []parse.TriplePattern
}

func (b *Bgp) Children() []Node { return nil }
func (b *Bgp) String() string {
	parts := make([]string, len(b.Patterns))
	for i, p := range b.Patterns {
		parts[i] = fmt.Sprintf("%v %v %v", p.Subject, p.Predicate, p.Object)
	}
	return "Bgp(" + strings.Join(parts, " . ") + ")"
}

// Path is a single triple pattern whose predicate is a property path
// expression, evaluated by the path engine (spec.md §4.H).
type Path struct {
	Subject parse.Term
	PathExpr parse.Path
	Object  parse.Term
}

func (p *Path) Children() []Node { return nil }
func (p *Path) String() string   { return fmt.Sprintf("Path(%v %v %v)", p.Subject, p.PathExpr, p.Object) }

// Join is an inner join: mappings from Left and Right are combined
// wherever their shared variables agree (spec.md §3 merge semantics).
type Join struct{ binaryNode }

func NewJoin(left, right Node) *Join { return &Join{binaryNode{left, right}} }
func (j *Join) Children() []Node     { return j.children() }
func (j *Join) String() string       { return fmt.Sprintf("Join\n├─ %v\n└─ %v", j.Left, j.Right) }

// LeftJoin is SPARQL OPTIONAL: every Left mapping appears in the
// output, joined with Right when compatible and an optional Filter
// expression (if any) holds, else passed through unextended.
type LeftJoin struct {
	binaryNode
	Filter parse.Expr // may be nil
}

func NewLeftJoin(left, right Node, filter parse.Expr) *LeftJoin {
	return &LeftJoin{binaryNode{left, right}, filter}
}
func (j *LeftJoin) Children() []Node { return j.children() }
func (j *LeftJoin) String() string   { return fmt.Sprintf("LeftJoin\n├─ %v\n└─ %v", j.Left, j.Right) }

// Union concatenates the solutions of Left and Right.
type Union struct{ binaryNode }

func NewUnion(left, right Node) *Union { return &Union{binaryNode{left, right}} }
func (u *Union) Children() []Node      { return u.children() }
func (u *Union) String() string        { return fmt.Sprintf("Union\n├─ %v\n└─ %v", u.Left, u.Right) }

// Filter drops mappings for which Expr does not evaluate to true
// (type errors and unbound results are treated as false, spec.md §7).
type Filter struct {
	unaryNode
	Expr parse.Expr
}

func NewFilter(expr parse.Expr, child Node) *Filter { return &Filter{unaryNode{child}, expr} }
func (f *Filter) Children() []Node                  { return f.children() }
func (f *Filter) String() string                    { return fmt.Sprintf("Filter(%v)\n└─ %v", f.Expr, f.Child) }

// Extend is BIND: it adds a new variable computed from Expr to every
// mapping, leaving the mapping unbound for that variable if Expr
// fails to evaluate.
type Extend struct {
	unaryNode
	Var  string
	Expr parse.Expr
}

func NewExtend(v string, expr parse.Expr, child Node) *Extend {
	return &Extend{unaryNode{child}, v, expr}
}
func (e *Extend) Children() []Node { return e.children() }
func (e *Extend) String() string   { return fmt.Sprintf("Extend(%s := %v)\n└─ %v", e.Var, e.Expr, e.Child) }

// Project restricts each mapping to Vars, in SELECT's projection
// order (spec.md §4.E). A nil Vars (SELECT *) is a no-op projection
// the translator resolves before building the node.
type Project struct {
	unaryNode
	Vars []string
}

func NewProject(vars []string, child Node) *Project { return &Project{unaryNode{child}, vars} }
func (p *Project) Children() []Node                 { return p.children() }
func (p *Project) String() string {
	return fmt.Sprintf("Project(%s)\n└─ %v", strings.Join(p.Vars, ", "), p.Child)
}

// Distinct removes duplicate mappings by an exact key built from their
// bindings (spec.md §4.G).
type Distinct struct{ unaryNode }

func NewDistinct(child Node) *Distinct { return &Distinct{unaryNode{child}} }
func (d *Distinct) Children() []Node   { return d.children() }
func (d *Distinct) String() string     { return fmt.Sprintf("Distinct\n└─ %v", d.Child) }

// OrderBy sorts mappings by Keys, materializing its entire input
// (spec.md §4.G).
type OrderBy struct {
	unaryNode
	Keys []parse.OrderKey
}

func NewOrderBy(keys []parse.OrderKey, child Node) *OrderBy { return &OrderBy{unaryNode{child}, keys} }
func (o *OrderBy) Children() []Node                         { return o.children() }
func (o *OrderBy) String() string                           { return fmt.Sprintf("OrderBy(%d keys)\n└─ %v", len(o.Keys), o.Child) }

// Slice applies OFFSET/LIMIT. Limit of -1 means unbounded.
type Slice struct {
	unaryNode
	Offset, Limit int
}

func NewSlice(offset, limit int, child Node) *Slice { return &Slice{unaryNode{child}, offset, limit} }
func (s *Slice) Children() []Node                   { return s.children() }
func (s *Slice) String() string {
	return fmt.Sprintf("Slice(offset=%d, limit=%d)\n└─ %v", s.Offset, s.Limit, s.Child)
}
