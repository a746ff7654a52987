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

package parse

import (
	"strconv"
	"strings"

	"github.com/kitelev/exocortex-triplestore/rdf"
)

const rdfTypeIRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// Parser is a recursive-descent SPARQL 1.1 subset parser (spec.md
// §4.D). Use Parse for the common one-shot case.
type Parser struct {
	lex      *Lexer
	cur      Token
	prefixes map[string]string
}

// Parse lexes and parses a complete SPARQL query string. It fails fast
// with position information and never returns a partial AST.
func Parse(src string) (*Query, error) {
	p := &Parser{lex: NewLexer(src), prefixes: map[string]string{}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.parsePrologue(); err != nil {
		return nil, err
	}
	q, err := p.parseQueryForm()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != TokEOF {
		return nil, ErrSyntaxAt(p.cur.Line, p.cur.Col, "unexpected trailing input: "+p.cur.Text)
	}
	return q, nil
}

func (p *Parser) advance() error {
	t, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

func (p *Parser) atKeyword(kw string) bool {
	return p.cur.Kind == TokKeyword && p.cur.Text == kw
}

func (p *Parser) atPunct(s string) bool {
	return p.cur.Kind == TokPunct && p.cur.Text == s
}

func (p *Parser) expectPunct(s string) error {
	if !p.atPunct(s) {
		return ErrSyntaxAt(p.cur.Line, p.cur.Col, "expected '"+s+"', got '"+p.cur.Text+"'")
	}
	return p.advance()
}

func (p *Parser) expectKeyword(kw string) error {
	if !p.atKeyword(kw) {
		return ErrSyntaxAt(p.cur.Line, p.cur.Col, "expected "+kw+", got '"+p.cur.Text+"'")
	}
	return p.advance()
}

// --- Prologue ---

func (p *Parser) parsePrologue() error {
	for p.atKeyword("PREFIX") {
		if err := p.advance(); err != nil {
			return err
		}
		if p.cur.Kind != TokPrefixedName && p.cur.Kind != TokKeyword {
			return ErrSyntaxAt(p.cur.Line, p.cur.Col, "expected prefix name after PREFIX")
		}
		name := strings.TrimSuffix(p.cur.Text, ":")
		if p.cur.Kind == TokPrefixedName {
			name = strings.SplitN(p.cur.Text, ":", 2)[0]
		}
		if err := p.advance(); err != nil {
			return err
		}
		if p.cur.Kind != TokIRI {
			return ErrSyntaxAt(p.cur.Line, p.cur.Col, "expected IRI after PREFIX "+name+":")
		}
		p.prefixes[name] = p.cur.Text
		if err := p.advance(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) expandPrefixed(text string) (string, error) {
	parts := strings.SplitN(text, ":", 2)
	prefix, local := parts[0], ""
	if len(parts) == 2 {
		local = parts[1]
	}
	base, ok := p.prefixes[prefix]
	if !ok {
		return "", rdf.ErrUnknownPrefix.New(prefix)
	}
	return base + local, nil
}

// resolveIRIToken converts an IRI or prefixed-name token into an IRI
// rdf.Term; any other token kind is a syntax error.
func (p *Parser) resolveIRIToken(tok Token) (rdf.Term, error) {
	switch tok.Kind {
	case TokIRI:
		return rdf.NewIRI(tok.Text), nil
	case TokPrefixedName:
		iri, err := p.expandPrefixed(tok.Text)
		if err != nil {
			return rdf.Term{}, err
		}
		return rdf.NewIRI(iri), nil
	default:
		return rdf.Term{}, ErrSyntaxAt(tok.Line, tok.Col, "expected IRI, got '"+tok.Text+"'")
	}
}

func (p *Parser) resolveLiteralToken(tok Token) (rdf.Term, error) {
	switch tok.Kind {
	case TokString:
		if tok.Datatype != "" {
			dt := tok.Datatype
			if !strings.Contains(dt, "://") {
				expanded, err := p.expandPrefixed(dt)
				if err != nil {
					return rdf.Term{}, err
				}
				dt = expanded
			}
			return rdf.NewTypedLiteral(tok.Text, dt), nil
		}
		if tok.Lang != "" {
			return rdf.NewLangLiteral(tok.Text, tok.Lang), nil
		}
		return rdf.NewLiteral(tok.Text), nil
	case TokNumber:
		dt := rdf.XSDInteger
		if strings.Contains(tok.Text, ".") {
			dt = rdf.XSDDecimal
		}
		return rdf.NewTypedLiteral(tok.Text, dt), nil
	case TokKeyword:
		switch tok.Text {
		case "TRUE":
			return rdf.NewTypedLiteral("true", rdf.XSDBoolean), nil
		case "FALSE":
			return rdf.NewTypedLiteral("false", rdf.XSDBoolean), nil
		}
	}
	return rdf.Term{}, ErrSyntaxAt(tok.Line, tok.Col, "expected literal, got '"+tok.Text+"'")
}

// --- Query forms ---

func (p *Parser) parseQueryForm() (*Query, error) {
	switch {
	case p.atKeyword("SELECT"):
		return p.parseSelect()
	case p.atKeyword("CONSTRUCT"):
		return p.parseConstruct()
	case p.atKeyword("ASK"):
		return p.parseAsk()
	case p.atKeyword("DESCRIBE"):
		return p.parseDescribe()
	default:
		return nil, ErrSyntaxAt(p.cur.Line, p.cur.Col, "expected SELECT, CONSTRUCT, ASK, or DESCRIBE")
	}
}

func (p *Parser) parseSelect() (*Query, error) {
	if err := p.advance(); err != nil { // consume SELECT
		return nil, err
	}
	sel := &SelectClause{}
	if p.atKeyword("DISTINCT") {
		sel.Distinct = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if p.atPunct("*") {
		sel.Star = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	} else {
		for p.cur.Kind == TokVar {
			sel.Vars = append(sel.Vars, p.cur.Text)
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if len(sel.Vars) == 0 {
			return nil, ErrSyntaxAt(p.cur.Line, p.cur.Col, "expected variable list or '*' after SELECT")
		}
	}

	where, err := p.parseWhereClause()
	if err != nil {
		return nil, err
	}
	q := &Query{Form: FormSelect, Select: sel, Where: where, Limit: -1}
	if err := p.parseModifiers(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (p *Parser) parseConstruct() (*Query, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var template []TriplePattern
	for !p.atPunct("}") {
		tp, err := p.parseTriplePattern()
		if err != nil {
			return nil, err
		}
		template = append(template, tp)
		if p.atPunct(".") {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if err := p.advance(); err != nil { // consume '}'
		return nil, err
	}

	where, err := p.parseWhereClause()
	if err != nil {
		return nil, err
	}
	q := &Query{Form: FormConstruct, Construct: template, Where: where, Limit: -1}
	if err := p.parseModifiers(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (p *Parser) parseAsk() (*Query, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	where, err := p.parseWhereClause()
	if err != nil {
		return nil, err
	}
	return &Query{Form: FormAsk, Where: where, Limit: -1}, nil
}

func (p *Parser) parseDescribe() (*Query, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	var targets []Term
	for p.cur.Kind == TokVar || p.cur.Kind == TokIRI || p.cur.Kind == TokPrefixedName {
		if p.cur.Kind == TokVar {
			targets = append(targets, VarTerm(p.cur.Text))
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		iri, err := p.resolveIRIToken(p.cur)
		if err != nil {
			return nil, err
		}
		targets = append(targets, ValueTerm(iri))
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if len(targets) == 0 {
		return nil, ErrSyntaxAt(p.cur.Line, p.cur.Col, "expected variable or IRI list after DESCRIBE")
	}

	var where *GroupPattern
	if p.atKeyword("WHERE") || p.atPunct("{") {
		var err error
		where, err = p.parseWhereClause()
		if err != nil {
			return nil, err
		}
	}
	q := &Query{Form: FormDescribe, Describe: targets, Where: where, Limit: -1}
	if err := p.parseModifiers(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (p *Parser) parseModifiers(q *Query) error {
	if p.atKeyword("ORDER") {
		if err := p.advance(); err != nil {
			return err
		}
		if err := p.expectKeyword("BY"); err != nil {
			return err
		}
		for {
			desc := false
			if p.atKeyword("ASC") {
				if err := p.advance(); err != nil {
					return err
				}
			} else if p.atKeyword("DESC") {
				desc = true
				if err := p.advance(); err != nil {
					return err
				}
			}
			e, err := p.parseExpr()
			if err != nil {
				return err
			}
			q.OrderBy = append(q.OrderBy, OrderKey{Expr: e, Descending: desc})
			if !p.canStartExpr() {
				break
			}
		}
	}
	if p.atKeyword("LIMIT") {
		if err := p.advance(); err != nil {
			return err
		}
		n, err := p.parseIntLiteral()
		if err != nil {
			return err
		}
		q.Limit = n
	}
	if p.atKeyword("OFFSET") {
		if err := p.advance(); err != nil {
			return err
		}
		n, err := p.parseIntLiteral()
		if err != nil {
			return err
		}
		q.Offset = n
	}
	return nil
}

// canStartExpr reports whether the current token could begin another
// ORDER BY key, so the modifier loop knows when to stop without
// needing a comma separator (SPARQL's ORDER BY list is whitespace
// separated).
func (p *Parser) canStartExpr() bool {
	if p.atKeyword("LIMIT") || p.atKeyword("OFFSET") || p.cur.Kind == TokEOF || p.atPunct("}") {
		return false
	}
	switch p.cur.Kind {
	case TokVar, TokIRI, TokPrefixedName, TokString, TokNumber:
		return true
	case TokPunct:
		return p.cur.Text == "("
	case TokKeyword:
		return p.atKeyword("ASC") || p.atKeyword("DESC") || p.atKeyword("BOUND") ||
			p.atKeyword("IF") || p.atKeyword("NOT") || p.atKeyword("EXISTS") || builtinFuncs[p.cur.Text]
	}
	return false
}

func (p *Parser) parseIntLiteral() (int, error) {
	if p.cur.Kind != TokNumber {
		return 0, ErrSyntaxAt(p.cur.Line, p.cur.Col, "expected integer, got '"+p.cur.Text+"'")
	}
	n, err := strconv.Atoi(p.cur.Text)
	if err != nil {
		return 0, ErrSyntaxAt(p.cur.Line, p.cur.Col, "invalid integer: "+p.cur.Text)
	}
	return n, p.advance()
}

// --- WHERE / group graph pattern ---

func (p *Parser) parseWhereClause() (*GroupPattern, error) {
	if p.atKeyword("WHERE") {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return p.parseGroupGraphPattern()
}

func (p *Parser) parseGroupGraphPattern() (*GroupPattern, error) {
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	group := &GroupPattern{}
	for !p.atPunct("}") {
		switch {
		case p.atKeyword("OPTIONAL"):
			if err := p.advance(); err != nil {
				return nil, err
			}
			inner, err := p.parseGroupGraphPattern()
			if err != nil {
				return nil, err
			}
			group.Elements = append(group.Elements, &OptionalPattern{Inner: inner})
		case p.atKeyword("FILTER"):
			f, err := p.parseFilter()
			if err != nil {
				return nil, err
			}
			group.Elements = append(group.Elements, f)
		case p.atKeyword("BIND"):
			b, err := p.parseBind()
			if err != nil {
				return nil, err
			}
			group.Elements = append(group.Elements, b)
		case p.atPunct("{"):
			left, err := p.parseGroupGraphPattern()
			if err != nil {
				return nil, err
			}
			if p.atKeyword("UNION") {
				if err := p.advance(); err != nil {
					return nil, err
				}
				right, err := p.parseGroupGraphPattern()
				if err != nil {
					return nil, err
				}
				group.Elements = append(group.Elements, &UnionPattern{Left: left, Right: right})
			} else {
				group.Elements = append(group.Elements, left)
			}
		default:
			tp, err := p.parseTriplePattern()
			if err != nil {
				return nil, err
			}
			group.Elements = append(group.Elements, tp)
		}

		if p.atPunct(".") {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if err := p.advance(); err != nil { // consume '}'
		return nil, err
	}
	return group, nil
}

func (p *Parser) parseFilter() (*FilterPattern, error) {
	if err := p.advance(); err != nil { // consume FILTER
		return nil, err
	}
	if p.atKeyword("NOT") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectKeyword("EXISTS"); err != nil {
			return nil, err
		}
		inner, err := p.parseGroupGraphPattern()
		if err != nil {
			return nil, err
		}
		return &FilterPattern{Expr: ExistsExpr{Inner: inner, Negate: true}}, nil
	}
	if p.atKeyword("EXISTS") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseGroupGraphPattern()
		if err != nil {
			return nil, err
		}
		return &FilterPattern{Expr: ExistsExpr{Inner: inner}}, nil
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &FilterPattern{Expr: e}, nil
}

func (p *Parser) parseBind() (*BindPattern, error) {
	if err := p.advance(); err != nil { // consume BIND
		return nil, err
	}
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("AS"); err != nil {
		return nil, err
	}
	if p.cur.Kind != TokVar {
		return nil, ErrSyntaxAt(p.cur.Line, p.cur.Col, "expected variable after AS")
	}
	v := p.cur.Text
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return &BindPattern{Expr: e, Var: v}, nil
}

// --- triple patterns & property paths ---

func (p *Parser) parseVarOrTerm() (Term, error) {
	switch p.cur.Kind {
	case TokVar:
		name := p.cur.Text
		if err := p.advance(); err != nil {
			return Term{}, err
		}
		return VarTerm(name), nil
	case TokIRI, TokPrefixedName:
		iri, err := p.resolveIRIToken(p.cur)
		if err != nil {
			return Term{}, err
		}
		if err := p.advance(); err != nil {
			return Term{}, err
		}
		return ValueTerm(iri), nil
	case TokString, TokNumber:
		lit, err := p.resolveLiteralToken(p.cur)
		if err != nil {
			return Term{}, err
		}
		if err := p.advance(); err != nil {
			return Term{}, err
		}
		return ValueTerm(lit), nil
	case TokKeyword:
		if p.cur.Text == "TRUE" || p.cur.Text == "FALSE" {
			lit, err := p.resolveLiteralToken(p.cur)
			if err != nil {
				return Term{}, err
			}
			if err := p.advance(); err != nil {
				return Term{}, err
			}
			return ValueTerm(lit), nil
		}
	}
	return Term{}, ErrSyntaxAt(p.cur.Line, p.cur.Col, "expected term, got '"+p.cur.Text+"'")
}

func (p *Parser) parseTriplePattern() (TriplePattern, error) {
	subj, err := p.parseVarOrTerm()
	if err != nil {
		return TriplePattern{}, err
	}
	pred, err := p.parsePredicate()
	if err != nil {
		return TriplePattern{}, err
	}
	obj, err := p.parseVarOrTerm()
	if err != nil {
		return TriplePattern{}, err
	}
	return TriplePattern{Subject: subj, Predicate: pred, Object: obj}, nil
}

// parsePredicate parses either a plain predicate (IRI, 'a', or
// variable) or a full property path expression.
func (p *Parser) parsePredicate() (Path, error) {
	if p.atKeyword("A") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return PredicatePath{Term: ValueTerm(rdf.NewIRI(rdfTypeIRI))}, nil
	}
	return p.parsePathAlternative()
}

func (p *Parser) parsePathAlternative() (Path, error) {
	left, err := p.parsePathSequence()
	if err != nil {
		return nil, err
	}
	for p.atPunct("|") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parsePathSequence()
		if err != nil {
			return nil, err
		}
		left = AlternativePath{Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parsePathSequence() (Path, error) {
	left, err := p.parsePathUnary()
	if err != nil {
		return nil, err
	}
	for p.atPunct("/") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parsePathUnary()
		if err != nil {
			return nil, err
		}
		left = SequencePath{Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parsePathUnary() (Path, error) {
	if p.atPunct("^") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parsePathPrimaryWithMod()
		if err != nil {
			return nil, err
		}
		return InversePath{Inner: inner}, nil
	}
	return p.parsePathPrimaryWithMod()
}

func (p *Parser) parsePathPrimaryWithMod() (Path, error) {
	prim, err := p.parsePathPrimary()
	if err != nil {
		return nil, err
	}
	switch {
	case p.atPunct("?"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ZeroOrOnePath{Inner: prim}, nil
	case p.atPunct("*"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ZeroOrMorePath{Inner: prim}, nil
	case p.atPunct("+"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		return OneOrMorePath{Inner: prim}, nil
	}
	return prim, nil
}

func (p *Parser) parsePathPrimary() (Path, error) {
	if p.atPunct("(") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parsePathAlternative()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return GroupPath{Inner: inner}, nil
	}
	if p.cur.Kind == TokVar {
		name := p.cur.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return PredicatePath{Term: VarTerm(name)}, nil
	}
	iri, err := p.resolveIRIToken(p.cur)
	if err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return PredicatePath{Term: ValueTerm(iri)}, nil
}

// --- expressions ---

func (p *Parser) parseExpr() (Expr, error) { return p.parseOr() }

func (p *Parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.atPunct("||") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = BinaryExpr{Op: "||", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.atPunct("&&") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = BinaryExpr{Op: "&&", Left: left, Right: right}
	}
	return left, nil
}

var comparisonOps = map[string]bool{"=": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true}

func (p *Parser) parseComparison() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind == TokPunct && comparisonOps[p.cur.Text] {
		op := p.cur.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return BinaryExpr{Op: op, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *Parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.atPunct("+") || p.atPunct("-") {
		op := p.cur.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnaryExpr()
	if err != nil {
		return nil, err
	}
	for p.atPunct("*") || p.atPunct("/") {
		op := p.cur.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		left = BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnaryExpr() (Expr, error) {
	if p.atPunct("!") || p.atPunct("-") {
		op := p.cur.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		return UnaryExpr{Op: op, Expr: inner}, nil
	}
	return p.parsePrimaryExpr()
}

var builtinFuncs = map[string]bool{
	"STR": true, "UCASE": true, "LCASE": true, "STRLEN": true,
	"CONTAINS": true, "REGEX": true, "ISIRI": true, "ISLITERAL": true,
}

func (p *Parser) parsePrimaryExpr() (Expr, error) {
	switch {
	case p.atPunct("("):
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return e, nil

	case p.atKeyword("NOT"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectKeyword("EXISTS"); err != nil {
			return nil, err
		}
		inner, err := p.parseGroupGraphPattern()
		if err != nil {
			return nil, err
		}
		return ExistsExpr{Inner: inner, Negate: true}, nil

	case p.atKeyword("EXISTS"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseGroupGraphPattern()
		if err != nil {
			return nil, err
		}
		return ExistsExpr{Inner: inner}, nil

	case p.atKeyword("BOUND"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectPunct("("); err != nil {
			return nil, err
		}
		if p.cur.Kind != TokVar {
			return nil, ErrSyntaxAt(p.cur.Line, p.cur.Col, "expected variable in BOUND(...)")
		}
		v := p.cur.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return CallExpr{Name: "BOUND", Args: []Expr{VarExpr{Name: v}}}, nil

	case p.atKeyword("IF"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectPunct("("); err != nil {
			return nil, err
		}
		args, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return CallExpr{Name: "IF", Args: args}, nil

	case p.cur.Kind == TokKeyword && builtinFuncs[p.cur.Text]:
		name := p.cur.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectPunct("("); err != nil {
			return nil, err
		}
		args, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return CallExpr{Name: name, Args: args}, nil

	case p.cur.Kind == TokVar:
		v := p.cur.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return VarExpr{Name: v}, nil

	case p.cur.Kind == TokString, p.cur.Kind == TokNumber:
		t, err := p.resolveLiteralToken(p.cur)
		if err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return LiteralExpr{Value: t}, nil

	case p.cur.Kind == TokKeyword && (p.cur.Text == "TRUE" || p.cur.Text == "FALSE"):
		t, err := p.resolveLiteralToken(p.cur)
		if err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return LiteralExpr{Value: t}, nil

	case p.cur.Kind == TokIRI || p.cur.Kind == TokPrefixedName:
		iri, err := p.resolveIRIToken(p.cur)
		if err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return LiteralExpr{Value: iri}, nil
	}
	return nil, ErrSyntaxAt(p.cur.Line, p.cur.Col, "expected expression, got '"+p.cur.Text+"'")
}

func (p *Parser) parseExprList() ([]Expr, error) {
	var out []Expr
	if p.atPunct(")") {
		return out, nil
	}
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
		if p.atPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return out, nil
}
