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

// Package rdf holds the core, storage-independent types of the triple
// store and query engine: terms, triples, solution mappings and the
// small set of errors every other package builds on.
package rdf

import (
	"fmt"

	"github.com/mitchellh/hashstructure"
)

// TermKind discriminates the three RDF term variants.
type TermKind uint8

const (
	// KindIRI is an absolute or resolvable identifier.
	KindIRI TermKind = iota
	// KindBlankNode is a document-scoped existential identifier.
	KindBlankNode
	// KindLiteral is a typed or language-tagged lexical value.
	KindLiteral
)

func (k TermKind) String() string {
	switch k {
	case KindIRI:
		return "IRI"
	case KindBlankNode:
		return "BlankNode"
	case KindLiteral:
		return "Literal"
	default:
		return "Unknown"
	}
}

// Term is an immutable RDF term: an IRI, a blank node, or a literal.
// The zero value is not a valid Term; use the constructors below.
type Term struct {
	kind TermKind

	// IRI and BlankNode store their value in lex. BlankNode additionally
	// scopes the label to the document that minted it.
	lex   string
	scope string

	// Literal-only fields. At most one of datatype/lang is set.
	datatype string
	lang     string
}

// NewIRI constructs an IRI term. iri must be non-empty.
func NewIRI(iri string) Term {
	if iri == "" {
		panic("rdf: empty IRI")
	}
	return Term{kind: KindIRI, lex: iri}
}

// NewBlankNode constructs a blank node scoped to doc (typically the
// note path that minted it, per the indexer's stable-labelling choice
// in spec.md §9).
func NewBlankNode(doc, label string) Term {
	if label == "" {
		panic("rdf: empty blank node label")
	}
	return Term{kind: KindBlankNode, lex: label, scope: doc}
}

// NewLiteral constructs a plain literal with no datatype or language tag.
func NewLiteral(lexical string) Term {
	return Term{kind: KindLiteral, lex: lexical}
}

// NewTypedLiteral constructs a literal tagged with a datatype IRI.
func NewTypedLiteral(lexical, datatype string) Term {
	return Term{kind: KindLiteral, lex: lexical, datatype: datatype}
}

// NewLangLiteral constructs a literal tagged with a BCP-47 language tag.
func NewLangLiteral(lexical, lang string) Term {
	return Term{kind: KindLiteral, lex: lexical, lang: lang}
}

// Kind reports which of the three term variants this is.
func (t Term) Kind() TermKind { return t.kind }

// IsIRI, IsBlankNode, IsLiteral are convenience predicates.
func (t Term) IsIRI() bool       { return t.kind == KindIRI }
func (t Term) IsBlankNode() bool { return t.kind == KindBlankNode }
func (t Term) IsLiteral() bool   { return t.kind == KindLiteral }

// Value returns the lexical form: the IRI string, the blank node
// label, or the literal's lexical form.
func (t Term) Value() string { return t.lex }

// Scope returns the enclosing document scope of a blank node, or "" for
// IRIs and literals.
func (t Term) Scope() string { return t.scope }

// Datatype returns the literal's datatype IRI, or "" if untyped or not
// a literal.
func (t Term) Datatype() string { return t.datatype }

// Lang returns the literal's language tag, or "" if absent or not a
// literal.
func (t Term) Lang() string { return t.lang }

// Equal reports bit-exact equality per spec.md §3: IRIs compare by
// string, blank nodes by (label, scope), literals by all three of
// (lexical, datatype, lang) with no value-space normalization.
func (t Term) Equal(other Term) bool {
	if t.kind != other.kind {
		return false
	}
	switch t.kind {
	case KindIRI:
		return t.lex == other.lex
	case KindBlankNode:
		return t.lex == other.lex && t.scope == other.scope
	case KindLiteral:
		return t.lex == other.lex && t.datatype == other.datatype && t.lang == other.lang
	default:
		return false
	}
}

// Hash returns a stable hash usable as a map key surrogate. Terms
// themselves are comparable (all fields are strings) and can be used
// directly as map keys, which is how the store's indexes use them;
// Hash is an optional surrogate computed via hashstructure.
func (t Term) Hash() uint64 {
	h, err := hashstructure.Hash(t, nil)
	if err != nil {
		// hashstructure only fails on unsupported field kinds; Term's
		// fields are all plain strings/uint8, so this cannot happen.
		panic(fmt.Sprintf("rdf: hashing term: %v", err))
	}
	return h
}

// String renders the term's canonical N-Triples form: <iri>,
// _:scope_label (the blank node's document scope, an underscore, then
// its label), "lex"^^<dt>, or "lex"@lang.
func (t Term) String() string {
	switch t.kind {
	case KindIRI:
		return "<" + t.lex + ">"
	case KindBlankNode:
		return "_:" + t.scope + "_" + t.lex
	case KindLiteral:
		switch {
		case t.datatype != "":
			return fmt.Sprintf("%q^^<%s>", t.lex, t.datatype)
		case t.lang != "":
			return fmt.Sprintf("%q@%s", t.lex, t.lang)
		default:
			return fmt.Sprintf("%q", t.lex)
		}
	default:
		return "<invalid-term>"
	}
}

// Common XSD datatype IRIs used by the executor's ORDER BY and
// expression evaluation (spec.md §9).
const (
	XSDString  = "http://www.w3.org/2001/XMLSchema#string"
	XSDInteger = "http://www.w3.org/2001/XMLSchema#integer"
	XSDDecimal = "http://www.w3.org/2001/XMLSchema#decimal"
	XSDDouble  = "http://www.w3.org/2001/XMLSchema#double"
	XSDBoolean = "http://www.w3.org/2001/XMLSchema#boolean"
)

// IsNumericDatatype reports whether dt is one of the XSD numeric types
// the executor treats specially in ORDER BY (spec.md §9).
func IsNumericDatatype(dt string) bool {
	switch dt {
	case XSDInteger, XSDDecimal, XSDDouble:
		return true
	default:
		return false
	}
}
