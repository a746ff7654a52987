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

package vault

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/kitelev/exocortex-triplestore/rdf"
)

// ScalarKind discriminates the dynamically-typed frontmatter values
// the YAML layer hands back, per spec.md §9's re-architecture note:
// "dynamically typed property values... model as a tagged union".
// Internal code past the indexer boundary never sees this type again;
// Terms converts every Scalar into rdf.Terms.
type ScalarKind uint8

const (
	ScalarString ScalarKind = iota
	ScalarNumber
	ScalarBool
	ScalarNull
	ScalarArray
	ScalarWiki
)

// Scalar is the tagged union of frontmatter value shapes.
type Scalar struct {
	Kind   ScalarKind
	Str    string
	Num    float64
	Bool   bool
	Array  []Scalar
	WikiID string // target note name, for ScalarWiki
}

// wikiLinkPattern matches "[[Target]]" or "[[Target|Alias]]", optionally
// wrapped in quotes by the YAML parser.
var wikiLinkPattern = regexp.MustCompile(`^"?\[\[([^\]|]+)(?:\|[^\]]*)?\]\]"?$`)

// ToScalar converts a raw value decoded from YAML (string, int, float64,
// bool, nil, or []interface{}) into a Scalar, resolving wiki-link
// strings at this boundary.
func ToScalar(raw interface{}) Scalar {
	switch v := raw.(type) {
	case nil:
		return Scalar{Kind: ScalarNull}
	case bool:
		return Scalar{Kind: ScalarBool, Bool: v}
	case int:
		return Scalar{Kind: ScalarNumber, Num: float64(v)}
	case int64:
		return Scalar{Kind: ScalarNumber, Num: float64(v)}
	case float64:
		return Scalar{Kind: ScalarNumber, Num: v}
	case string:
		if m := wikiLinkPattern.FindStringSubmatch(v); m != nil {
			return Scalar{Kind: ScalarWiki, WikiID: m[1]}
		}
		return Scalar{Kind: ScalarString, Str: v}
	case []interface{}:
		out := make([]Scalar, 0, len(v))
		for _, e := range v {
			out = append(out, ToScalar(e))
		}
		return Scalar{Kind: ScalarArray, Array: out}
	default:
		return Scalar{Kind: ScalarString, Str: fmt.Sprintf("%v", v)}
	}
}

// Terms flattens a Scalar into zero or more rdf.Terms: arrays expand to
// one term per element (spec.md §4.C); wiki links resolve to the
// target note's IRI via iriForNote; everything else becomes a literal.
func (s Scalar) Terms(iriForNote func(name string) rdf.Term) []rdf.Term {
	switch s.Kind {
	case ScalarNull:
		return nil
	case ScalarArray:
		var out []rdf.Term
		for _, e := range s.Array {
			out = append(out, e.Terms(iriForNote)...)
		}
		return out
	case ScalarWiki:
		return []rdf.Term{iriForNote(s.WikiID)}
	case ScalarBool:
		return []rdf.Term{rdf.NewTypedLiteral(strconv.FormatBool(s.Bool), rdf.XSDBoolean)}
	case ScalarNumber:
		return []rdf.Term{rdf.NewTypedLiteral(strconv.FormatFloat(s.Num, 'g', -1, 64), rdf.XSDDouble)}
	default:
		return []rdf.Term{rdf.NewLiteral(s.Str)}
	}
}
