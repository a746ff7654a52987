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
	"regexp"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/kitelev/exocortex-triplestore/rdf"
)

var frontmatterBlock = regexp.MustCompile(`(?s)\A---\r?\n(.*?)\r?\n---\r?\n?`)

// splitFrontmatter separates a note's leading "---\n...\n---" YAML
// block from its Markdown body. A note without a frontmatter block
// returns an empty map and the full content as body.
func splitFrontmatter(content string) (map[string]interface{}, string, error) {
	loc := frontmatterBlock.FindStringSubmatchIndex(content)
	if loc == nil {
		return map[string]interface{}{}, content, nil
	}

	yamlBlock := content[loc[2]:loc[3]]
	body := content[loc[1]:]

	var fm map[string]interface{}
	if err := yaml.Unmarshal([]byte(yamlBlock), &fm); err != nil {
		return nil, "", err
	}
	if fm == nil {
		fm = map[string]interface{}{}
	}
	return fm, body, nil
}

// bodyLinkPattern matches Markdown body wiki-links: [[Target]] or
// [[Target|Alias]].
var bodyLinkPattern = regexp.MustCompile(`\[\[([^\]|]+)(?:\|[^\]]*)?\]\]`)

// bodyLinks returns the distinct wiki-link targets found in body, in
// first-occurrence order.
func bodyLinks(body string) []string {
	matches := bodyLinkPattern.FindAllStringSubmatch(body, -1)
	seen := map[string]struct{}{}
	var out []string
	for _, m := range matches {
		target := strings.TrimSpace(m[1])
		if target == "" {
			continue
		}
		if _, ok := seen[target]; ok {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	return out
}

// BodyLinkPredicate is the fixed predicate IRI used for triples
// projected from Markdown body wiki-links (spec.md §4.C).
const BodyLinkPredicate = "exocortex:bodyLink"

// IRIForPath derives a note's subject IRI from its vault-relative path.
// The mapping is stable and reversible: PathFromIRI inverts it.
func IRIForPath(path string) rdf.Term {
	return rdf.NewIRI("exocortex:note/" + strings.TrimSuffix(path, ".md"))
}

// PathFromIRI inverts IRIForPath, returning ("", false) for IRIs it did
// not produce.
func PathFromIRI(iri rdf.Term) (string, bool) {
	const prefix = "exocortex:note/"
	if !iri.IsIRI() || !strings.HasPrefix(iri.Value(), prefix) {
		return "", false
	}
	return strings.TrimPrefix(iri.Value(), prefix) + ".md", true
}

// IRIForFrontmatterKey derives the predicate IRI for a frontmatter key.
func IRIForFrontmatterKey(key string) rdf.Term {
	return rdf.NewIRI("exocortex:prop/" + key)
}

// IRIForNoteName resolves a wiki-link target (a note's display name,
// not necessarily its full path) to that note's subject IRI. Targets
// that don't carry a path separator are assumed to live at the vault
// root, matching how a host editor's wiki-link resolver treats a bare
// note name.
func IRIForNoteName(name string) rdf.Term {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".md")
	return IRIForPath(name + ".md")
}
