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

// This is an example of how to query a vault of Markdown notes with
// SPARQL. After running the example, you may point it at any
// directory of notes with YAML frontmatter:
//
// > exoquery ./my-vault 'SELECT ?n ?age WHERE { ?n <exocortex:prop/age> ?age }'
// age	n
// 30	exocortex:note/alice
// 25	exocortex:note/bob
//
// Columns are tab-separated and follow the first row's variables in
// sorted order, not the SELECT order.
//
// All real logic — parsing, planning, optimizing, executing — lives in
// the library packages (rdf/parse, rdf/plan, rdf/analyzer, rdf/rowexec,
// vault); this file only wires argv to exocortex.Engine and prints
// whatever comes back.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/kitelev/exocortex-triplestore/exocortex"
	"github.com/kitelev/exocortex-triplestore/rdf"
	"github.com/kitelev/exocortex-triplestore/rdf/parse"
	"github.com/kitelev/exocortex-triplestore/rdf/serialize"
	"github.com/kitelev/exocortex-triplestore/vault"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "usage: %s <vault-dir> <sparql-query>\n", os.Args[0])
		os.Exit(1)
	}
	vaultDir, query := os.Args[1], os.Args[2]

	src := vault.NewDirSource(vaultDir, vault.OSFileSystem{})
	engine := exocortex.NewEngine(src, exocortex.Config{})
	if err := engine.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "indexing %s: %v\n", vaultDir, err)
		os.Exit(1)
	}

	ctx := rdf.NewEmptyContext()
	if err := run(ctx, engine, query); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// run parses just enough of query to pick the right Engine method,
// then hands the same query text to the engine, which parses it again
// in full. The duplicate parse is cheap and keeps this file from
// reaching into rdf/parse's AST beyond the one field (Form) needed to
// decide how to print the result.
func run(ctx *rdf.Context, engine *exocortex.Engine, query string) error {
	q, err := parse.Parse(query)
	if err != nil {
		return fmt.Errorf("parsing query: %w", err)
	}

	switch q.Form {
	case parse.FormAsk:
		ok, err := engine.Ask(ctx, query)
		if err != nil {
			return err
		}
		fmt.Println(ok)
		return nil

	case parse.FormConstruct:
		triples, err := engine.Construct(ctx, query)
		if err != nil {
			return err
		}
		return serialize.WriteNTriples(os.Stdout, triples)

	case parse.FormDescribe:
		triples, err := engine.Describe(ctx, query)
		if err != nil {
			return err
		}
		return serialize.WriteNTriples(os.Stdout, triples)

	default:
		rows, err := engine.Query(ctx, query)
		if err != nil {
			return err
		}
		printRows(rows)
		return nil
	}
}

// printRows prints one header line of variable names, tab-separated,
// followed by one line per solution mapping; unbound variables print
// as an empty cell.
func printRows(rows []rdf.SolutionMapping) {
	if len(rows) == 0 {
		return
	}
	vars := rows[0].Vars()
	for _, m := range rows[1:] {
		for _, v := range m.Vars() {
			if !containsVar(vars, v) {
				vars = append(vars, v)
			}
		}
	}

	fmt.Println(strings.Join(vars, "\t"))
	for _, m := range rows {
		cells := make([]string, len(vars))
		for i, v := range vars {
			if t, ok := m.Get(v); ok {
				cells[i] = t.Value()
			}
		}
		fmt.Println(strings.Join(cells, "\t"))
	}
}

func containsVar(vars []string, v string) bool {
	for _, existing := range vars {
		if existing == v {
			return true
		}
	}
	return false
}
