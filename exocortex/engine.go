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

// Package exocortex is the query service façade spec.md §6 describes:
// initialize, query, refresh, updateFile, dispose, wired over
// rdf/parse -> rdf/plan -> rdf/analyzer -> rdf/rowexec and the vault
// indexer. It is the one package every external caller (a host editor
// plugin, the demo CLI) imports.
package exocortex

import (
	"fmt"
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"github.com/kitelev/exocortex-triplestore/rdf"
	"github.com/kitelev/exocortex-triplestore/rdf/analyzer"
	"github.com/kitelev/exocortex-triplestore/rdf/parse"
	"github.com/kitelev/exocortex-triplestore/rdf/plan"
	"github.com/kitelev/exocortex-triplestore/rdf/rowexec"
	"github.com/kitelev/exocortex-triplestore/store"
	"github.com/kitelev/exocortex-triplestore/vault"
)

// Config controls how an Engine is constructed.
type Config struct {
	// Tracer receives a span for every query() call, mirroring how the
	// teacher instruments query execution through sql.Context. Defaults
	// to opentracing.NoopTracer{} when nil.
	Tracer opentracing.Tracer
}

// Engine is the query service façade. It owns the store and the
// indexer writing into it; every query call reads a consistent
// snapshot of whatever the indexer has projected so far (spec.md §5).
type Engine struct {
	store   store.Store
	indexer *vault.Indexer
	tracer  opentracing.Tracer
	log     *logrus.Entry
}

// NewEngine builds an Engine backed by a fresh in-memory store and an
// indexer over source. Call Initialize before issuing queries.
func NewEngine(source vault.Source, cfg Config) *Engine {
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = opentracing.NoopTracer{}
	}
	s := store.New()
	return &Engine{
		store:   s,
		indexer: vault.NewIndexer(source, s),
		tracer:  tracer,
		log:     logrus.WithField("component", "exocortex.Engine"),
	}
}

// Initialize populates the store from every note in the vault.
func (e *Engine) Initialize() error {
	span := e.tracer.StartSpan("exocortex.initialize")
	defer span.Finish()
	return e.indexer.Initialize()
}

// Refresh clears and rebuilds the entire index.
func (e *Engine) Refresh() error {
	span := e.tracer.StartSpan("exocortex.refresh")
	defer span.Finish()
	return e.indexer.Refresh()
}

// UpdateFile reprojects a single note's triples.
func (e *Engine) UpdateFile(path string) error {
	span := e.tracer.StartSpan("exocortex.updateFile")
	span.SetTag("note", path)
	defer span.Finish()
	return e.indexer.UpdateFile(path)
}

// Dispose detaches the engine from file events. The store itself has
// no teardown: it is just memory that becomes garbage once Engine is.
func (e *Engine) Dispose() {
	e.indexer.Dispose()
}

// compile parses, translates, and optimizes query text, the shared
// first half of every query form.
func (e *Engine) compile(query string) (*parse.Query, plan.Node, error) {
	q, err := parse.Parse(query)
	if err != nil {
		return nil, nil, err
	}
	node, err := plan.Translate(q)
	if err != nil {
		return nil, nil, err
	}
	node, err = analyzer.Optimize(node, e.store)
	if err != nil {
		return nil, nil, err
	}
	return q, node, nil
}

// Query runs a SELECT query and returns its solution mappings.
func (e *Engine) Query(ctx *rdf.Context, query string) ([]rdf.SolutionMapping, error) {
	span := e.tracer.StartSpan("exocortex.query")
	span.SetTag("query", query)
	defer span.Finish()

	_, node, err := e.compile(query)
	if err != nil {
		return nil, err
	}
	iter, err := rowexec.Execute(ctx, node, e.store)
	if err != nil {
		return nil, err
	}
	return rdf.DrainMappings(ctx, iter)
}

// Ask runs an ASK query: true iff the pattern has at least one solution.
func (e *Engine) Ask(ctx *rdf.Context, query string) (bool, error) {
	span := e.tracer.StartSpan("exocortex.ask")
	defer span.Finish()

	_, node, err := e.compile(query)
	if err != nil {
		return false, err
	}
	iter, err := rowexec.Execute(ctx, node, e.store)
	if err != nil {
		return false, err
	}
	defer iter.Close(ctx)
	if _, err := iter.Next(ctx); err == io.EOF {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}

// Construct runs a CONSTRUCT query: every solution mapping instantiates
// the template's triple patterns, and the result is deduplicated
// across all solutions (spec.md §4.D).
func (e *Engine) Construct(ctx *rdf.Context, query string) ([]rdf.Triple, error) {
	span := e.tracer.StartSpan("exocortex.construct")
	defer span.Finish()

	q, node, err := e.compile(query)
	if err != nil {
		return nil, err
	}
	if q.Form != parse.FormConstruct {
		return nil, fmt.Errorf("exocortex: query is not CONSTRUCT")
	}

	iter, err := rowexec.Execute(ctx, node, e.store)
	if err != nil {
		return nil, err
	}
	mappings, err := rdf.DrainMappings(ctx, iter)
	if err != nil {
		return nil, err
	}

	var out []rdf.Triple
	seen := map[rdf.Triple]bool{}
	for _, m := range mappings {
		for _, tp := range q.Construct {
			s, ok := instantiateTerm(tp.Subject, m)
			if !ok {
				continue
			}
			pp, ok := tp.Predicate.(parse.PredicatePath)
			if !ok {
				continue // CONSTRUCT templates never use property paths
			}
			p, ok := instantiateTerm(pp.Term, m)
			if !ok {
				continue
			}
			o, ok := instantiateTerm(tp.Object, m)
			if !ok {
				continue
			}
			t := rdf.NewTriple(s, p, o)
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out, nil
}

// Describe runs a DESCRIBE query: collects every triple whose subject
// is one of the query's explicit IRIs, or — for a variable — every
// distinct binding that variable takes across the WHERE pattern's
// solutions (spec.md §4.D).
func (e *Engine) Describe(ctx *rdf.Context, query string) ([]rdf.Triple, error) {
	span := e.tracer.StartSpan("exocortex.describe")
	defer span.Finish()

	q, node, err := e.compile(query)
	if err != nil {
		return nil, err
	}
	if q.Form != parse.FormDescribe {
		return nil, fmt.Errorf("exocortex: query is not DESCRIBE")
	}

	var subjects []rdf.Term
	seenSubject := map[rdf.Term]bool{}
	for _, t := range q.Describe {
		if t.Kind != parse.TermVar {
			if !seenSubject[t.Value] {
				seenSubject[t.Value] = true
				subjects = append(subjects, t.Value)
			}
			continue
		}
		iter, err := rowexec.Execute(ctx, node, e.store)
		if err != nil {
			return nil, err
		}
		mappings, err := rdf.DrainMappings(ctx, iter)
		if err != nil {
			return nil, err
		}
		for _, m := range mappings {
			if v, ok := m.Get(t.Var); ok && !seenSubject[v] {
				seenSubject[v] = true
				subjects = append(subjects, v)
			}
		}
	}

	var out []rdf.Triple
	seenTriple := map[rdf.Triple]bool{}
	for _, subj := range subjects {
		for _, t := range e.store.Match(&subj, nil, nil) {
			if !seenTriple[t] {
				seenTriple[t] = true
				out = append(out, t)
			}
		}
	}
	return out, nil
}

func instantiateTerm(t parse.Term, m rdf.SolutionMapping) (rdf.Term, bool) {
	if t.Kind == parse.TermVar {
		return m.Get(t.Var)
	}
	return t.Value, true
}
