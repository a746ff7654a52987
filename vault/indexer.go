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
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/kitelev/exocortex-triplestore/rdf"
	"github.com/kitelev/exocortex-triplestore/store"
)

// Indexer projects a Source's notes into a store.Store and keeps them
// in sync with file events (spec.md §4.C). It is the store's sole
// writer, per the concurrency model in spec.md §5.
type Indexer struct {
	source Source
	store  store.Store
	log    *logrus.Entry
}

// NewIndexer returns an Indexer writing into store from source.
func NewIndexer(source Source, s store.Store) *Indexer {
	return &Indexer{source: source, store: s, log: logrus.WithField("component", "vault.Indexer")}
}

// Store exposes the underlying store, per the Indexer interface in
// spec.md §6.
func (ix *Indexer) Store() store.Store { return ix.store }

// Initialize scans every note and populates the store. A single
// malformed note is logged and skipped; the rest of the index still
// builds (spec.md §4.C failure semantics).
func (ix *Indexer) Initialize() error {
	paths, err := ix.source.ListNotes()
	if err != nil {
		return errors.Wrap(err, "listing notes")
	}
	for _, p := range paths {
		if err := ix.indexOne(p); err != nil {
			ix.log.WithField("note", p).WithError(err).Warn("skipping malformed note")
		}
	}
	return nil
}

// Refresh is equivalent to clear-and-reindex.
func (ix *Indexer) Refresh() error {
	ix.store.Clear()
	return ix.Initialize()
}

// UpdateFile removes all triples whose subject is path's note IRI,
// then reprojects and re-adds them. Triples are staged in a
// transaction so a failure partway through never leaves the note's
// triples partially present (spec.md §4.C: "triples for that note are
// not partially present").
func (ix *Indexer) UpdateFile(path string) error {
	subject := IRIForPath(path)
	existing := ix.store.Match(&subject, nil, nil)

	triples, err := ix.projectNote(path)
	if err != nil {
		ix.log.WithField("note", path).WithError(err).Warn("skipping malformed note")
		return err
	}

	tx := ix.store.BeginTransaction()
	for _, t := range existing {
		tx.Remove(t)
	}
	for _, t := range triples {
		tx.Add(t)
	}
	return tx.Commit()
}

// Dispose detaches the indexer from file events. It never mutates the
// store (spec.md §4.C).
func (ix *Indexer) Dispose() {
	ix.log.Debug("indexer disposed")
}

func (ix *Indexer) indexOne(path string) error {
	triples, err := ix.projectNote(path)
	if err != nil {
		return err
	}
	return ix.store.AddAll(triples)
}

// projectNote reads and converts a single note into its triples,
// without touching the store, per spec.md §4.C's projection rules:
//   - one subject IRI per note
//   - one triple per scalar frontmatter key, wiki-links resolved,
//     arrays expanded to one triple per element
//   - one triple per distinct Markdown body wiki-link
func (ix *Indexer) projectNote(path string) ([]rdf.Triple, error) {
	raw, err := ix.source.ReadNote(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading note %s", path)
	}

	frontmatter, body, err := splitFrontmatter(raw.Content)
	if err != nil {
		return nil, rdf.ErrMalformedFrontmatter.New(path, err.Error())
	}

	subject := IRIForPath(path)
	var triples []rdf.Triple

	for key, raw := range frontmatter {
		predicate := IRIForFrontmatterKey(key)
		for _, obj := range ToScalar(raw).Terms(IRIForNoteName) {
			triples = append(triples, rdf.NewTriple(subject, predicate, obj))
		}
	}

	bodyLinkPredicate := rdf.NewIRI(BodyLinkPredicate)
	for _, target := range bodyLinks(body) {
		triples = append(triples, rdf.NewTriple(subject, bodyLinkPredicate, IRIForNoteName(target)))
	}

	return triples, nil
}
