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

package exocortex

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kitelev/exocortex-triplestore/rdf"
	"github.com/kitelev/exocortex-triplestore/vault"
)

// memSource is a fixed set of in-memory notes, for tests only.
type memSource struct {
	notes map[string]string
}

func (s *memSource) ListNotes() ([]string, error) {
	var out []string
	for p := range s.notes {
		out = append(out, p)
	}
	return out, nil
}

func (s *memSource) ReadNote(path string) (vault.RawNote, error) {
	content, ok := s.notes[path]
	if !ok {
		return vault.RawNote{}, fmt.Errorf("no such note: %s", path)
	}
	return vault.RawNote{Path: path, Content: content}, nil
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	src := &memSource{notes: map[string]string{
		"alice.md": "---\nknows: \"[[bob]]\"\nage: 30\n---\nSee also [[bob]].\n",
		"bob.md":   "---\nage: 25\n---\n",
	}}
	e := NewEngine(src, Config{})
	require.NoError(t, e.Initialize())
	return e
}

func TestEngineQuerySelect(t *testing.T) {
	e := newTestEngine(t)
	rows, err := e.Query(rdf.NewEmptyContext(), `SELECT ?age WHERE { ?n <exocortex:prop/age> ?age } ORDER BY ?age`)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	first, ok := rows[0].Get("age")
	require.True(t, ok)
	require.Equal(t, "25", first.Value())
}

func TestEngineAsk(t *testing.T) {
	e := newTestEngine(t)
	ok, err := e.Ask(rdf.NewEmptyContext(), `ASK { ?n <exocortex:prop/age> ?age . FILTER(?age > 100) }`)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = e.Ask(rdf.NewEmptyContext(), `ASK { ?n <exocortex:prop/age> ?age . FILTER(?age > 20) }`)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestEngineRefreshRebuildsIndex(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Refresh())
	rows, err := e.Query(rdf.NewEmptyContext(), `SELECT ?age WHERE { ?n <exocortex:prop/age> ?age }`)
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestEngineConstructRejectsWrongForm(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Construct(rdf.NewEmptyContext(), `SELECT ?n WHERE { ?n <exocortex:prop/age> ?age }`)
	require.Error(t, err)
}
