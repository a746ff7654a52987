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

package vault_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kitelev/exocortex-triplestore/rdf"
	"github.com/kitelev/exocortex-triplestore/store"
	"github.com/kitelev/exocortex-triplestore/vault"
)

// fakeSource is an in-memory vault.Source for tests.
type fakeSource struct {
	notes map[string]string
}

func (f *fakeSource) ListNotes() ([]string, error) {
	var out []string
	for p := range f.notes {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeSource) ReadNote(path string) (vault.RawNote, error) {
	content, ok := f.notes[path]
	if !ok {
		return vault.RawNote{}, fmt.Errorf("no such note: %s", path)
	}
	return vault.RawNote{Path: path, Content: content}, nil
}

const meetingNote = `---
class: "[[ems__Class]]"
label: Weekly Sync
tags:
  - "[[exo__Asset]]"
  - "[[ems__Effort]]"
---
Discussed with [[Task1]] and [[Task1]] again.
`

func TestInitializeProjectsFrontmatterAndBodyLinks(t *testing.T) {
	require := require.New(t)
	src := &fakeSource{notes: map[string]string{"Meeting.md": meetingNote}}
	s := store.New()
	ix := vault.NewIndexer(src, s)

	require.NoError(ix.Initialize())

	subject := vault.IRIForPath("Meeting.md")
	all := s.Match(&subject, nil, nil)
	require.NotEmpty(all)

	labelPred := vault.IRIForFrontmatterKey("label")
	labels := s.Match(&subject, &labelPred, nil)
	require.Len(labels, 1)
	require.Equal("Weekly Sync", labels[0].Object.Value())

	classPred := vault.IRIForFrontmatterKey("class")
	classes := s.Match(&subject, &classPred, nil)
	require.Len(classes, 1)
	require.True(classes[0].Object.IsIRI())
	require.Equal(vault.IRIForNoteName("ems__Class"), classes[0].Object)

	tagsPred := vault.IRIForFrontmatterKey("tags")
	tags := s.Match(&subject, &tagsPred, nil)
	require.Len(tags, 2, "array frontmatter expands to one triple per element")

	bodyPred := rdf.NewIRI(vault.BodyLinkPredicate)
	links := s.Match(&subject, &bodyPred, nil)
	require.Len(links, 1, "duplicate body links project to one triple per distinct target")
	require.Equal(vault.IRIForNoteName("Task1"), links[0].Object)
}

func TestUpdateFileReplacesOldTriples(t *testing.T) {
	require := require.New(t)
	notes := map[string]string{"Meeting.md": meetingNote}
	src := &fakeSource{notes: notes}
	s := store.New()
	ix := vault.NewIndexer(src, s)
	require.NoError(ix.Initialize())

	notes["Meeting.md"] = "---\nlabel: Renamed\n---\nNo links here.\n"
	require.NoError(ix.UpdateFile("Meeting.md"))

	subject := vault.IRIForPath("Meeting.md")
	labelPred := vault.IRIForFrontmatterKey("label")
	labels := s.Match(&subject, &labelPred, nil)
	require.Len(labels, 1)
	require.Equal("Renamed", labels[0].Object.Value())

	classPred := vault.IRIForFrontmatterKey("class")
	require.Empty(s.Match(&subject, &classPred, nil), "stale frontmatter triples must not survive an update")
}

func TestRefreshClearsPriorState(t *testing.T) {
	require := require.New(t)
	src := &fakeSource{notes: map[string]string{"Meeting.md": meetingNote}}
	s := store.New()
	ix := vault.NewIndexer(src, s)
	require.NoError(ix.Initialize())
	require.NotZero(s.Count())

	src.notes = map[string]string{}
	require.NoError(ix.Refresh())
	require.Equal(0, s.Count())
}

func TestMalformedNoteIsSkippedNotFatal(t *testing.T) {
	require := require.New(t)
	src := &fakeSource{notes: map[string]string{
		"Good.md": "---\nlabel: fine\n---\nbody\n",
		"Bad.md":  "---\nlabel: [unterminated\n---\nbody\n",
	}}
	s := store.New()
	ix := vault.NewIndexer(src, s)

	require.NoError(ix.Initialize())

	goodSubject := vault.IRIForPath("Good.md")
	require.NotEmpty(s.Match(&goodSubject, nil, nil))

	badSubject := vault.IRIForPath("Bad.md")
	require.Empty(s.Match(&badSubject, nil, nil))
}
