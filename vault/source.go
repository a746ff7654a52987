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

// Package vault projects a collection of Markdown notes with YAML
// frontmatter into RDF triples and keeps the store in sync with file
// events (spec.md §4.C). The host editor's workspace, file-open
// events, and UI panes are external collaborators; this package only
// depends on the small Source interface below.
package vault

import "io"

// RawNote is a single note as read from disk, before any projection.
type RawNote struct {
	// Path is the note's path relative to the vault root; it is the
	// input to IRIForPath.
	Path string
	// Content is the full file content, frontmatter block included.
	Content string
}

// Source abstracts the host's file system / workspace so the indexer
// never touches disk or editor APIs directly (spec.md §1 "Host-editor
// bindings... are external collaborators").
type Source interface {
	// ListNotes returns every note's path in the vault.
	ListNotes() ([]string, error)
	// ReadNote returns a single note's content.
	ReadNote(path string) (RawNote, error)
}

// DirSource is the simplest Source: a directory of .md files read
// directly from the local file system. It's a convenience
// implementation for the demo CLI and tests; a real host-editor
// integration supplies its own Source.
type DirSource struct {
	root string
	fs   FileSystem
}

// FileSystem is the minimal disk interface DirSource needs, narrow
// enough to fake in tests without a real directory tree.
type FileSystem interface {
	Walk(root string, fn func(path string, isDir bool) error) error
	Open(path string) (io.ReadCloser, error)
}

// NewDirSource returns a Source rooted at root using fs for I/O.
func NewDirSource(root string, fs FileSystem) *DirSource {
	return &DirSource{root: root, fs: fs}
}
