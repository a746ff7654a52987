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
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ListNotes walks the source directory and returns every Markdown
// note's path relative to the root, in lexical order.
func (d *DirSource) ListNotes() ([]string, error) {
	var paths []string
	err := d.fs.Walk(d.root, func(path string, isDir bool) error {
		if isDir || !strings.HasSuffix(path, ".md") {
			return nil
		}
		rel, err := filepath.Rel(d.root, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	return paths, err
}

// ReadNote reads one note's content relative to the source root.
func (d *DirSource) ReadNote(path string) (RawNote, error) {
	f, err := d.fs.Open(filepath.Join(d.root, filepath.FromSlash(path)))
	if err != nil {
		return RawNote{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return RawNote{}, err
	}
	return RawNote{Path: path, Content: string(data)}, nil
}

// OSFileSystem is the FileSystem backed by the real local disk.
type OSFileSystem struct{}

// Walk implements FileSystem over os/filepath.
func (OSFileSystem) Walk(root string, fn func(path string, isDir bool) error) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		return fn(path, info.IsDir())
	})
}

// Open implements FileSystem via os.Open.
func (OSFileSystem) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}
