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

package rdf

import (
	"context"
	"io"
)

// MappingIter is a pull-based stream of solution mappings, the sole
// cooperative yield point inside query execution (spec.md §5). Next
// returns io.EOF when exhausted. Close releases any materialised
// buffers (OrderBy/Distinct/hash-join build sides) and must be called
// exactly once regardless of whether the stream was drained.
type MappingIter interface {
	Next(ctx *Context) (SolutionMapping, error)
	Close(ctx *Context) error
}

// TripleIter is the analogous stream for CONSTRUCT, which produces
// triples instead of mappings.
type TripleIter interface {
	Next(ctx *Context) (Triple, error)
	Close(ctx *Context) error
}

// DrainMappings exhausts iter into a slice, for SELECT, CONSTRUCT and
// DESCRIBE evaluation and for tests. Before each pull it returns
// ErrQueryTimeout if ctx's deadline has passed. It always closes iter.
func DrainMappings(ctx *Context, iter MappingIter) ([]SolutionMapping, error) {
	defer iter.Close(ctx)
	var out []SolutionMapping
	for {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrQueryTimeout.New()
		}
		m, err := iter.Next(ctx)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
}

// sliceMappingIter adapts a pre-materialised slice to MappingIter, used
// for property-path rows, which are computed in full before being
// emitted, and for the empty stream.
type sliceMappingIter struct {
	rows []SolutionMapping
	pos  int
}

// NewSliceMappingIter returns a MappingIter over a fixed slice.
func NewSliceMappingIter(rows []SolutionMapping) MappingIter {
	return &sliceMappingIter{rows: rows}
}

func (s *sliceMappingIter) Next(ctx *Context) (SolutionMapping, error) {
	if s.pos >= len(s.rows) {
		return SolutionMapping{}, io.EOF
	}
	m := s.rows[s.pos]
	s.pos++
	return m, nil
}

func (s *sliceMappingIter) Close(ctx *Context) error { return nil }

// EmptyMappingIter returns a MappingIter that yields nothing.
func EmptyMappingIter() MappingIter { return NewSliceMappingIter(nil) }
