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

package serialize

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kitelev/exocortex-triplestore/rdf"
)

func TestWriteNTriplesOneLinePerTripleWithTrailingNewline(t *testing.T) {
	triples := []rdf.Triple{
		rdf.NewTriple(rdf.NewIRI("ex:a"), rdf.NewIRI("ex:p"), rdf.NewIRI("ex:b")),
		rdf.NewTriple(rdf.NewIRI("ex:a"), rdf.NewIRI("ex:q"), rdf.NewLiteral("hi")),
	}
	var buf bytes.Buffer
	require.NoError(t, WriteNTriples(&buf, triples))

	want := "<ex:a> <ex:p> <ex:b> .\n<ex:a> <ex:q> \"hi\" .\n"
	require.Equal(t, want, buf.String())
}

func TestWriteNTriplesEmptySetWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteNTriples(&buf, nil))
	require.Empty(t, buf.String())
}

func TestWriteTripleStreamDrainsAndClosesIter(t *testing.T) {
	triples := []rdf.Triple{
		rdf.NewTriple(rdf.NewIRI("ex:a"), rdf.NewIRI("ex:p"), rdf.NewIRI("ex:b")),
	}
	iter := &fakeTripleIter{triples: triples}
	var buf bytes.Buffer
	require.NoError(t, WriteTripleStream(rdf.NewEmptyContext(), &buf, iter))
	require.Equal(t, "<ex:a> <ex:p> <ex:b> .\n", buf.String())
	require.True(t, iter.closed)
}

type fakeTripleIter struct {
	triples []rdf.Triple
	pos     int
	closed  bool
}

func (f *fakeTripleIter) Next(ctx *rdf.Context) (rdf.Triple, error) {
	if f.pos >= len(f.triples) {
		return rdf.Triple{}, io.EOF
	}
	t := f.triples[f.pos]
	f.pos++
	return t, nil
}

func (f *fakeTripleIter) Close(ctx *rdf.Context) error {
	f.closed = true
	return nil
}
