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

// Package serialize writes triples out in N-Triples form, the minimal
// serialization the store depends on internally (spec.md §6). A full
// Turtle or JSON-LD emitter is out of scope; those remain external
// collaborators.
package serialize

import (
	"bufio"
	"io"

	"github.com/kitelev/exocortex-triplestore/rdf"
)

// WriteNTriples writes one line per triple, "subject predicate object .",
// using Term.String's canonical form, followed by a trailing newline
// after the last line. It flushes before returning.
func WriteNTriples(w io.Writer, triples []rdf.Triple) error {
	bw := bufio.NewWriter(w)
	for _, t := range triples {
		if _, err := bw.WriteString(t.String()); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteTripleStream drains iter, writing each triple as it arrives
// rather than materializing the whole set first, for callers holding
// a TripleIter. The demo CLI's CONSTRUCT/DESCRIBE output uses
// WriteNTriples instead.
func WriteTripleStream(ctx *rdf.Context, w io.Writer, iter rdf.TripleIter) error {
	bw := bufio.NewWriter(w)
	defer iter.Close(ctx)
	for {
		t, err := iter.Next(ctx)
		if err == io.EOF {
			return bw.Flush()
		}
		if err != nil {
			return err
		}
		if _, err := bw.WriteString(t.String()); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
}
