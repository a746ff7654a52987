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

package store_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kitelev/exocortex-triplestore/rdf"
	"github.com/kitelev/exocortex-triplestore/store"
)

func meetingTriple() rdf.Triple {
	return rdf.NewTriple(
		rdf.NewIRI("exo:Meeting"),
		rdf.NewIRI("rdf:type"),
		rdf.NewIRI("ems:Class"),
	)
}

func TestAddIsIdempotent(t *testing.T) {
	require := require.New(t)
	s := store.New()
	tr := meetingTriple()

	require.NoError(s.Add(tr))
	require.NoError(s.Add(tr))

	require.Equal(1, s.Count())
	require.True(s.Has(tr))
}

func TestRemoveCompleteness(t *testing.T) {
	require := require.New(t)
	s := store.New()
	tr := meetingTriple()
	require.NoError(s.Add(tr))

	require.True(s.Remove(tr))
	require.False(s.Has(tr))
	require.Empty(s.Match(nil, nil, nil))

	require.False(s.Remove(tr), "second remove must report false")
}

func TestMatchIndexCoherence(t *testing.T) {
	require := require.New(t)
	s := store.New()
	tr := meetingTriple()
	require.NoError(s.Add(tr))

	subj, pred, obj := tr.Subject, tr.Predicate, tr.Object

	bySubj := s.Match(&subj, nil, nil)
	byPred := s.Match(nil, &pred, nil)
	byObj := s.Match(nil, nil, &obj)
	full := s.Match(&subj, &pred, &obj)

	require.Len(bySubj, 1)
	require.Len(byPred, 1)
	require.Len(byObj, 1)
	require.Len(full, 1)
	require.True(full[0].Equal(tr))
}

func TestMatchReturnsOnlyBoundMatches(t *testing.T) {
	require := require.New(t)
	s := store.New()

	meeting := meetingTriple()
	other := rdf.NewTriple(
		rdf.NewIRI("exo:Task1"),
		rdf.NewIRI("rdf:type"),
		rdf.NewIRI("ems:Task"),
	)
	require.NoError(s.AddAll([]rdf.Triple{meeting, other}))

	typ := rdf.NewIRI("rdf:type")
	all := s.Match(nil, &typ, nil)
	require.Len(all, 2)

	cls := rdf.NewIRI("ems:Class")
	onlyMeeting := s.Match(nil, nil, &cls)
	require.Len(onlyMeeting, 1)
	require.True(onlyMeeting[0].Equal(meeting))
}

func TestTransactionAtomicCommit(t *testing.T) {
	require := require.New(t)
	s := store.New()
	tr := meetingTriple()

	tx := s.BeginTransaction()
	tx.Add(tr)
	require.False(s.Has(tr), "staged add must not be visible before commit")

	require.NoError(tx.Commit())
	require.True(s.Has(tr))

	require.Error(tx.Commit(), "committing twice must fail")
}

func TestTransactionRollbackLeavesStoreUntouched(t *testing.T) {
	require := require.New(t)
	s := store.New()
	tr := meetingTriple()

	tx := s.BeginTransaction()
	tx.Add(tr)
	tx.Rollback()

	require.False(s.Has(tr))
	require.Equal(0, s.Count())
}

func TestClearEmptiesStore(t *testing.T) {
	require := require.New(t)
	s := store.New()
	require.NoError(s.AddAll([]rdf.Triple{meetingTriple()}))
	s.Clear()
	require.Equal(0, s.Count())
	require.Empty(s.Subjects())
}

func TestRemoveAllReturnsCount(t *testing.T) {
	require := require.New(t)
	s := store.New()
	a := meetingTriple()
	b := rdf.NewTriple(rdf.NewIRI("exo:Task1"), rdf.NewIRI("rdf:type"), rdf.NewIRI("ems:Task"))
	require.NoError(s.AddAll([]rdf.Triple{a, b}))

	n := s.RemoveAll([]rdf.Triple{a, b, a})
	require.Equal(2, n)
	require.Equal(0, s.Count())
}
