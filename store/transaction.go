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

package store

import (
	"github.com/kitelev/exocortex-triplestore/rdf"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
)

// txOp is one staged operation in a transaction's delta.
type txOp struct {
	remove bool
	triple rdf.Triple
}

// memTransaction stages add/remove calls against an IndexedStore and
// applies them atomically on Commit. It is not reusable after Commit
// or Rollback.
type memTransaction struct {
	id    string
	store *IndexedStore
	ops   []txOp
	done  bool
}

func newTransaction(s *IndexedStore) *memTransaction {
	id := uuid.NewV4().String()
	logrus.WithField("tx", id).Debug("transaction started")
	return &memTransaction{id: id, store: s}
}

// Add stages an insert; it has no effect on the store until Commit.
func (tx *memTransaction) Add(t rdf.Triple) {
	tx.ops = append(tx.ops, txOp{triple: t})
}

// Remove stages a delete; it has no effect on the store until Commit.
func (tx *memTransaction) Remove(t rdf.Triple) {
	tx.ops = append(tx.ops, txOp{remove: true, triple: t})
}

// Commit applies the staged delta atomically. Committing after a
// Commit or a Rollback returns rdf.ErrTransactionFailed and leaves the
// store unchanged (spec.md §7); a second Rollback is a no-op.
func (tx *memTransaction) Commit() error {
	if tx.done {
		return rdf.ErrTransactionFailed.New(tx.id, "already finalized")
	}
	tx.done = true

	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	for _, op := range tx.ops {
		if op.remove {
			tx.store.removeLocked(op.triple)
		} else {
			tx.store.addLocked(op.triple)
		}
	}
	logrus.WithField("tx", tx.id).WithField("ops", len(tx.ops)).Debug("transaction committed")
	return nil
}

// Rollback discards the staged delta; the store is left untouched.
func (tx *memTransaction) Rollback() {
	if tx.done {
		return
	}
	tx.done = true
	tx.ops = nil
	logrus.WithField("tx", tx.id).Debug("transaction rolled back")
}
