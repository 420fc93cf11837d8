// Copyright (c) 2025 The Avalon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fees

import (
	"errors"

	"github.com/avalonsuite/avalond/database/engine"
)

// fakeEngine is an in-memory storage engine with switchable fault
// injection, used to exercise the estimator's error paths.
type fakeEngine struct {
	records    map[string][]byte
	failCommit bool
	getErr     error
}

var _ engine.Engine = (*fakeEngine)(nil)

func newFakeEngine() *fakeEngine {
	return &fakeEngine{records: make(map[string][]byte)}
}

func (e *fakeEngine) Transaction() (engine.Transaction, error) {
	return &fakeTx{db: e, pending: make(map[string][]byte)}, nil
}

func (e *fakeEngine) Snapshot() (engine.Snapshot, error) {
	return &fakeSnapshot{db: e}, nil
}

func (e *fakeEngine) Close() error { return nil }

type fakeTx struct {
	db      *fakeEngine
	pending map[string][]byte
	deletes []string
}

func (t *fakeTx) Put(key, value []byte) error {
	t.pending[string(key)] = append([]byte(nil), value...)
	return nil
}

func (t *fakeTx) Delete(key []byte) error {
	t.deletes = append(t.deletes, string(key))
	return nil
}

func (t *fakeTx) Commit() error {
	if t.db.failCommit {
		return errors.New("fakeEngine: commit failed")
	}
	for k, v := range t.pending {
		t.db.records[k] = v
	}
	for _, k := range t.deletes {
		delete(t.db.records, k)
	}
	return nil
}

func (t *fakeTx) Discard() {}

type fakeSnapshot struct {
	db *fakeEngine
}

func (s *fakeSnapshot) Get(key []byte) ([]byte, error) {
	if s.db.getErr != nil {
		return nil, s.db.getErr
	}
	value, ok := s.db.records[string(key)]
	if !ok {
		return nil, engine.ErrKeyNotFound
	}
	return append([]byte(nil), value...), nil
}

func (s *fakeSnapshot) Has(key []byte) (bool, error) {
	if s.db.getErr != nil {
		return false, s.db.getErr
	}
	_, ok := s.db.records[string(key)]
	return ok, nil
}

func (s *fakeSnapshot) NewIterator(*engine.Range) engine.Iterator { return nil }

func (s *fakeSnapshot) Release() {}
