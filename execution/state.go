// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package execution

import (
	"sync"

	"golang.org/x/crypto/sha3"
)

// stateStore is a minimal per-sender state accumulator. Each executed
// transaction folds its input into the sender's state value.
type stateStore struct {
	mtx    sync.Mutex
	states map[string][]byte
}

func newStateStore() *stateStore {
	return &stateStore{
		states: make(map[string][]byte),
	}
}

// apply folds input into the sender's state and returns the new value
func (ss *stateStore) apply(sender, input []byte) []byte {
	ss.mtx.Lock()
	defer ss.mtx.Unlock()

	h := sha3.New256()
	h.Write(ss.states[string(sender)])
	h.Write(input)
	val := h.Sum(nil)
	ss.states[string(sender)] = val
	return val
}

func (ss *stateStore) get(sender []byte) []byte {
	ss.mtx.Lock()
	defer ss.mtx.Unlock()
	return ss.states[string(sender)]
}
