// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package execution

import (
	"context"
	"time"

	"github.com/soteria-bft/soteria/core"
	"github.com/soteria-bft/soteria/finality"
	"github.com/soteria-bft/soteria/logger"
)

// Storage persists executed transaction effects
type Storage interface {
	PutTxCommit(txc *core.TxCommit) error
	GetTxCommit(hash []byte) (*core.TxCommit, error)
	HasTxCommit(hash []byte) bool
}

// Execution runs finalized transactions and notifies waiters as soon
// as effects are available
type Execution struct {
	storage Storage
	state   *stateStore

	notifier *finality.Notifier
}

var _ finality.ExecutionNotifier = (*Execution)(nil)

// New creates a new Execution
func New(storage Storage) *Execution {
	return &Execution{
		storage:  storage,
		state:    newStateStore(),
		notifier: finality.NewNotifier(),
	}
}

// Execute runs a finalized transaction at the given position and
// persists its effects. Re-executing an already executed transaction
// is a no-op returning the stored effects.
func (exec *Execution) Execute(tx *core.Transaction, pos core.Position) *core.TxCommit {
	if txc := exec.GetEffects(tx.Hash); txc != nil {
		return txc
	}
	start := time.Now()
	txc := core.NewTxCommit().
		SetHash(tx.Hash).
		SetPosition(pos)
	if err := tx.Validate(); err != nil {
		txc.SetError(err.Error())
	} else {
		txc.SetOutput(exec.state.apply(tx.Sender, tx.Input))
	}
	txc.SetElapsed(time.Since(start).Seconds()).SumEffects()

	if err := exec.storage.PutTxCommit(txc); err != nil {
		logger.I().Fatalw("store tx commit failed", "error", err)
	}
	exec.notifier.Notify(string(tx.Hash))
	return txc
}

// GetEffects returns stored effects, or nil if not yet executed
func (exec *Execution) GetEffects(hash []byte) *core.TxCommit {
	if !exec.storage.HasTxCommit(hash) {
		return nil
	}
	txc, err := exec.storage.GetTxCommit(hash)
	if err != nil {
		logger.I().Errorw("load tx commit failed", "error", err)
		return nil
	}
	return txc
}

// WaitForEffects blocks until the transaction has locally executed
// effects. It resolves immediately for transactions executed before
// the call.
func (exec *Execution) WaitForEffects(ctx context.Context, hash []byte) (*core.TxCommit, error) {
	// register first so an execution between the storage check and the
	// registration cannot be missed
	w := exec.notifier.Register(string(hash))
	defer w.Cancel()

	if txc := exec.GetEffects(hash); txc != nil {
		return txc, nil
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-w.Done():
		return exec.GetEffects(hash), nil
	}
}

// StateOf returns the current state value of a sender
func (exec *Execution) StateOf(sender []byte) []byte {
	return exec.state.get(sender)
}
