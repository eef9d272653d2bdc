// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package finality

import (
	"context"
	"fmt"

	"github.com/soteria-bft/soteria/core"
)

// ExecutionNotifier is the execution engine collaborator. WaitForEffects
// must resolve for transactions that already executed before the call.
type ExecutionNotifier interface {
	WaitForEffects(ctx context.Context, hash []byte) (*core.TxCommit, error)
	GetEffects(hash []byte) *core.TxCommit
}

// Request asks for the terminal outcome of a submitted transaction at
// its claimed consensus position
type Request struct {
	Hash           []byte        `json:"hash"`
	Position       core.Position `json:"position"`
	IncludeEffects bool          `json:"includeEffects"`
}

// ResultStatus is the terminal outcome kind
type ResultStatus uint8

const (
	ResultExecuted ResultStatus = iota
	ResultRejected
	ResultExpired
)

func (s ResultStatus) String() string {
	switch s {
	case ResultExecuted:
		return "executed"
	case ResultRejected:
		return "rejected"
	}
	return "expired"
}

// Result is the single terminal response of a wait
type Result struct {
	Status        ResultStatus   `json:"status"`
	EffectsDigest []byte         `json:"effectsDigest,omitempty"`
	Commit        *core.TxCommit `json:"commit,omitempty"`
	RejectReason  string         `json:"rejectReason,omitempty"`
	ExpiredRound  uint32         `json:"expiredRound,omitempty"`
	Certified     bool           `json:"certified"` // fastpath observed while waiting
}

// TxWaiter races local execution, the consensus status table and
// position expiry into a single terminal outcome per request. It only
// reads the caches, never mutates them.
type TxWaiter struct {
	epoch       uint64
	posCache    *PositionCache
	statusTable *StatusTable
	execution   ExecutionNotifier
}

// NewTxWaiter creates a TxWaiter scoped to the given epoch
func NewTxWaiter(
	epoch uint64, posCache *PositionCache,
	statusTable *StatusTable, execution ExecutionNotifier,
) *TxWaiter {
	return &TxWaiter{
		epoch:       epoch,
		posCache:    posCache,
		statusTable: statusTable,
		execution:   execution,
	}
}

// WaitForTx blocks until the transaction reaches a binding outcome.
// Timeout is layered through ctx by the transport and surfaces as
// ctx.Err(), not as a typed result.
func (tw *TxWaiter) WaitForTx(ctx context.Context, req Request) (*Result, error) {
	if req.Position.Epoch != tw.epoch {
		return nil, fmt.Errorf("%w: request epoch %d, current epoch %d",
			ErrEpochMismatch, req.Position.Epoch, tw.epoch)
	}
	if err := tw.posCache.CheckTooAhead(req.Position); err != nil {
		return nil, err
	}

	// an executed transaction is authoritative ground truth; it wins
	// over any consensus signal already present at entry
	if txc := tw.execution.GetEffects(req.Hash); txc != nil {
		return tw.executedResult(txc, req.IncludeEffects, false), nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	execCh := make(chan *core.TxCommit, 1)
	go func() {
		if txc, err := tw.execution.WaitForEffects(ctx, req.Hash); err == nil {
			execCh <- txc
		}
	}()

	statusCh := make(chan StatusEntry, 4)
	go func() {
		prev := TxStatusNone
		for {
			entry, err := tw.statusTable.WaitForStatusChange(ctx, req.Hash, prev)
			if err != nil {
				return
			}
			prev = entry.Status
			select {
			case statusCh <- entry:
			case <-ctx.Done():
				return
			}
			if entry.Status == TxStatusRejected {
				return
			}
		}
	}()

	posCh := make(chan WaitResult, 1)
	go func() {
		if res, err := tw.posCache.WaitForBlockFinalized(ctx, req.Position); err == nil {
			posCh <- res
		}
	}()

	certified := false
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case txc := <-execCh:
			return tw.executedResult(txc, req.IncludeEffects, certified), nil

		case entry := <-statusCh:
			switch entry.Status {
			case TxStatusCertified:
				// informational; certification precedes execution but
				// does not replace it
				certified = true
			case TxStatusFinalized:
				// execution is guaranteed to follow, keep waiting
			case TxStatusRejected:
				return &Result{
					Status:       ResultRejected,
					RejectReason: entry.RejectReason,
					Certified:    certified,
				}, nil
			}

		case res := <-posCh:
			if res.Status == WaitFinalized {
				// same as a finalized status signal, keep waiting
				continue
			}
			// rejection is the more specific signal; it is
			// authoritative over expiry when both raced
			if entry, found := tw.statusTable.GetStatus(req.Hash); found &&
				entry.Status == TxStatusRejected {
				return &Result{
					Status:       ResultRejected,
					RejectReason: entry.RejectReason,
					Certified:    certified,
				}, nil
			}
			return &Result{
				Status:       ResultExpired,
				ExpiredRound: res.Round,
				Certified:    certified,
			}, nil
		}
	}
}

func (tw *TxWaiter) executedResult(txc *core.TxCommit, includeEffects, certified bool) *Result {
	res := &Result{
		Status:        ResultExecuted,
		EffectsDigest: txc.EffectsDigest,
		Certified:     certified,
	}
	if includeEffects {
		res.Commit = txc
	}
	return res
}
