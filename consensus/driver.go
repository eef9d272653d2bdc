// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package consensus

import (
	"sync/atomic"
	"time"

	"github.com/soteria-bft/soteria/emitter"
	"github.com/soteria-bft/soteria/finality"
	"github.com/soteria-bft/soteria/logger"
)

// Driver consumes the consensus output stream and feeds the finality
// caches and the execution engine. It is the single writer advancing
// the leader round; finalization marks may race only with each other.
type Driver struct {
	resources *Resources
	epoch     uint64

	sub       *emitter.Subscription
	startTime int64

	committedTxCount int64
	rejectedTxCount  int64
}

// New creates a new Driver for the given epoch
func New(resources *Resources, epoch uint64) *Driver {
	return &Driver{
		resources: resources,
		epoch:     epoch,
	}
}

// Start subscribes to the consensus output and processes events until
// stopped
func (d *Driver) Start() {
	d.startTime = time.Now().UnixNano()
	d.sub = d.resources.Output.SubscribeOutput(1024)
	go d.sub.Listen(d.onEvent)
}

// Stop unsubscribes from the consensus output
func (d *Driver) Stop() {
	d.sub.Unsubscribe()
}

func (d *Driver) onEvent(e emitter.Event) {
	switch e := e.(type) {
	case *CommitEvent:
		d.onCommit(e)
	case *CertifiedEvent:
		d.onCertified(e)
	default:
		logger.I().Warnw("unknown consensus output event", "event", e)
	}
}

func (d *Driver) onCommit(e *CommitEvent) {
	for _, blk := range e.Blocks {
		if blk.Epoch != d.epoch {
			logger.I().Warnw("dropped block from another epoch",
				"blockEpoch", blk.Epoch, "epoch", d.epoch)
			continue
		}
		d.commitBlock(blk)
	}
	// publish the round last so waiters woken by it observe the
	// finalization marks of this commit
	d.resources.PosCache.UpdateLastCommittedLeaderRound(e.LeaderRound)
	d.resources.StatusTable.UpdateLastCommittedLeaderRound(e.LeaderRound)
}

func (d *Driver) commitBlock(blk *CommittedBlock) {
	if len(blk.Txs) == 0 {
		d.resources.PosCache.MarkBlockFinalized(blk.Position(0))
		return
	}
	for i, btx := range blk.Txs {
		pos := blk.Position(uint32(i))
		d.resources.PosCache.MarkBlockFinalized(pos)
		if btx.Rejected {
			d.resources.StatusTable.SetStatus(
				btx.Tx.Hash, pos, finality.TxStatusRejected, btx.RejectReason)
			atomic.AddInt64(&d.rejectedTxCount, 1)
			continue
		}
		d.resources.StatusTable.SetStatus(
			btx.Tx.Hash, pos, finality.TxStatusFinalized, "")
		d.resources.Execution.Execute(btx.Tx, pos)
		atomic.AddInt64(&d.committedTxCount, 1)
	}
}

func (d *Driver) onCertified(e *CertifiedEvent) {
	d.resources.StatusTable.SetStatus(
		e.Hash, e.Position, finality.TxStatusCertified, "")
}

// GetStatus returns a snapshot of driver and cache state
func (d *Driver) GetStatus() Status {
	lastRound, _ := d.resources.PosCache.LastCommittedRound()
	return Status{
		StartTime:          d.startTime,
		Epoch:              d.epoch,
		CommittedTxCount:   int(atomic.LoadInt64(&d.committedTxCount)),
		RejectedTxCount:    int(atomic.LoadInt64(&d.rejectedTxCount)),
		LastCommittedRound: lastRound,
		FinalizedPositions: d.resources.PosCache.Len(),
		TrackedStatuses:    d.resources.StatusTable.Len(),
	}
}
