// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package consensus

import (
	"github.com/soteria-bft/soteria/core"
	"github.com/soteria-bft/soteria/emitter"
)

// CommittedTx is a transaction carried by a committed block. A
// rejected transaction was ordered but will never execute.
type CommittedTx struct {
	Tx           *core.Transaction
	Rejected     bool
	RejectReason string
}

// CommittedBlock is a block sequenced by consensus
type CommittedBlock struct {
	Epoch uint64
	Ref   core.BlockRef
	Txs   []CommittedTx
}

// Position returns the consensus position of the tx at the given index
func (blk *CommittedBlock) Position(index uint32) core.Position {
	return core.Position{
		Epoch: blk.Epoch,
		Block: blk.Ref,
		Index: index,
	}
}

// CommitEvent reports blocks sequenced under a committed leader round.
// Events arrive in strictly increasing leader round order.
type CommitEvent struct {
	LeaderRound uint32
	Blocks      []*CommittedBlock
}

// CertifiedEvent reports an early fastpath certification for a
// transaction, prior to full consensus finalization
type CertifiedEvent struct {
	Hash     []byte
	Position core.Position
}

// OutputStream is the stream of consensus output events
type OutputStream interface {
	SubscribeOutput(buffer int) *emitter.Subscription
}

// Execution runs finalized transactions
type Execution interface {
	Execute(tx *core.Transaction, pos core.Position) *core.TxCommit
}
