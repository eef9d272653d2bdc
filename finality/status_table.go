// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package finality

import (
	"container/heap"
	"context"
	"sync"

	"github.com/soteria-bft/soteria/core"
	"github.com/soteria-bft/soteria/logger"
)

// TxStatus is the consensus-level status of a transaction
type TxStatus uint8

const (
	TxStatusNone TxStatus = iota
	TxStatusCertified        // fastpath certification, precedes execution
	TxStatusFinalized        // post-consensus finalization
	TxStatusRejected         // terminal, the tx will never execute
)

func (s TxStatus) String() string {
	switch s {
	case TxStatusCertified:
		return "certified"
	case TxStatusFinalized:
		return "finalized"
	case TxStatusRejected:
		return "rejected"
	}
	return "none"
}

// StatusEntry is the latest known status of a transaction, paired with
// its consensus position for retention purposes
type StatusEntry struct {
	Status       TxStatus
	Position     core.Position
	RejectReason string
}

type statusItem struct {
	hash  string
	entry StatusEntry
	index int
}

type statusQueue []*statusItem

var _ heap.Interface = (*statusQueue)(nil)

func newStatusQueue() *statusQueue {
	q := make(statusQueue, 0)
	return &q
}

func (q statusQueue) Len() int {
	return len(q)
}

func (q statusQueue) Less(i, j int) bool {
	return q[i].entry.Position.Compare(q[j].entry.Position) < 0
}

func (q statusQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *statusQueue) Push(x interface{}) {
	n := len(*q)
	item := x.(*statusItem)
	item.index = n
	*q = append(*q, item)
}

func (q *statusQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil // avoid memory leak
	item.index = -1
	*q = old[0 : n-1]
	return item
}

// StatusTable publishes the latest consensus-level status per
// transaction hash, with the same retention discipline as the
// position cache, keyed by the paired position for GC.
type StatusTable struct {
	mtx       sync.Mutex
	items     map[string]*statusItem
	queue     *statusQueue
	lastRound uint32
	baseline  bool

	notifier *Notifier
}

// NewStatusTable creates a new StatusTable
func NewStatusTable() *StatusTable {
	return &StatusTable{
		items:    make(map[string]*statusItem),
		queue:    newStatusQueue(),
		notifier: NewNotifier(),
	}
}

// SetStatus publishes a status for the transaction. Statuses only
// upgrade: certified never overwrites finalized and nothing overwrites
// a rejection. Updates for expired positions are dropped.
func (st *StatusTable) SetStatus(hash []byte, pos core.Position, status TxStatus, rejectReason string) {
	key := string(hash)

	st.mtx.Lock()
	if st.baseline && expired(pos.Round(), st.lastRound) {
		st.mtx.Unlock()
		logger.I().Debugw("dropped stale status update",
			"pos", pos.String(), "status", status.String())
		return
	}
	item, found := st.items[key]
	if found {
		if status <= item.entry.Status {
			st.mtx.Unlock()
			return
		}
		item.entry.Status = status
		item.entry.RejectReason = rejectReason
	} else {
		item = &statusItem{
			hash:  key,
			entry: StatusEntry{Status: status, Position: pos, RejectReason: rejectReason},
			index: -1,
		}
		heap.Push(st.queue, item)
		st.items[key] = item
	}
	st.mtx.Unlock()

	st.notifier.Notify(key)
}

// GetStatus returns the latest known status, distinguishing "no status
// yet" through the second return value
func (st *StatusTable) GetStatus(hash []byte) (StatusEntry, bool) {
	st.mtx.Lock()
	defer st.mtx.Unlock()
	item, found := st.items[string(hash)]
	if !found {
		return StatusEntry{}, false
	}
	return item.entry, true
}

// UpdateLastCommittedLeaderRound advances the GC clock with the same
// baseline and previous-round cutoff rules as the position cache
func (st *StatusTable) UpdateLastCommittedLeaderRound(round uint32) {
	st.mtx.Lock()
	defer st.mtx.Unlock()
	if !st.baseline {
		st.baseline = true
		st.lastRound = round
		return
	}
	prev := st.lastRound
	for st.queue.Len() > 0 {
		oldest := (*st.queue)[0]
		if !expired(oldest.entry.Position.Round(), prev) {
			break
		}
		heap.Pop(st.queue)
		delete(st.items, oldest.hash)
	}
	st.lastRound = round
}

// WaitForStatusChange blocks until the transaction's status differs
// from prev. Registration happens before each read so no update
// between read and registration can be missed.
func (st *StatusTable) WaitForStatusChange(ctx context.Context, hash []byte, prev TxStatus) (StatusEntry, error) {
	key := string(hash)
	for {
		w := st.notifier.Register(key)
		if entry, found := st.GetStatus(hash); found && entry.Status != prev {
			w.Cancel()
			return entry, nil
		}
		select {
		case <-ctx.Done():
			w.Cancel()
			return StatusEntry{}, ctx.Err()
		case <-w.Done():
		}
	}
}

// Len returns the number of retained statuses
func (st *StatusTable) Len() int {
	st.mtx.Lock()
	defer st.mtx.Unlock()
	return len(st.items)
}
