// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package finality

import (
	"container/heap"
	"context"
	"fmt"
	"sync"

	"github.com/soteria-bft/soteria/core"
	"github.com/soteria-bft/soteria/logger"
)

// RetentionRounds is the number of rounds a finalization record is
// kept relative to the last committed leader round. At the assumed
// maximum round rate this spans roughly 25 to 30 seconds.
const RetentionRounds uint32 = 400

// WaitStatus is the outcome of a finalization wait
type WaitStatus uint8

const (
	WaitFinalized WaitStatus = iota
	WaitExpired
)

// WaitResult is the resolved outcome of WaitForBlockFinalized.
// Round is set for WaitExpired only.
type WaitResult struct {
	Status WaitStatus
	Round  uint32
}

type posEntry struct {
	pos   core.Position
	index int
}

type posQueue []*posEntry

var _ heap.Interface = (*posQueue)(nil)

func newPosQueue() *posQueue {
	q := make(posQueue, 0)
	return &q
}

func (q posQueue) Len() int {
	return len(q)
}

func (q posQueue) Less(i, j int) bool {
	return q[i].pos.Compare(q[j].pos) < 0
}

func (q posQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *posQueue) Push(x interface{}) {
	n := len(*q)
	item := x.(*posEntry)
	item.index = n
	*q = append(*q, item)
}

func (q *posQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil // avoid memory leak
	item.index = -1
	*q = old[0 : n-1]
	return item
}

// PositionCache tracks which consensus positions have been finalized,
// with retention bounded by the advancing leader round. One mutex
// guards the entries and the baseline round together; the round watch
// and the notifier are safe for concurrent use without it.
type PositionCache struct {
	mtx       sync.Mutex
	entries   map[string]*posEntry
	queue     *posQueue
	lastRound uint32
	baseline  bool

	notifier *Notifier
	watch    *RoundWatch
}

// NewPositionCache creates a new PositionCache
func NewPositionCache() *PositionCache {
	return &PositionCache{
		entries:  make(map[string]*posEntry),
		queue:    newPosQueue(),
		notifier: NewNotifier(),
		watch:    NewRoundWatch(),
	}
}

func expired(round, last uint32) bool {
	return round+RetentionRounds <= last
}

// MarkBlockFinalized records that the block at pos has been finalized
// by consensus. Marks for already expired positions are dropped so a
// position cannot be resurrected after GC. Duplicate marks are no-ops;
// the notifier fires only on the first insert.
func (pc *PositionCache) MarkBlockFinalized(pos core.Position) {
	pc.mtx.Lock()
	if pc.baseline && expired(pos.Round(), pc.lastRound) {
		last := pc.lastRound
		pc.mtx.Unlock()
		logger.I().Debugw("dropped stale finalization mark",
			"pos", pos.String(), "lastRound", last)
		return
	}
	key := pos.Key()
	if _, found := pc.entries[key]; found {
		pc.mtx.Unlock()
		return
	}
	item := &posEntry{pos: pos, index: -1}
	heap.Push(pc.queue, item)
	pc.entries[key] = item
	pc.mtx.Unlock()

	pc.notifier.Notify(key)
}

// IsBlockFinalized reports whether the block at pos is finalized and
// not yet garbage collected
func (pc *PositionCache) IsBlockFinalized(pos core.Position) bool {
	pc.mtx.Lock()
	defer pc.mtx.Unlock()
	_, found := pc.entries[pos.Key()]
	return found
}

// UpdateLastCommittedLeaderRound advances the GC clock. It is called
// by a single committing driver with strictly increasing rounds. The
// first call only establishes the baseline. Later calls sweep with the
// previous round as cutoff, so a position belonging to the round being
// committed is never expired by its own commit.
func (pc *PositionCache) UpdateLastCommittedLeaderRound(round uint32) {
	pc.mtx.Lock()
	if !pc.baseline {
		pc.baseline = true
		pc.lastRound = round
		pc.mtx.Unlock()
		pc.watch.Set(round)
		return
	}
	prev := pc.lastRound
	removed := 0
	for pc.queue.Len() > 0 {
		oldest := (*pc.queue)[0]
		if !expired(oldest.pos.Round(), prev) {
			break // ordering makes removable entries a contiguous prefix
		}
		heap.Pop(pc.queue)
		delete(pc.entries, oldest.pos.Key())
		removed++
	}
	pc.lastRound = round
	pc.mtx.Unlock()

	if removed > 0 {
		logger.I().Debugw("expired finalized positions",
			"count", removed, "cutoffRound", prev)
	}
	pc.watch.Set(round)
}

// CheckTooAhead fails when pos is further in the future than the
// retention window allows reasoning about
func (pc *PositionCache) CheckTooAhead(pos core.Position) error {
	pc.mtx.Lock()
	defer pc.mtx.Unlock()
	if !pc.baseline {
		return nil
	}
	if pos.Round() > pc.lastRound+RetentionRounds {
		return fmt.Errorf("%w: position round %d, last committed round %d",
			ErrConsensusLagging, pos.Round(), pc.lastRound)
	}
	return nil
}

// WaitForBlockFinalized blocks until the block at pos is finalized or
// the position expires out of the retention window. It has no timeout
// of its own; deadline and cancellation are layered through ctx by the
// caller.
func (pc *PositionCache) WaitForBlockFinalized(ctx context.Context, pos core.Position) (WaitResult, error) {
	// register before the membership check; a concurrent mark between
	// the two steps lands on either the check or the notification
	w := pc.notifier.Register(pos.Key())
	defer w.Cancel()

	sub := pc.watch.Subscribe()
	defer sub.Unsubscribe()

	if pc.IsBlockFinalized(pos) {
		return WaitResult{Status: WaitFinalized}, nil
	}
	for {
		select {
		case <-ctx.Done():
			return WaitResult{}, ctx.Err()

		case <-w.Done():
			return WaitResult{Status: WaitFinalized}, nil

		case round, ok := <-sub.Rounds():
			if !ok {
				// the committing driver is gone; a silent hang here
				// would be worse than a loud crash
				logger.I().Panicw("round watch closed while waiting",
					"pos", pos.String())
			}
			if expired(pos.Round(), round) {
				return WaitResult{Status: WaitExpired, Round: round}, nil
			}
		}
	}
}

// Len returns the number of retained finalized positions
func (pc *PositionCache) Len() int {
	pc.mtx.Lock()
	defer pc.mtx.Unlock()
	return len(pc.entries)
}

// LastCommittedRound returns the current baseline round, if any
func (pc *PositionCache) LastCommittedRound() (uint32, bool) {
	pc.mtx.Lock()
	defer pc.mtx.Unlock()
	return pc.lastRound, pc.baseline
}
