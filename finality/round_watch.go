// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package finality

import (
	"sync"
)

// RoundSub receives the latest committed leader round. The channel
// holds at most one value; a slow reader only ever observes the newest
// round, never a backlog of stale ones.
type RoundSub struct {
	ch       chan uint32
	onRemove func(s *RoundSub)
}

// Rounds returns the round value channel
func (s *RoundSub) Rounds() <-chan uint32 {
	return s.ch
}

// Unsubscribe stops getting round updates
func (s *RoundSub) Unsubscribe() {
	s.onRemove(s)
}

// RoundWatch broadcasts the latest committed leader round to blocked
// readers without contending on the cache lock.
type RoundWatch struct {
	mtx     sync.Mutex
	last    uint32
	hasLast bool
	subs    map[*RoundSub]struct{}
}

// NewRoundWatch creates a new RoundWatch
func NewRoundWatch() *RoundWatch {
	return &RoundWatch{
		subs: make(map[*RoundSub]struct{}),
	}
}

// Set publishes a new round to all subscriptions
func (w *RoundWatch) Set(round uint32) {
	w.mtx.Lock()
	defer w.mtx.Unlock()

	w.last = round
	w.hasLast = true
	for s := range w.subs {
		w.send(s, round)
	}
}

// Last returns the latest published round, if any
func (w *RoundWatch) Last() (uint32, bool) {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	return w.last, w.hasLast
}

// Subscribe creates a new subscription. If a round was already
// published, it is preloaded so the reader re-evaluates immediately.
func (w *RoundWatch) Subscribe() *RoundSub {
	w.mtx.Lock()
	defer w.mtx.Unlock()

	s := &RoundSub{
		ch:       make(chan uint32, 1),
		onRemove: w.delete,
	}
	w.subs[s] = struct{}{}
	if w.hasLast {
		w.send(s, w.last)
	}
	return s
}

// send replaces any unread value. Only Set and Subscribe send, both
// under the lock, so the capacity-1 channel never blocks the writer.
func (w *RoundWatch) send(s *RoundSub, round uint32) {
	select {
	case <-s.ch:
	default:
	}
	s.ch <- round
}

func (w *RoundWatch) delete(s *RoundSub) {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	delete(w.subs, s)
}
