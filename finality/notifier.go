// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package finality

import (
	"sync"
)

// Waiter is a single registration of interest in a key.
// Its channel is closed exactly once when the key is notified.
type Waiter struct {
	key      string
	reg      *registration
	notifier *Notifier
	once     sync.Once
}

// Done returns a channel closed when the key is notified
func (w *Waiter) Done() <-chan struct{} {
	return w.reg.ch
}

// Cancel deregisters the waiter. Safe to call after the notification
// fired and safe to call more than once.
func (w *Waiter) Cancel() {
	w.once.Do(func() {
		w.notifier.cancel(w)
	})
}

type registration struct {
	ch    chan struct{}
	count int
}

// Notifier is a registration table keyed by the same key space as the
// structure it guards. Registering interest before re-checking
// membership of the guarded structure makes the check race free: a
// writer inserting between the two steps is observed either by the
// membership check or by the notification.
type Notifier struct {
	mtx  sync.Mutex
	regs map[string]*registration
}

// NewNotifier creates a new Notifier
func NewNotifier() *Notifier {
	return &Notifier{
		regs: make(map[string]*registration),
	}
}

// Register registers interest in key
func (n *Notifier) Register(key string) *Waiter {
	n.mtx.Lock()
	defer n.mtx.Unlock()

	reg, found := n.regs[key]
	if !found {
		reg = &registration{ch: make(chan struct{})}
		n.regs[key] = reg
	}
	reg.count++
	return &Waiter{key: key, reg: reg, notifier: n}
}

// Notify wakes all current registrations for key exactly once.
// Registrations made afterwards wait for the next Notify.
func (n *Notifier) Notify(key string) {
	n.mtx.Lock()
	defer n.mtx.Unlock()

	reg, found := n.regs[key]
	if !found {
		return
	}
	delete(n.regs, key)
	close(reg.ch)
}

func (n *Notifier) cancel(w *Waiter) {
	n.mtx.Lock()
	defer n.mtx.Unlock()

	reg, found := n.regs[w.key]
	if !found || reg != w.reg {
		return // already notified or replaced by a newer registration
	}
	reg.count--
	if reg.count <= 0 {
		delete(n.regs, w.key)
	}
}

// pending returns the number of keys with live registrations
func (n *Notifier) pending() int {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	return len(n.regs)
}
