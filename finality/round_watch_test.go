// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package finality

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoundWatch_Last(t *testing.T) {
	assert := assert.New(t)

	w := NewRoundWatch()
	_, ok := w.Last()
	assert.False(ok)

	w.Set(5)
	last, ok := w.Last()
	assert.True(ok)
	assert.EqualValues(5, last)
}

func TestRoundWatch_SubscribePreload(t *testing.T) {
	assert := assert.New(t)

	w := NewRoundWatch()
	w.Set(7)

	sub := w.Subscribe()
	defer sub.Unsubscribe()

	select {
	case round := <-sub.Rounds():
		assert.EqualValues(7, round)
	case <-time.After(time.Second):
		t.Fatal("preloaded round not delivered")
	}
}

func TestRoundWatch_CoalesceLatest(t *testing.T) {
	assert := assert.New(t)

	w := NewRoundWatch()
	sub := w.Subscribe()
	defer sub.Unsubscribe()

	// a slow reader observes only the newest value
	w.Set(1)
	w.Set(2)
	w.Set(3)

	select {
	case round := <-sub.Rounds():
		assert.EqualValues(3, round)
	case <-time.After(time.Second):
		t.Fatal("round not delivered")
	}
	select {
	case round := <-sub.Rounds():
		t.Fatalf("unexpected extra round %d", round)
	default:
	}
}

func TestRoundWatch_MultiSubscriber(t *testing.T) {
	assert := assert.New(t)

	w := NewRoundWatch()
	sub1 := w.Subscribe()
	sub2 := w.Subscribe()
	defer sub1.Unsubscribe()
	defer sub2.Unsubscribe()

	w.Set(9)

	assert.EqualValues(9, <-sub1.Rounds())
	assert.EqualValues(9, <-sub2.Rounds())
}
