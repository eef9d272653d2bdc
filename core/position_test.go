// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestPosition(round uint32, index uint32) Position {
	priv := GenerateKey(nil)
	tx := NewTransaction().SetNonce(uint64(round)).Sign(priv)
	return Position{
		Epoch: 1,
		Block: BlockRef{
			Round:  round,
			Author: priv.PublicKey().Bytes(),
			Digest: tx.Sum(),
		},
		Index: index,
	}
}

func TestPosition_Compare(t *testing.T) {
	assert := assert.New(t)

	p1 := newTestPosition(1, 0)
	p2 := newTestPosition(2, 0)

	assert.Equal(-1, p1.Compare(p2))
	assert.Equal(1, p2.Compare(p1))
	assert.Equal(0, p1.Compare(p1))

	// same round, different index
	p3 := p1
	p3.Index = 5
	assert.Equal(-1, p1.Compare(p3))
	assert.Equal(1, p3.Compare(p1))
}

func TestPosition_Key(t *testing.T) {
	assert := assert.New(t)

	p1 := newTestPosition(1, 0)
	p2 := newTestPosition(1, 0) // different author and digest

	assert.Equal(p1.Key(), p1.Key())
	assert.NotEqual(p1.Key(), p2.Key())

	p3 := p1
	p3.Index = 1
	assert.NotEqual(p1.Key(), p3.Key())
}
