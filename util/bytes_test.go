// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConcatBytes(t *testing.T) {
	assert := assert.New(t)
	res := ConcatBytes([]byte{1, 2, 3}, []byte{4, 5, 6}, []byte{7, 8, 9})
	assert.Equal([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9}, res)
}

func TestUintToBytes(t *testing.T) {
	assert := assert.New(t)
	assert.Equal([]byte{0, 0, 1, 2}, Uint32ToBytes(258))
	assert.Equal([]byte{0, 0, 0, 0, 0, 0, 1, 2}, Uint64ToBytes(258))
}
