// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLogger_SetAndGet(t *testing.T) {
	assert := assert.New(t)

	assert.NotNil(I()) // nop logger before Set

	inst, err := zap.NewDevelopment()
	assert.NoError(err)

	Set(inst.Sugar())
	assert.Equal(inst.Sugar(), I())
}
