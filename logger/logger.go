// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mtx  sync.RWMutex
	inst = zap.NewNop().Sugar()
)

// Set sets the global logger instance
func Set(logger *zap.SugaredLogger) {
	mtx.Lock()
	defer mtx.Unlock()
	inst = logger
}

// I returns the global logger instance
func I() *zap.SugaredLogger {
	mtx.RLock()
	defer mtx.RUnlock()
	return inst
}
