// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package node

import (
	"time"
)

// Config for node
type Config struct {
	Debug   bool
	Datadir string
	APIPort int

	// Epoch scopes the finality components; they are recreated fresh
	// at each epoch boundary
	Epoch uint64

	// RoundInterval is the dev feed's empty-round tick, driving the
	// retention clock under no load
	RoundInterval time.Duration
}

// DefaultConfig with sane defaults
var DefaultConfig = Config{
	APIPort:       9040,
	Epoch:         1,
	RoundInterval: 100 * time.Millisecond,
}
