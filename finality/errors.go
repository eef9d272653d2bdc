// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package finality

import (
	"errors"
)

// errors
var (
	// ErrEpochMismatch is permanent for the request; the caller must
	// resubmit against the current epoch.
	ErrEpochMismatch = errors.New("epoch mismatch")

	// ErrConsensusLagging reports a position further ahead than the
	// retention window can reason about.
	ErrConsensusLagging = errors.New("consensus lagging")
)
