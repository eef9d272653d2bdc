// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package consensus

type Status struct {
	StartTime int64  `json:"startTime"`
	Epoch     uint64 `json:"epoch"`

	// committed tx count since node is up
	CommittedTxCount int `json:"committedTxCount"`
	RejectedTxCount  int `json:"rejectedTxCount"`

	LastCommittedRound uint32 `json:"lastCommittedRound"`

	// current sizes of the bounded finality caches
	FinalizedPositions int `json:"finalizedPositions"`
	TrackedStatuses    int `json:"trackedStatuses"`
}
