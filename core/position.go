// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package core

import (
	"bytes"
	"fmt"

	"github.com/soteria-bft/soteria/util"
)

// HashSize is the size of a sha3-256 digest
const HashSize = 32

// BlockRef identifies a proposed block in the consensus dag
type BlockRef struct {
	Round  uint32 `json:"round"`
	Author []byte `json:"author"` // proposer public key
	Digest []byte `json:"digest"`
}

func (ref BlockRef) String() string {
	return fmt.Sprintf("B(r%d, %s)", ref.Round, util.Base64String(ref.Digest))
}

// Position identifies the logical slot of a transaction in the ordered
// consensus output. It is immutable once constructed.
type Position struct {
	Epoch uint64   `json:"epoch"`
	Block BlockRef `json:"block"`
	Index uint32   `json:"index"`
}

// Round returns the consensus round of the containing block
func (pos Position) Round() uint32 {
	return pos.Block.Round
}

// Compare orders positions by round first, then by the remaining fields
// for uniqueness within a round
func (pos Position) Compare(other Position) int {
	if pos.Block.Round != other.Block.Round {
		if pos.Block.Round < other.Block.Round {
			return -1
		}
		return 1
	}
	if pos.Epoch != other.Epoch {
		if pos.Epoch < other.Epoch {
			return -1
		}
		return 1
	}
	if cmp := bytes.Compare(pos.Block.Author, other.Block.Author); cmp != 0 {
		return cmp
	}
	if cmp := bytes.Compare(pos.Block.Digest, other.Block.Digest); cmp != 0 {
		return cmp
	}
	if pos.Index != other.Index {
		if pos.Index < other.Index {
			return -1
		}
		return 1
	}
	return 0
}

// Key returns a stable byte-string key for map lookups
func (pos Position) Key() string {
	return string(util.ConcatBytes(
		util.Uint64ToBytes(pos.Epoch),
		util.Uint32ToBytes(pos.Block.Round),
		pos.Block.Author,
		pos.Block.Digest,
		util.Uint32ToBytes(pos.Index),
	))
}

func (pos Position) String() string {
	return fmt.Sprintf("P(e%d, %s, i%d)", pos.Epoch, pos.Block, pos.Index)
}
