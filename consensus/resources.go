// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package consensus

import (
	"github.com/soteria-bft/soteria/finality"
)

// Resources of the commit driver
type Resources struct {
	PosCache    *finality.PositionCache
	StatusTable *finality.StatusTable
	Execution   Execution
	Output      OutputStream
}
