// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package node

import (
	"log"
	"path"

	"go.uber.org/zap"

	"github.com/soteria-bft/soteria/consensus"
	"github.com/soteria-bft/soteria/core"
	"github.com/soteria-bft/soteria/execution"
	"github.com/soteria-bft/soteria/finality"
	"github.com/soteria-bft/soteria/logger"
	"github.com/soteria-bft/soteria/storage"
)

type Node struct {
	config Config

	storage   *storage.Storage
	execution *execution.Execution

	posCache    *finality.PositionCache
	statusTable *finality.StatusTable
	waiter      *finality.TxWaiter

	feed   *consensus.LocalFeed
	driver *consensus.Driver
}

func Run(config Config) {
	node := new(Node)
	node.config = config
	node.setupLogger()
	node.setupComponents()
	logger.I().Infow("node setup done, starting commit driver...",
		"epoch", config.Epoch)
	node.driver.Start()
	node.feed.Start(config.RoundInterval)
	serveNodeAPI(node)
	logger.I().Infow("serving api", "port", config.APIPort)
	select {}
}

func (node *Node) setupLogger() {
	var inst *zap.Logger
	var err error
	if node.config.Debug {
		inst, err = zap.NewDevelopment()
	} else {
		inst, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	logger.Set(inst.Sugar())
}

func (node *Node) setupComponents() {
	if err := node.setupStorage(); err != nil {
		logger.I().Fatalw("setup storage failed", "error", err)
	}
	node.execution = execution.New(node.storage)

	// finality components are scoped to the epoch and start empty,
	// relying on the retention window to tolerate the gap
	node.posCache = finality.NewPositionCache()
	node.statusTable = finality.NewStatusTable()
	node.waiter = finality.NewTxWaiter(
		node.config.Epoch, node.posCache, node.statusTable, node.execution)

	node.feed = consensus.NewLocalFeed(node.config.Epoch, core.GenerateKey(nil))
	node.driver = consensus.New(&consensus.Resources{
		PosCache:    node.posCache,
		StatusTable: node.statusTable,
		Execution:   node.execution,
		Output:      node.feed,
	}, node.config.Epoch)
}

func (node *Node) setupStorage() error {
	db, err := storage.NewDB(path.Join(node.config.Datadir, "db"))
	if err != nil {
		return err
	}
	node.storage = storage.New(db)
	return nil
}

// GetTxStatus reports the composite status of a transaction, with
// executed effects taking precedence over consensus-level status
func (node *Node) GetTxStatus(hash []byte) string {
	if node.execution.GetEffects(hash) != nil {
		return "executed"
	}
	if entry, found := node.statusTable.GetStatus(hash); found {
		return entry.Status.String()
	}
	return "unknown"
}
