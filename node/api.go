// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package node

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soteria-bft/soteria/core"
	"github.com/soteria-bft/soteria/finality"
	"github.com/soteria-bft/soteria/logger"
)

const defaultWaitTimeout = 10 * time.Second

type nodeAPI struct {
	node *Node
}

func serveNodeAPI(node *Node) {
	api := &nodeAPI{node}

	gin.SetMode(gin.ReleaseMode)
	gin.DefaultWriter = io.Discard
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/consensus", api.getConsensusStatus)

	r.POST("/transactions", api.submitTx)
	r.POST("/transactions/wait", api.waitTx)
	r.GET("/transactions/:hash/status", api.getTxStatus)
	r.GET("/transactions/:hash/commit", api.getTxCommit)

	go func() {
		err := r.Run(fmt.Sprintf(":%d", node.config.APIPort))
		if err != nil {
			logger.I().Fatalf("failed to start api %+v", err)
		}
	}()
}

func (api *nodeAPI) getConsensusStatus(c *gin.Context) {
	c.JSON(http.StatusOK, api.node.driver.GetStatus())
}

type submitTxResponse struct {
	Hash     []byte        `json:"hash"`
	Position core.Position `json:"position"`
}

func (api *nodeAPI) submitTx(c *gin.Context) {
	tx := core.NewTransaction()
	if err := c.ShouldBind(tx); err != nil {
		c.String(http.StatusBadRequest, "cannot parse tx")
		return
	}
	pos, err := api.node.feed.SubmitTx(tx)
	if err != nil {
		logger.I().Warnf("submit tx failed %+v", err)
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, submitTxResponse{Hash: tx.Hash, Position: pos})
}

func (api *nodeAPI) waitTx(c *gin.Context) {
	var req finality.Request
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, "cannot parse request")
		return
	}
	timeout := defaultWaitTimeout
	if tstr := c.Query("timeout"); tstr != "" {
		ms, err := strconv.Atoi(tstr)
		if err != nil {
			c.String(http.StatusBadRequest, "cannot parse timeout")
			return
		}
		timeout = time.Duration(ms) * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	res, err := api.node.waiter.WaitForTx(ctx, req)
	if err != nil {
		c.String(waitErrorCode(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, res)
}

// waitErrorCode translates wait errors for clients: epoch mismatch is
// permanent for the request, lagging and timeout are retryable
func waitErrorCode(err error) int {
	switch {
	case errors.Is(err, finality.ErrEpochMismatch):
		return http.StatusConflict
	case errors.Is(err, finality.ErrConsensusLagging):
		return http.StatusTooEarly
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (api *nodeAPI) getTxStatus(c *gin.Context) {
	hash, err := api.getHash(c)
	if err != nil {
		c.String(http.StatusBadRequest, "cannot parse hash")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": api.node.GetTxStatus(hash)})
}

func (api *nodeAPI) getTxCommit(c *gin.Context) {
	hash, err := api.getHash(c)
	if err != nil {
		c.String(http.StatusBadRequest, "cannot parse hash")
		return
	}
	txc, err := api.node.storage.GetTxCommit(hash)
	if err != nil {
		c.String(http.StatusNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, txc)
}

func (api *nodeAPI) getHash(c *gin.Context) ([]byte, error) {
	hashstr := c.Param("hash")
	return hex.DecodeString(hashstr)
}
