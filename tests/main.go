// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"net/http"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/soteria-bft/soteria/core"
	"github.com/soteria-bft/soteria/finality"
)

var (
	nodeURL     string
	txCount     int
	concurrency int
	waitTimeout time.Duration
)

type submitResponse struct {
	Hash     []byte        `json:"hash"`
	Position core.Position `json:"position"`
}

type result struct {
	err     error
	latency time.Duration
}

func main() {
	flag.StringVar(&nodeURL, "node", "http://localhost:9040", "node api url")
	flag.IntVar(&txCount, "count", 100, "number of transactions")
	flag.IntVar(&concurrency, "workers", 10, "concurrent workers")
	flag.DurationVar(&waitTimeout, "timeout", 10*time.Second, "wait timeout per tx")
	flag.Parse()

	bold := color.New(color.Bold)
	boldGreen := color.New(color.Bold, color.FgGreen)
	boldRed := color.New(color.Bold, color.FgRed)

	bold.Printf("submitting %d transactions with %d workers to %s\n",
		txCount, concurrency, nodeURL)

	jobCh := make(chan int)
	resultCh := make(chan result, txCount)

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			priv := core.GenerateKey(nil)
			for nonce := range jobCh {
				resultCh <- submitAndWait(priv, uint64(nonce))
			}
		}()
	}
	go func() {
		for i := 1; i <= txCount; i++ {
			jobCh <- i
		}
		close(jobCh)
		wg.Wait()
		close(resultCh)
	}()

	var pass, fail int
	var total time.Duration
	for res := range resultCh {
		if res.err != nil {
			fail++
			fmt.Printf("%s %v\n", boldRed.Sprint("FAIL"), res.err)
			continue
		}
		pass++
		total += res.latency
	}

	fmt.Printf("\n%s %d  %s %d\n",
		boldGreen.Sprint("PASS"), pass, boldRed.Sprint("FAIL"), fail)
	if pass > 0 {
		bold.Printf("mean finality latency: %s\n", total/time.Duration(pass))
	}
}

func submitAndWait(priv *core.PrivateKey, nonce uint64) result {
	start := time.Now()
	tx := core.NewTransaction().
		SetNonce(nonce).
		SetInput([]byte(fmt.Sprintf("load-%d", nonce))).
		Sign(priv)

	var submitted submitResponse
	if err := postJSON("/transactions", tx, &submitted); err != nil {
		return result{err: err}
	}

	var res finality.Result
	path := fmt.Sprintf("/transactions/wait?timeout=%d", waitTimeout.Milliseconds())
	err := postJSON(path, finality.Request{
		Hash:     submitted.Hash,
		Position: submitted.Position,
	}, &res)
	if err != nil {
		return result{err: err}
	}
	if res.Status != finality.ResultExecuted {
		return result{err: fmt.Errorf("tx %d not executed: %s", nonce, res.Status)}
	}
	return result{latency: time.Since(start)}
}

func postJSON(path string, body interface{}, out interface{}) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := http.Post(nodeURL+path, "application/json", bytes.NewReader(b))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: %s", resp.Status, data)
	}
	return json.Unmarshal(data, out)
}
