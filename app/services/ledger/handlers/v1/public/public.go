// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/node"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log  *zap.SugaredLogger
	Node *node.Node
	WS   websocket.Upgrader
	Evts *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	id, ch := h.Evts.Subscribe()
	defer h.Evts.Unsubscribe(id)

	h.Log.Infow("events", "traceid", web.GetTraceID(ctx), "subscriber", id)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.Node.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Balances returns the current balances for all accounts or the one
// specified.
func (h Handlers) Balances(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	account := web.Param(r, "account")

	latest, state := h.Node.RetrieveTip()

	resp := balances{
		LatestBlock: latest.Hash,
		Number:      latest.Number(),
		Uncommitted: len(h.Node.RetrieveMempool()),
		Balances:    []balance{},
	}

	switch account {
	case "":
		for _, accountID := range state.Accounts() {
			resp.Balances = append(resp.Balances, balance{Account: accountID, Balance: state.Balance(accountID)})
		}

	default:
		accountID, err := database.ToAccountID(account)
		if err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}

		bal, exists := state.Balance(accountID), state.Exists(accountID)
		if !exists {
			return errs.NewTrusted(fmt.Errorf("account %q is not in the ledger", accountID), http.StatusNotFound)
		}
		resp.Balances = append(resp.Balances, balance{Account: accountID, Balance: bal})
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Blocks returns the whole chain or only the blocks touching the specified
// account.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	account := web.Param(r, "account")

	var blocks []database.Block
	var err error

	switch account {
	case "":
		blocks, err = h.Node.RetrieveChain()

	default:
		accountID, aErr := database.ToAccountID(account)
		if aErr != nil {
			return errs.NewTrusted(aErr, http.StatusBadRequest)
		}
		blocks, err = h.Node.QueryBlocksByAccount(accountID)
	}

	if err != nil {
		return err
	}

	if blocks == nil {
		blocks = []database.Block{}
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.Node.RetrieveMempool(), http.StatusOK)
}

// SubmitTransaction adds a transaction to the mempool. The transaction is
// only validated when it is picked for a block.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req submitTx
	if err := web.Decode(r, &req); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	tx, err := database.NewTx(req.Tx)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("submit tx", "traceid", web.GetTraceID(ctx), "tx", tx.String())

	resp := struct {
		Status      string `json:"status"`
		Uncommitted int    `json:"uncommitted"`
	}{
		Status:      "transaction added to mempool",
		Uncommitted: h.Node.SubmitTransaction(tx),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// MineBlock batches pending transactions into the next block.
func (h Handlers) MineBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	block, err := h.Node.MineNewBlock(ctx)
	if err != nil {
		if errors.Is(err, node.ErrNoTransactions) {
			return errs.NewTrusted(err, http.StatusConflict)
		}
		return errs.NewLedger(err)
	}

	resp := blockResult{
		Status: "mined",
		Number: block.Number(),
		Hash:   block.Hash,
		Trans:  block.Contents.TxCount,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// ProposeBlock receives a block built by another node and adds it to the
// chain if it validates against the chain tip.
func (h Handlers) ProposeBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req proposal
	if err := web.Decode(r, &req); err != nil {
		return errs.NewTrusted(fmt.Errorf("%w: %s", database.ErrMalformedInput, err), http.StatusBadRequest)
	}

	h.Log.Infow("propose block", "traceid", web.GetTraceID(ctx), "blk", req.Block.Number(), "hash", req.Block.Hash)

	if err := h.Node.ProcessProposedBlock(req.Block); err != nil {
		return errs.NewLedger(err)
	}

	resp := blockResult{
		Status: "accepted",
		Number: req.Block.Number(),
		Hash:   req.Block.Hash,
		Trans:  req.Block.Contents.TxCount,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// VerifyChain replays the node's chain from genesis.
func (h Handlers) VerifyChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	state, err := h.Node.VerifyChain()
	if err != nil {
		return errs.NewLedger(err)
	}

	resp := chainStatus{
		Valid:  true,
		Blocks: int(h.Node.RetrieveLatestBlock().Number()) + 1,
		State:  state,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// CheckChain validates a chain supplied in its text form and returns the
// state it reconstructs. The node's own chain is not touched.
func (h Handlers) CheckChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	blocks, err := database.UnmarshalChain(data)
	if err != nil {
		return errs.NewLedger(err)
	}

	state, err := database.CheckChain(blocks, nil)
	if err != nil {
		return errs.NewLedger(err)
	}

	resp := chainStatus{
		Valid:  true,
		Blocks: len(blocks),
		State:  state,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
