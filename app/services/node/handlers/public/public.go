// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ardanlabs/stakechain/business/web/errs"
	"github.com/ardanlabs/stakechain/foundation/blockchain/database"
	"github.com/ardanlabs/stakechain/foundation/blockchain/pos"
	"github.com/ardanlabs/stakechain/foundation/blockchain/signature"
	"github.com/ardanlabs/stakechain/foundation/blockchain/state"
	"github.com/ardanlabs/stakechain/foundation/events"
	"github.com/ardanlabs/stakechain/foundation/nameservice"
	"github.com/ardanlabs/stakechain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of public endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	// Need this to handle CORS on the websocket.
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	// This upgrades the HTTP connection to a websocket connection.
	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	// This provides a channel for receiving events from the blockchain.
	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	// Starting a ticker to send a ping message over the websocket.
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	// Block waiting for events from the blockchain or ticker.
	for {
		select {
		case msg, wd := <-ch:

			// If the channel is closed, release the websocket.
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
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Status returns the current status of the chain.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	latestBlock := h.State.RetrieveLatestBlock()

	st := status{
		LatestBlockHash:   latestBlock.Hash,
		LatestBlockNumber: latestBlock.Header.Number,
		TotalStake:        h.State.RetrieveTotalStake(),
		Validators:        len(h.State.RetrieveValidators()),
		FinalityThreshold: h.State.RetrieveFinalityThreshold(),
		Subscribers:       h.Evts.Subscribers(),
	}

	return web.Respond(ctx, w, st, http.StatusOK)
}

// Validate walks the chain checking the hash links. A broken chain can't be
// trusted so the node is asked to shut down.
func (h Handlers) Validate(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if err := h.State.Validate(); err != nil {
		if errors.Is(err, database.ErrChainIntegrity) {
			return web.NewShutdownError(err.Error())
		}
		return err
	}

	resp := struct {
		Status string `json:"status"`
		Blocks uint64 `json:"blocks"`
	}{
		Status: "valid",
		Blocks: h.State.RetrieveLatestBlock().Header.Number + 1,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// BlocksByProposer returns all the blocks and their details. When a proposer
// is provided, only the blocks credited to that validator are returned.
func (h Handlers) BlocksByProposer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	proposer := web.Param(r, "proposer")
	if proposer != "" {
		proposer = signature.ToAddress(proposer)
	}

	dbBlocks, err := h.State.QueryBlocksByProposer(proposer)
	if err != nil {
		return err
	}

	if len(dbBlocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	blocks := make([]block, len(dbBlocks))
	for i, blk := range dbBlocks {
		blocks[i] = toBlock(blk, h.NS, h.State.IsFinalized(blk.Header.Number))
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// BlocksByNumber returns the blocks in the specified range of numbers. The
// word latest can be used for either end of the range.
func (h Handlers) BlocksByNumber(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	from, err := parseRange(web.Param(r, "from"))
	if err != nil {
		return err
	}

	to, err := parseRange(web.Param(r, "to"))
	if err != nil {
		return err
	}

	if from > to {
		return errs.BadRequest(errors.New("from greater than to"))
	}

	dbBlocks := h.State.QueryBlocksByNumber(from, to)
	if len(dbBlocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	blocks := make([]block, len(dbBlocks))
	for i, blk := range dbBlocks {
		blocks[i] = toBlock(blk, h.NS, h.State.IsFinalized(blk.Header.Number))
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// BlockByNumber returns the block at the specified height.
func (h Handlers) BlockByNumber(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	height, err := parseHeight(web.Param(r, "height"))
	if err != nil {
		return err
	}

	blk, err := h.State.QueryBlock(height)
	if err != nil {
		if errors.Is(err, database.ErrBlockNotFound) {
			return errs.NotFound(err)
		}
		return err
	}

	return web.Respond(ctx, w, toBlock(blk, h.NS, h.State.IsFinalized(height)), http.StatusOK)
}

// Finalized reports whether the block at the specified height is final.
func (h Handlers) Finalized(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	height, err := parseHeight(web.Param(r, "height"))
	if err != nil {
		return err
	}

	resp := finality{
		Number:    height,
		Finalized: h.State.IsFinalized(height),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Validators returns the current validators and their stake.
func (h Handlers) Validators(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address := web.Param(r, "address")

	var vals []pos.Validator
	switch address {
	case "":
		vals = h.State.RetrieveValidators()

	default:
		val, err := h.State.QueryValidator(signature.ToAddress(address))
		if err != nil {
			if errors.Is(err, pos.ErrNotFound) {
				return errs.NotFound(err)
			}
			return err
		}
		vals = append(vals, val)
	}

	out := validators{
		LatestBlock: h.State.RetrieveLatestBlock().Hash,
		TotalStake:  h.State.RetrieveTotalStake(),
		Validators:  make([]validator, 0, len(vals)),
	}

	for _, val := range vals {
		eligible, err := h.State.QueryEligible(val.Address)
		if err != nil && !errors.Is(err, pos.ErrNotFound) {
			return err
		}
		out.Validators = append(out.Validators, toValidator(val, h.NS, eligible))
	}

	return web.Respond(ctx, w, out, http.StatusOK)
}

// SubmitTransaction appends a new block carrying the submitted data.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var tx submitTx
	if err := web.Decode(r, &tx); err != nil {
		return errs.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
	}

	h.Log.Infow("submit tx", "traceid", v.TraceID, "bytes", len(*tx.Data))

	blk, err := h.State.Append(*tx.Data)
	if err != nil {
		if errors.Is(err, database.ErrChainIntegrity) {
			return web.NewShutdownError(err.Error())
		}
		return err
	}

	return web.Respond(ctx, w, toBlock(blk, h.NS, h.State.IsFinalized(blk.Header.Number)), http.StatusCreated)
}

// =============================================================================

// parseHeight converts the height parameter into a block number.
func parseHeight(s string) (uint64, error) {
	height, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errs.BadRequest(fmt.Errorf("invalid block height %q", s))
	}
	return height, nil
}

// parseRange converts a range parameter into a block number.
func parseRange(s string) (uint64, error) {
	if s == "latest" {
		return state.QueryLastest, nil
	}
	return parseHeight(s)
}
