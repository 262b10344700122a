// Package private maintains the group of handlers for stake administration.
package private

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ardanlabs/stakechain/business/web/errs"
	"github.com/ardanlabs/stakechain/foundation/blockchain/pos"
	"github.com/ardanlabs/stakechain/foundation/blockchain/signature"
	"github.com/ardanlabs/stakechain/foundation/blockchain/state"
	"github.com/ardanlabs/stakechain/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of stake administration endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// AddValidator registers a validator with the specified stake.
func (h Handlers) AddValidator(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var nv newValidator
	if err := web.Decode(r, &nv); err != nil {
		return errs.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
	}

	address := signature.ToAddress(nv.Address)

	h.Log.Infow("add validator", "traceid", v.TraceID, "address", address, "stake", nv.Stake)

	val, err := h.State.RegisterValidator(address, nv.Stake)
	if err != nil {
		return errs.BadRequest(err)
	}

	return web.Respond(ctx, w, toValidator(val), http.StatusCreated)
}

// UpdateStake replaces the stake of the specified validator.
func (h Handlers) UpdateStake(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var us updateStake
	if err := web.Decode(r, &us); err != nil {
		return errs.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
	}

	address := signature.ToAddress(web.Param(r, "address"))

	h.Log.Infow("update stake", "traceid", v.TraceID, "address", address, "stake", *us.Stake)

	val, err := h.State.UpdateStake(address, *us.Stake)
	if err != nil {
		return validatorError(err)
	}

	return web.Respond(ctx, w, toValidator(val), http.StatusOK)
}

// RemoveValidator deletes the specified validator.
func (h Handlers) RemoveValidator(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	address := signature.ToAddress(web.Param(r, "address"))

	h.Log.Infow("remove validator", "traceid", v.TraceID, "address", address)

	if err := h.State.RemoveValidator(address); err != nil {
		return validatorError(err)
	}

	return web.Respond(ctx, w, nil, http.StatusNoContent)
}

// PenalizeValidator slashes and deactivates the specified validator.
func (h Handlers) PenalizeValidator(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	address := signature.ToAddress(web.Param(r, "address"))

	h.Log.Infow("penalize validator", "traceid", v.TraceID, "address", address)

	val, slashed, err := h.State.PenalizeValidator(address)
	if err != nil {
		return validatorError(err)
	}

	resp := penalty{
		Validator:  toValidator(val),
		Slashed:    slashed,
		TotalStake: h.State.RetrieveTotalStake(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// ReactivateValidator makes the specified validator active again.
func (h Handlers) ReactivateValidator(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	address := signature.ToAddress(web.Param(r, "address"))

	h.Log.Infow("reactivate validator", "traceid", v.TraceID, "address", address)

	val, err := h.State.ReactivateValidator(address)
	if err != nil {
		return validatorError(err)
	}

	return web.Respond(ctx, w, toValidator(val), http.StatusOK)
}

// =============================================================================

// validatorError maps registry errors to the status the client sees.
func validatorError(err error) error {
	switch {
	case errors.Is(err, pos.ErrNotFound):
		return errs.NotFound(err)
	case errors.Is(err, pos.ErrStakeOverflow):
		return errs.BadRequest(err)
	}
	return err
}
