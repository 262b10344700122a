package private

import (
	"net/http"

	"github.com/ardanlabs/stakechain/foundation/blockchain/state"
	"github.com/ardanlabs/stakechain/foundation/web"
	"go.uber.org/zap"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// Routes binds all the private routes.
func Routes(app *web.App, cfg Config) {
	prv := Handlers{
		Log:   cfg.Log,
		State: cfg.State,
	}

	const version = "v1"

	app.Handle(http.MethodPost, version, "/validators/add", prv.AddValidator)
	app.Handle(http.MethodPut, version, "/validators/stake/:address", prv.UpdateStake)
	app.Handle(http.MethodDelete, version, "/validators/remove/:address", prv.RemoveValidator)
	app.Handle(http.MethodPost, version, "/validators/penalize/:address", prv.PenalizeValidator)
	app.Handle(http.MethodPost, version, "/validators/reactivate/:address", prv.ReactivateValidator)
}
