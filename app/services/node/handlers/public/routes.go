package public

import (
	"net/http"

	"github.com/ardanlabs/stakechain/foundation/blockchain/state"
	"github.com/ardanlabs/stakechain/foundation/events"
	"github.com/ardanlabs/stakechain/foundation/nameservice"
	"github.com/ardanlabs/stakechain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	Evts  *events.Events
}

// Routes binds all the public routes.
func Routes(app *web.App, cfg Config) {
	pbl := Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		NS:    cfg.NS,
		WS:    websocket.Upgrader{},
		Evts:  cfg.Evts,
	}

	const version = "v1"

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/genesis/list", pbl.Genesis)
	app.Handle(http.MethodGet, version, "/chain/status", pbl.Status)
	app.Handle(http.MethodGet, version, "/chain/validate", pbl.Validate)
	app.Handle(http.MethodGet, version, "/blocks/list", pbl.BlocksByProposer)
	app.Handle(http.MethodGet, version, "/blocks/list/:proposer", pbl.BlocksByProposer)
	app.Handle(http.MethodGet, version, "/blocks/range/:from/:to", pbl.BlocksByNumber)
	app.Handle(http.MethodGet, version, "/blocks/number/:height", pbl.BlockByNumber)
	app.Handle(http.MethodGet, version, "/blocks/number/:height/finalized", pbl.Finalized)
	app.Handle(http.MethodGet, version, "/validators/list", pbl.Validators)
	app.Handle(http.MethodGet, version, "/validators/list/:address", pbl.Validators)
	app.Handle(http.MethodPost, version, "/tx/submit", pbl.SubmitTransaction)
}
