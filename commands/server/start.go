package server

import (
	"net/http"

	"github.com/UZHBCON/deathnote/api"
	"github.com/UZHBCON/deathnote/app"
	"github.com/UZHBCON/deathnote/errors"
	"github.com/UZHBCON/deathnote/x/testament"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tendermint/tendermint/abci/server"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(home string, logger log.Logger, debug bool, reg prometheus.Registerer) (*app.BaseApp, error)

// StartOptions are the runtime settings of the start command.
type StartOptions struct {
	// Bind is the address the ABCI server listens on.
	Bind string
	// HTTP is the address of the read only API. Empty disables it.
	HTTP string
	// Debug returns call stacks of errors to clients.
	Debug bool
}

// StartCmd initializes the application, serves it over an ABCI socket and
// exposes the read only API. It blocks until the process is terminated.
func StartCmd(gen AppGenerator, logger log.Logger, home string, opts StartOptions) error {
	reg := prometheus.NewRegistry()
	base, err := gen(home, logger, opts.Debug, reg)
	if err != nil {
		return err
	}

	hub := testament.NewHub()
	base.Subscribe(hub)

	logger.Info("Starting ABCI app", "bind", opts.Bind)
	svr, err := server.NewServer(opts.Bind, "socket", base)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrapf(errors.ErrState, "cannot start abci server: %s", err)
	}

	var httpSrv *http.Server
	events := api.NewEvents(hub, logger.With("module", "events"))
	if opts.HTTP != "" {
		httpSrv = &http.Server{
			Addr:    opts.HTTP,
			Handler: api.NewRouter(app.NewABCIStore(base), events, reg, logger.With("module", "api")),
		}
		logger.Info("Starting API", "http", opts.HTTP)
		go func() {
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("API stopped", "err", err)
			}
		}()
	}

	cmn.TrapSignal(logger, func() {
		if httpSrv != nil {
			httpSrv.Close()
		}
		events.Close()
		svr.Stop()
	})

	// TrapSignal exits the process
	select {}
}
