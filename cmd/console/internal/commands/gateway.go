package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/paydeck/console/internal/gateway"
	"github.com/paydeck/console/internal/guard"
	"github.com/paydeck/console/internal/logger"
)

type GatewayCmd struct {
	Listen       string        `help:"HTTP server listen address" default:"localhost:8080" env:"CONSOLE_LISTEN"`
	CORSOrigins  []string      `help:"allowed CORS origins for API requests" default:"http://localhost:8080" env:"CONSOLE_CORS_ORIGINS"`
	PollInterval time.Duration `help:"reconciliation poll interval" default:"500ms" env:"CONSOLE_POLL_INTERVAL"`
	Routes       string        `help:"YAML file of route classification overrides" default:"" env:"CONSOLE_ROUTES"`

	StateFlags `embed:""`
}

func (c *GatewayCmd) Run(globals *Globals) error {
	log := logger.Setup(globals.Debug)
	zlog.Logger = log

	log.Info().Str("version", globals.Version).Bool("debug", globals.Debug).Msg("Starting gateway")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng, err := c.buildEngine(nil, c.PollInterval)
	if err != nil {
		return err
	}

	routes := guard.DefaultRouteTable()
	if c.Routes != "" {
		if err := routes.LoadOverrides(c.Routes); err != nil {
			return err
		}
	}

	// The poller lives for the lifetime of the gateway and is torn down
	// with it via ctx.
	go eng.poller.Run(ctx)

	gw := gateway.New(eng.controller, guard.New(eng.registry, routes), log, c.CORSOrigins)

	server := &http.Server{
		Addr:              c.Listen,
		Handler:           gw.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Failed to shut down gateway cleanly")
		}
	}()

	log.Info().
		Str("addr", c.Listen).
		Str("stateDir", eng.store.BaseDir()).
		Dur("pollInterval", c.PollInterval).
		Msg("Gateway listening")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
