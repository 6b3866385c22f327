// Package commands holds the mealshare command line interface.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/mealshare/internal/config"
	"github.com/deppfellow/mealshare/internal/logger"
	"github.com/deppfellow/mealshare/internal/repository"
	"github.com/deppfellow/mealshare/internal/server"
	"github.com/deppfellow/mealshare/internal/service"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var rootCmd = &cobra.Command{
	Use:           "mealshare",
	Short:         "Manage the meals of the mealshare community",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func GetRootCmd() *cobra.Command {
	return rootCmd
}

// app is everything a command needs, built from the environment.
type app struct {
	cfg      *config.Config
	logger   *zerolog.Logger
	server   *server.Server
	services *service.Services
}

// bootstrap loads the config, sets up logging and connects to the database.
// The caller must call shutdown.
func bootstrap() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	loggerService, err := logger.NewLoggerService(cfg.Observability)
	if err != nil {
		return nil, err
	}

	log := logger.NewLogger(cfg.Observability, loggerService)

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		loggerService.Shutdown()
		return nil, err
	}

	repos := repository.NewRepositories(srv)

	services, err := service.NewService(srv, repos)
	if err != nil {
		_ = srv.Shutdown(context.Background())
		return nil, fmt.Errorf("could not create services: %w", err)
	}

	return &app{
		cfg:      cfg,
		logger:   &log,
		server:   srv,
		services: services,
	}, nil
}

func (a *app) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error().Err(err).Msg("shutdown failed")
	}
}

// run executes fn inside a New Relic transaction named after the command
// when New Relic is active.
func (a *app) run(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	if nrApp := a.server.LoggerService.GetApplication(); nrApp != nil {
		txn := nrApp.StartTransaction("cli/" + name)
		defer txn.End()
		ctx = newrelic.NewContext(ctx, txn)
	}

	return fn(ctx)
}
