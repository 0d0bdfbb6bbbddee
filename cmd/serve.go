package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/singme/internal/server"
	"github.com/desertthunder/singme/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

// Serve runs the JSON API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	serverConfig := config.Server
	if cmd.IsSet("host") {
		serverConfig.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		serverConfig.Port = int(cmd.Int("port"))
	}

	engine, err := r.openEngine(cmd)
	if err != nil {
		return err
	}
	defer r.Close()

	logger := shared.WithLogger(r.logger, "component", "server")
	opts := server.APIOpts{
		Engine:    engine,
		Logger:    logger,
		ListLimit: serverConfig.ListLimit,
	}
	if r.metrics != nil {
		opts.Metrics = r.metrics
	}

	var limiter *server.RateLimiter
	if serverConfig.RateLimit.RequestsPerSecond > 0 {
		limiter = server.NewRateLimiter(serverConfig.RateLimit)
		opts.RateLimiter = limiter
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(serverConfig, server.NewAPI(opts), logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})
	if limiter != nil {
		g.Go(func() error {
			limiter.Run(ctx, time.Minute)
			return nil
		})
	}

	return g.Wait()
}
