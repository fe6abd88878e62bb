package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"helpnow/internal/auth"
	"helpnow/internal/server"
	"helpnow/internal/volunteer"

	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := loadConfig(cCtx.String("env-prefix"))
	if err != nil {
		return err
	}

	if config.AccessTokenSecret == "" {
		return fmt.Errorf("set ACCESS_TOKEN_SECRET")
	}

	logger := newLogger(config)

	hashKey, blockKey, err := cookieKeys(config, logger)
	if err != nil {
		return err
	}

	authenticator, err := auth.New(auth.Options{
		Secret:     []byte(config.AccessTokenSecret),
		TTL:        time.Duration(config.SessionMaxAgeSec) * time.Second,
		HashKey:    hashKey,
		BlockKey:   blockKey,
		Production: config.IsProduction(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize authenticator: %w", err)
	}

	repos, err := openStores(ctx, config, logger)
	if err != nil {
		return err
	}
	defer repos.close()

	volunteers := volunteer.NewService(logger, repos.needs, repos.requests)

	srv, err := server.New(config, logger, authenticator, volunteers)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
