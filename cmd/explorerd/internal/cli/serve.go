package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/lila-explorer/openingexplorer/internal/httpapi"
	"github.com/lila-explorer/openingexplorer/internal/respcache"
)

const shutdownGrace = 15 * time.Second

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP query/import API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "HTTP listen address")
	return cmd
}

func runServe(addr string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	app, closeApp, err := openApp(flagDataDir, cfg, log, prometheus.DefaultRegisterer, false)
	if err != nil {
		return err
	}
	defer closeApp()

	srv := httpapi.New(httpapi.Deps{
		Config:    cfg,
		Logger:    log,
		Metrics:   app.Metrics,
		Cache:     respcache.New(respcache.DefaultMaxEntries, cfg.Cache.TTL, cfg.Cache.MaxMoves),
		Master:    app.Master,
		MasterPgn: app.MasterPgn,
		GameInfo:  app.GameInfo,
		Lichess:   app.Lichess,
	})

	httpServer := &http.Server{Addr: addr, Handler: srv.Router()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Info("serving", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		log.Info("shutting down", "reason", ctx.Err())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-serveErr
}
