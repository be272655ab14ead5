package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/stream"
)

const shutdownTimeout = 5 * time.Second

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	scn, err := buildScenario(cfg)
	if err != nil {
		return err
	}
	sch, err := physics.ParseScheme(cfg.Scheme)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg, cfg.Scenario)

	hub, err := stream.NewHub(scn, stream.Config{
		FPS:        cfg.Stream.FPS,
		Speed:      cfg.Speed,
		Settings:   stepSettings(cmd, cfg, scn),
		Scheme:     sch,
		MaxClients: maxClients,
		Trails:     trails,
	}, logger, collector)
	if err != nil {
		return err
	}
	hub.SetFrameObserver(collector)

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.Handle("/metrics", metrics.Handler(reg))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	srv := &http.Server{
		Addr:              cfg.Stream.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hubDone := make(chan error, 1)
	go func() { hubDone <- hub.Run(ctx) }()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.Stream.Addr, "scenario", cfg.Scenario, "fps", cfg.Stream.FPS)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down server...")
	case err := <-serveErr:
		stop()
		<-hubDone
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-hubDone; err != nil {
		return err
	}

	logger.Info("server stopped", "clients", hub.Clients())
	return nil
}
