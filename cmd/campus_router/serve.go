package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"campus_router/pkg/api"
	"campus_router/pkg/routing"
	"campus_router/pkg/watch"
)

func serveCmd(opts *globalOptions) *cobra.Command {
	var (
		addr       string
		dataPath   string
		corsOrigin string
		noWatch    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the routing HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("data") {
				cfg.Data.Path = dataPath
			}
			if cmd.Flags().Changed("cors-origin") {
				cfg.Server.CORSOrigin = corsOrigin
			}
			if noWatch {
				cfg.Data.Watch = false
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger := newLogger(os.Stderr, cfg.Log)

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			metrics := api.NewMetrics(reg)

			live := routing.NewLive(nil)
			reload := func(context.Context) error {
				e, took, err := loadEngine(cfg.Data.Path)
				if err != nil {
					metrics.ObserveReload(routing.Stats{}, err)
					return err
				}
				live.Store(e)
				s := e.Stats()
				metrics.ObserveReload(s, nil)
				logger.Info("Campus data loaded",
					"path", cfg.Data.Path,
					"features", s.Features,
					"locations", s.Locations,
					"nodes", s.Nodes,
					"edges", s.Edges,
					"components", s.Components,
					"took", took)
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := reload(ctx); err != nil {
				if !cfg.Data.Watch {
					return err
				}
				// Serve 503s until the watcher sees a loadable file.
				logger.Error("Initial load failed, waiting for changes", "error", err)
			}

			if cfg.Data.Watch {
				w, err := watch.NewFileWatcher(cfg.Data.Path, cfg.Data.Debounce, func(ctx context.Context) {
					if err := reload(ctx); err != nil {
						logger.Error("Reload failed, keeping previous data", "path", cfg.Data.Path, "error", err)
					}
				}, logger)
				if err != nil {
					return fmt.Errorf("create watcher: %w", err)
				}
				if err := w.Start(ctx); err != nil {
					return err
				}
				defer w.Stop()
			}

			serverCfg := api.ServerConfig{
				Addr:           cfg.Server.Addr,
				ReadTimeout:    cfg.Server.ReadTimeout,
				WriteTimeout:   cfg.Server.WriteTimeout,
				RequestTimeout: cfg.Server.RequestTimeout,
				MaxConcurrent:  cfg.Server.MaxConcurrent,
				CORSOrigin:     cfg.Server.CORSOrigin,
				Logger:         logger,
				Metrics:        metrics,
				Gatherer:       reg,
			}
			srv := api.NewServer(serverCfg, api.NewHandlers(live, metrics, logger))
			return api.ListenAndServe(ctx, srv, logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "HTTP listen address")
	cmd.Flags().StringVar(&dataPath, "data", "campus.geojson", "Campus GeoJSON FeatureCollection")
	cmd.Flags().StringVar(&corsOrigin, "cors-origin", "", "CORS allowed origin (empty = same-origin)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload the data file when it changes")

	return cmd
}
