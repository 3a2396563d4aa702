package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/genehive/genehive/internal/config"
	"github.com/genehive/genehive/internal/server"
	"github.com/genehive/genehive/pkg/cache"
	"github.com/genehive/genehive/pkg/pipeline"
	"github.com/genehive/genehive/pkg/session"
	"github.com/genehive/genehive/pkg/snapshot"
	"github.com/genehive/genehive/pkg/store"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the genehive HTTP API",
		Long: `Run the genehive HTTP API.

The server exposes the simulate, layout, catalog, export and tree storage
endpoints consumed by the frontend. Cache, store and catalog backends are
selected through the config file; see --config.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

// runServe wires the configured backends together and serves until the
// context is cancelled.
func (c *CLI) runServe(ctx context.Context, cfg config.Config) error {
	cch, err := c.serveCache(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}

	trees, err := serveStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize tree store: %w", err)
	}
	defer trees.Close(context.Background())

	cat, err := c.openCatalog(ctx)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer closeCatalog(cat)

	runner := pipeline.NewRunner(cch, nil, c.Logger)
	defer runner.Close()

	srv := server.New(server.Options{
		Runner:      runner,
		Catalog:     cat,
		Trees:       trees,
		Logger:      c.Logger,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	if !cfg.Autosave.Disabled {
		saver := session.NewAutosaver(trees, "workspace", cfg.AutosaveInterval(), c.Logger)
		saver.Source = func() snapshot.Snapshot {
			snap, _ := srv.Workspace()
			return snap
		}
		saver.Start(ctx)
		defer saver.Stop()
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", cfg.Server.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	}
}

// serveCache builds the pipeline cache from configuration.
func (c *CLI) serveCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, cfg.Cache.RedisAddr)
	case "", "file":
		dir := cfg.Cache.Dir
		if dir == "" {
			var err error
			dir, err = cacheDir()
			if err != nil {
				return nil, err
			}
		}
		return cache.NewFileCache(dir)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// serveStore builds the tree store from configuration.
func serveStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "memory":
		return store.NewMemory(), nil
	case "mongo":
		return store.NewMongo(ctx, cfg.Store.MongoURI, cfg.Store.MongoDatabase)
	case "", "file":
		return session.NewFileStore(cfg.Store.Dir)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
