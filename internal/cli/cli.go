// Package cli implements the genehive command-line interface.
//
// This package provides commands for simulating hereditary disease risk
// over family trees, computing 3D pedigree layouts, managing the disease
// catalog and stored trees, and serving the HTTP API. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - simulate: Run risk propagation over a family tree snapshot
//   - layout: Compute generational positions for a tree
//   - diseases: Inspect the disease catalog
//   - export: Produce a shareable export envelope or DOT rendering
//   - trees: Browse stored family trees
//   - serve: Run the HTTP API
//   - cache: Manage the pipeline result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/genehive/genehive/internal/config"
	"github.com/genehive/genehive/pkg/buildinfo"
	"github.com/genehive/genehive/pkg/cache"
	"github.com/genehive/genehive/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "genehive"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the default config file location.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "genehive",
		Short:        "Genehive simulates hereditary disease risk across family trees",
		Long:         `Genehive propagates hereditary disease risk through a family pedigree and lays the tree out generation by generation, so frontends and reports can show who is at risk and why.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default ~/.config/genehive/config.toml)")

	// Register all subcommands
	root.AddCommand(c.simulateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.diseasesCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.treesCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the effective configuration.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.ConfigPath)
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cch, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cch, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/genehive/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
