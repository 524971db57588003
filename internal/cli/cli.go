// Package cli implements the a9s command-line interface.
//
// # Commands
//
//   - selector: parse and serialize W3C selectors
//   - list: print the stored annotations of a source
//   - render: draw annotations as SVG
//   - crop: export an annotated region as PNG
//   - replay: feed recorded pointer events through a headless annotator
//   - draw: draw and edit annotations interactively in the terminal
//   - serve: run the HTTP API
//   - cache: manage the render cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// installs log-backed observability hooks for tools, stores and caches.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/a9s/pkg/annotation"
	"github.com/matzehuels/a9s/pkg/buildinfo"
	"github.com/matzehuels/a9s/pkg/cache"
	"github.com/matzehuels/a9s/pkg/config"
	"github.com/matzehuels/a9s/pkg/selector"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "a9s"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger     *log.Logger
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. Debug level installs the
// observability hooks.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		installHooks(c.Logger)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "a9s draws and edits image annotations",
		Long:         `a9s is a toolkit for rectangle and polygon annotations on images: it parses and serializes W3C selectors, stores annotations, renders them as SVG and lets you draw them interactively.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/a9s/config.toml)")

	root.AddCommand(c.selectorCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.cropCommand())
	root.AddCommand(c.replayCommand())
	root.AddCommand(c.drawCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Resources
// =============================================================================

// loadConfig reads the --config file, or the default path when unset.
func (c *CLI) loadConfig() (config.Config, error) {
	path := c.configPath
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return config.Default(), nil
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	c.Logger.Debug("config loaded", "path", path, "store", cfg.Store.Backend)
	return cfg, nil
}

// openStore opens the configured annotation store. Network backends show a
// spinner while connecting.
func (c *CLI) openStore(ctx context.Context, cfg config.Config) (annotation.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendRedis, config.BackendMongo:
		s := newSpinner(ctx, "Connecting to "+cfg.Store.Backend+"...")
		s.Start()
		store, err := annotation.Open(ctx, cfg.Store, c.Logger)
		s.Stop()
		return store, err
	}
	return annotation.Open(ctx, cfg.Store, c.Logger)
}

// openCache opens the configured render cache, or a null cache if noCache.
func (c *CLI) openCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		cfg.Cache.Backend = config.BackendNone
	}
	return cache.Open(ctx, cfg, c.Logger)
}

// imageContext returns the configured image context, with flag overrides.
func imageContext(cfg config.Config, width, height float64, unit string) selector.ImageContext {
	img := selector.ImageContext{
		Width:  cfg.Image.Width,
		Height: cfg.Image.Height,
		Unit:   selector.Unit(cfg.Image.Unit),
	}
	if width > 0 {
		img.Width = width
	}
	if height > 0 {
		img.Height = height
	}
	if unit != "" {
		img.Unit = selector.Unit(unit)
	}
	return img
}
