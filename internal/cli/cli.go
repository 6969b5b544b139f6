package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/etchgrid/pkg/buildinfo"
	"github.com/matzehuels/etchgrid/pkg/cache"
	"github.com/matzehuels/etchgrid/pkg/config"
	"github.com/matzehuels/etchgrid/pkg/sketch"
	"github.com/matzehuels/etchgrid/pkg/store"
)

// appName is the application name used for directories and display.
const appName = config.AppName

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
	Logger *log.Logger

	// Set by persistent flags.
	configPath string
	backend    string

	// cfg is loaded in PersistentPreRunE, before any RunE.
	cfg config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "etchgrid is an etch-a-sketch on a grid of square cells",
		Long:         `etchgrid paints a square grid by hovering over it, in the terminal or in the browser. Drawings can be saved, replayed from scripts and exported as PNG or SVG.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/etchgrid/config.toml)")
	root.PersistentFlags().StringVar(&c.backend, "store", "", "sketch store backend: local, redis or memory")

	root.AddCommand(c.drawCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.sketchesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared setup
// =============================================================================

func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if c.backend != "" {
		cfg.Store.Backend = c.backend
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	c.cfg = cfg
	c.Logger.Debug("config loaded", "path", path, "store", cfg.Store.Backend)
	return nil
}

// newController builds a controller with the configured defaults.
func (c *CLI) newController(opts ...sketch.Option) *sketch.Controller {
	base := []sketch.Option{
		sketch.WithMode(c.cfg.Grid.DefaultMode),
		sketch.WithContainer(c.cfg.Grid.ContainerPx),
		sketch.WithLogger(c.Logger),
	}
	ctl := sketch.New(append(base, opts...)...)
	if ctl.Size() != c.cfg.Grid.DefaultSize {
		_ = ctl.BuildGrid(c.cfg.Grid.DefaultSize)
	}
	return ctl
}

func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, c.cfg.Store)
}

func (c *CLI) newCache(noCache bool) cache.Cache {
	if noCache || !c.cfg.Cache.Enabled {
		return cache.NewNullCache()
	}
	dir, err := c.cfg.CacheDir()
	if err != nil {
		c.Logger.Debug("cache disabled", "err", err)
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Debug("cache disabled", "err", err)
		return cache.NewNullCache()
	}
	return fc
}
