package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bubblerow/pkg/buildinfo"
	"github.com/matzehuels/bubblerow/pkg/cache"
	"github.com/matzehuels/bubblerow/pkg/config"
	"github.com/matzehuels/bubblerow/pkg/observability"
	"github.com/matzehuels/bubblerow/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "bubblerow"

	// slowCacheTimeout bounds connecting to a networked cache backend.
	slowCacheTimeout = 10 * time.Second
)

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

	configPath string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. The config file is read when a command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level. At debug level the pipeline and
// cache hooks log through the CLI logger.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := observability.LogHooks{Logger: c.Logger}
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Bubblerow lines up entities as size-sorted bubbles",
		Long:          `Bubblerow sorts entities by a metric and packs them into a row of area-proportional bubbles, then lets you scroll along the row with one bubble always shown at reference size.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/bubblerow/config.toml)")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.frameCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file named by --config, or the default one.
func (c *CLI) loadConfig() error {
	cfg, undecoded, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if len(undecoded) > 0 {
		c.Logger.Warn("ignoring unknown config keys", "keys", undecoded)
	}
	c.cfg = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cache, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(cache, nil, c.Logger)
	runner.TTL = c.cfg.Cache.TTL.Std()
	return runner, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		dir = ""
	}
	opts := c.cfg.CacheOptions(dir)

	switch opts.Backend {
	case cache.BackendRedis, cache.BackendMongo:
		ctx, cancel := context.WithTimeout(ctx, slowCacheTimeout)
		defer cancel()
		spinner := newSpinnerWithContext(ctx, "Connecting to "+opts.Backend+" cache...")
		spinner.Start()
		cc, err := cache.Open(ctx, opts)
		spinner.Stop()
		if err != nil {
			c.Logger.Warn("cache unavailable, continuing without it", "backend", opts.Backend, "err", err)
			return cache.NewNullCache(), nil
		}
		return cc, nil
	case cache.BackendFile:
		if opts.Dir == "" {
			return cache.NewNullCache(), nil
		}
	}
	return cache.Open(ctx, opts)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/bubblerow/).
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

// =============================================================================
// Options Helpers
// =============================================================================

// layoutFlags are the layout options shared by layout, frame, browse and
// serve.
type layoutFlags struct {
	data      string
	metric    string
	reference int
	centered  int
	gapRatio  float64
	fixedGap  float64
	refresh   bool
	noCache   bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.data, "data", "d", "", "dataset file (.json, .toml, .yaml); default: built-in sample")
	cmd.Flags().StringVarP(&f.metric, "metric", "m", "", "metric: persons, turnover, turnover-per-person")
	cmd.Flags().IntVar(&f.reference, "reference", 0, "entity id whose scale is normalized to 1")
	cmd.Flags().IntVar(&f.centered, "centered", 0, "entity id to keep centred")
	cmd.Flags().Float64Var(&f.gapRatio, "gap-ratio", 0, "gap between neighbours as a fraction of the smaller radius")
	cmd.Flags().Float64Var(&f.fixedGap, "fixed-gap", 0, "absolute gap between neighbours (overrides --gap-ratio)")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even if a cached layout exists")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// layoutOptions layers flags the user set over the config file values.
func (c *CLI) layoutOptions(cmd *cobra.Command, f *layoutFlags) pipeline.Options {
	opts := c.cfg.PipelineOptions()
	flags := cmd.Flags()
	if flags.Changed("data") {
		opts.DataPath = f.data
	}
	if flags.Changed("metric") {
		opts.Metric = f.metric
	}
	if flags.Changed("reference") {
		id := f.reference
		opts.Reference = &id
	}
	if flags.Changed("centered") {
		id := f.centered
		opts.PreviousCentered = &id
	}
	if flags.Changed("gap-ratio") {
		opts.GapRatio = f.gapRatio
	}
	if flags.Changed("fixed-gap") {
		opts.FixedGap = f.fixedGap
	}
	opts.Refresh = f.refresh
	opts.Logger = c.Logger
	return opts
}
