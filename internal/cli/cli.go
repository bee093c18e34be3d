package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/knapset/internal/config"
	"github.com/matzehuels/knapset/pkg/buildinfo"
	"github.com/matzehuels/knapset/pkg/cache"
	"github.com/matzehuels/knapset/pkg/pipeline"
	"github.com/matzehuels/knapset/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

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

	// Config is loaded by the root command before any subcommand runs.
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and the built-in
// configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "knapset finds maximum-value independent sets under a weight capacity",
		Long: `knapset solves the capacity-constrained maximum-weight independent set
problem exactly: given a graph whose vertices carry a weight and a value, it
finds pairwise non-adjacent vertices of maximal total value whose total
weight fits the capacity.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/knapset/config.toml)")

	// Register all subcommands
	root.AddCommand(c.solveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.verifyCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewDefaultKeyer()
	if c.Config.Cache.Backend == config.CacheRedis {
		keyer = cache.NewScopedKeyer(keyer, "cli:")
	}
	r := pipeline.NewRunner(ch, keyer, c.Logger)
	r.TTL = c.Config.Cache.TTL.Duration
	return r, nil
}

// newCache opens the configured cache backend. An unusable file cache
// directory disables caching instead of failing the command.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.Config.Redis.Addr,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
			Prefix:   c.Config.Redis.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		dir, err := c.Config.CacheDir()
		if err != nil {
			c.Logger.Warn("cache disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			c.Logger.Warn("cache disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		return fc, nil
	}
}

// newStore opens the configured run archive.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	switch c.Config.Store.Backend {
	case config.StoreMongo:
		ms, err := store.NewMongoStore(ctx, store.MongoOptions{
			URI:        c.Config.Store.MongoURI,
			Database:   c.Config.Store.Database,
			Collection: c.Config.Store.Collection,
		})
		if err != nil {
			return nil, err
		}
		return ms, nil
	default:
		return store.NewMemoryStore(), nil
	}
}

// =============================================================================
// Options Helpers
// =============================================================================

// solverDefaults returns pipeline options seeded from the [solver] config.
func (c *CLI) solverDefaults() pipeline.Options {
	return pipeline.Options{
		TimeLimit: c.Config.Solver.TimeLimit.Duration,
		MaxSteps:  c.Config.Solver.MaxSteps,
		Logger:    c.Logger,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// flagOrConfig returns the flag value when the flag was set on cmd.
func flagOrConfig[T any](cmd *cobra.Command, name string, flag, cfg T) T {
	if cmd.Flags().Changed(name) {
		return flag
	}
	return cfg
}
