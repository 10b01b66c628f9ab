package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/taskwave/pkg/analysis"
	"github.com/matzehuels/taskwave/pkg/buildinfo"
	"github.com/matzehuels/taskwave/pkg/cache"
	apperr "github.com/matzehuels/taskwave/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "taskwave"
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

	out        io.Writer
	configPath string
	config     *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output (reports, DOT, manifests written to
// stdout).
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Taskwave analyzes task dependency graphs",
		Long:         `Taskwave validates task dependency graphs, finds their critical path, groups tasks into parallel execution waves, flags resource conflicts and scores how parallel the plan is.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+configFile()+")")

	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.discoverCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// =============================================================================
// Analyzer Factory
// =============================================================================

// analyzerOpts holds the flags shared by commands that analyze manifests.
type analyzerOpts struct {
	penalty    int
	penaltySet bool
	noCache    bool
}

// newAnalyzer creates an analyzer backed by the configured report store.
// The returned store must be closed by the caller.
func (c *CLI) newAnalyzer(ctx context.Context, opts analyzerOpts) (*analysis.Analyzer, cache.Cache, error) {
	cfg := c.config
	if cfg == nil {
		cfg = &Config{}
		cfg.SetDefaults()
	}

	store, err := c.newStore(ctx, opts.noCache)
	if err != nil {
		return nil, nil, err
	}

	penalty := cfg.ConflictPenalty
	if opts.penaltySet {
		penalty = opts.penalty
		if penalty == 0 {
			// An explicit zero disables the penalty rather than selecting the default.
			penalty = -1
		}
	}

	a, err := analysis.New(analysis.Options{
		ConflictPenalty: penalty,
		CacheCapacity:   cfg.CacheCapacity,
		Store:           store,
		Keyer:           cfg.keyer(),
		StoreTTL:        cfg.Store.TTL,
		Logger:          c.Logger,
	})
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return a, store, nil
}

// newStore opens the configured second-tier store. A file store that cannot
// be created degrades to no store, so analysis still works on read-only
// systems.
func (c *CLI) newStore(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache || c.config == nil {
		return cache.NewNullCache(), nil
	}
	s := c.config.Store
	store, err := cache.Open(ctx, cache.Options{
		Backend:       s.Backend,
		Dir:           s.Dir,
		RedisAddr:     s.RedisAddr,
		MongoURI:      s.MongoURI,
		MongoDatabase: s.MongoDatabase,
	})
	if err != nil {
		if s.Backend == cache.BackendFile {
			c.Logger.Warn("report cache disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return nil, apperr.FromAnalysis(err)
	}
	c.Logger.Debug("opened report store", "backend", s.Backend)
	return store, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/taskwave/).
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
