// Package cli implements the nix-template command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nix-template/pkg/buildinfo"
	"github.com/matzehuels/nix-template/pkg/cache"
	"github.com/matzehuels/nix-template/pkg/config"
	"github.com/matzehuels/nix-template/pkg/enrich"
	"github.com/matzehuels/nix-template/pkg/integrations/github"
	"github.com/matzehuels/nix-template/pkg/integrations/pypi"
	"github.com/matzehuels/nix-template/pkg/observability"
	"github.com/matzehuels/nix-template/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "nix-template"
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

	// configPath overrides the default config file location (--config).
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level, pipeline, cache and
// HTTP events are logged as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := &debugHooks{logger: c.Logger}
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
// The root command itself generates an expression.
func (c *CLI) RootCommand() *cobra.Command {
	root := c.generateCommand()

	root.Version = buildinfo.Version
	root.SilenceUsage = true
	root.SilenceErrors = true
	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/nix-template/config.toml)")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	root.AddCommand(c.serveCommand())

	return root
}

// =============================================================================
// Config
// =============================================================================

// configFile returns the config file path in effect.
func (c *CLI) configFile() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	return config.DefaultPath()
}

// loadConfig reads the config file layered with the environment.
func (c *CLI) loadConfig() (*config.Config, error) {
	path, err := c.configFile()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "path", path, "maintainer", cfg.Maintainer, "nixpkgs_root", cfg.NixpkgsRoot)
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by live registry clients. The
// returned cache must be closed by the caller.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache, refresh bool) (*pipeline.Runner, cache.Cache, error) {
	backend, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, nil, err
	}
	ttl := cfg.Cache.TTLDuration()

	e := enrich.New(
		github.NewClient(backend, cfg.GitHubToken, ttl),
		pypi.NewClient(backend, ttl),
		enrich.NixPrefetcher{},
		c.Logger,
	)
	e.Refresh = refresh

	return pipeline.NewRunner(e, c.Logger), backend, nil
}

// newCache picks the response cache: none with --no-cache, Redis when
// cache.redis_url is configured, the file cache otherwise.
func newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache.RedisURL != "" {
		return cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
	}
	dir := cfg.Cache.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/nix-template/).
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
