package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nix-template/pkg/config"
)

// configCommand creates the config management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Set preferences used as defaults, stored in $XDG_CONFIG_HOME",
	}

	cmd.AddCommand(c.configSetAliasCommand("name <maintainer>", "Set the default maintainer", "maintainer"))
	cmd.AddCommand(c.configSetAliasCommand("nixpkgs-root <path>", "Set the root directory of nixpkgs", "nixpkgs_root"))
	cmd.AddCommand(c.configSetCommand())
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configPathCommand())

	return cmd
}

// configSetAliasCommand creates a subcommand that sets one fixed key.
func (c *CLI) configSetAliasCommand(use, short, key string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.setConfig(key, args[0])
		},
	}
}

// configSetCommand creates the "config set" subcommand.
func (c *CLI) configSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a preference",
		Long:  "Set a preference. Keys: " + strings.Join(config.Keys(), ", ") + ".",
		Args:  cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return config.Keys(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveDefault
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.setConfig(args[0], args[1])
		},
	}
}

// setConfig updates a single key in the config file. Values from the
// environment are not written back.
func (c *CLI) setConfig(key, value string) error {
	path, err := c.configFile()
	if err != nil {
		return err
	}
	cfg, err := config.ReadFile(path)
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	printSuccess("Set %s to %s", StyleHighlight.Render(key), StyleValue.Render(value))
	printDetail("File: %s", path)
	return nil
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			token := ""
			if cfg.GitHubToken != "" {
				token = "(set)"
			}
			printKeyValue("maintainer", cfg.Maintainer)
			printKeyValue("nixpkgs_root", cfg.NixpkgsRoot)
			printKeyValue("cache.dir", cfg.Cache.Dir)
			printKeyValue("cache.ttl", cfg.Cache.TTLDuration().String())
			printKeyValue("cache.redis_url", cfg.Cache.RedisURL)
			printKeyValue("github_token", token)
			return nil
		},
	}
}

// configPathCommand creates the "config path" subcommand.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configFile()
			if err != nil {
				return fmt.Errorf("get config path: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
