// Package cli provides the command-line interface for Breakwatch
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/breakwatch/breakwatch/pkg/config"
	"github.com/breakwatch/breakwatch/pkg/logger"
	"github.com/breakwatch/breakwatch/pkg/registry"
	"github.com/breakwatch/breakwatch/pkg/types"
)

// CLI encapsulates the command-line interface and makes it testable by
// eliminating global state.
type CLI struct {
	config   *Config
	rootCmd  *cobra.Command
	logger   logger.Logger
	output   io.Writer
	errorOut io.Writer
	stdin    io.Reader
}

// NewCLI creates a new CLI instance with the given configuration
func NewCLI(cfg *Config) *CLI {
	if cfg == nil {
		cfg = NewConfig()
	}

	cli := &CLI{
		config:   cfg,
		output:   os.Stdout,
		errorOut: os.Stderr,
		stdin:    os.Stdin,
	}

	cli.setupCommands()
	return cli
}

// NewCLIWithIO creates a CLI with custom streams (for testing)
func NewCLIWithIO(cfg *Config, stdin io.Reader, output, errorOut io.Writer) *CLI {
	cli := NewCLI(cfg)
	cli.stdin = stdin
	cli.output = output
	cli.errorOut = errorOut
	return cli
}

// Execute runs the CLI with the given arguments
func (c *CLI) Execute(args []string) error {
	c.rootCmd.SetArgs(args)
	return c.rootCmd.Execute()
}

// ExecuteContext runs the CLI with context support
func (c *CLI) ExecuteContext(ctx context.Context, args []string) error {
	c.rootCmd.SetArgs(args)
	return c.rootCmd.ExecuteContext(ctx)
}

func (c *CLI) setupCommands() {
	c.rootCmd = &cobra.Command{
		Use:   "breakwatch",
		Short: "Resolve and watch the active breakpoint among registered ranges",
		Long: `Breakwatch resolves, at any instant, which named breakpoint is active
among a registered set of possibly-overlapping condition ranges, and
publishes deterministic, coalesced change notifications as the viewport
moves across them.`,

		PersistentPreRunE: c.initializeConfig,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	c.setupFlags()

	c.rootCmd.Version = c.config.Version
	c.rootCmd.SetVersionTemplate("breakwatch v{{.Version}}\n")
	c.rootCmd.SetOut(c.output)
	c.rootCmd.SetErr(c.errorOut)

	c.rootCmd.AddCommand(c.newListCmd())
	c.rootCmd.AddCommand(c.newResolveCmd())
	c.rootCmd.AddCommand(c.newWatchCmd())
}

func (c *CLI) setupFlags() {
	flags := c.rootCmd.PersistentFlags()

	flags.StringVar(&c.config.ConfigFile, "config", "", "breakpoint config file (default: breakwatch.config.json)")
	flags.StringVarP(&c.config.Verbosity, "verbosity", "v", "info", "log level (debug, info, warn, error)")
}

func (c *CLI) initializeConfig(cmd *cobra.Command, args []string) error {
	c.logger = logger.CreateLogger("", c.config.Verbosity)

	if c.config.ConfigFile != "" {
		viper.SetConfigFile(c.config.ConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("breakwatch.config")
		viper.SetConfigType("json")
	}

	viper.SetEnvPrefix("BREAKWATCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		c.config.ConfigFile = viper.ConfigFileUsed()
		if c.config.Verbosity == "debug" {
			c.logger.Debug("Using config file",
				logger.WithField("file", viper.ConfigFileUsed()))
		}
	}

	return nil
}

// buildRegistry merges the default dataset with the configured custom list
func (c *CLI) buildRegistry() (*registry.Registry, error) {
	var custom []types.BreakPoint

	if c.config.ConfigFile != "" {
		if _, err := os.Stat(c.config.ConfigFile); err == nil {
			loaded, err := config.NewManager().LoadBreakPoints(c.config.ConfigFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load breakpoints: %w", err)
			}
			custom = loaded
		}
	}

	return registry.Build(config.DefaultBreakPoints(), custom, c.config.RequiredAliases...)
}

// monitorConfig reads the scheduling/notification sections of the config
// file, falling back to defaults when absent.
func (c *CLI) monitorConfig() (*types.MonitorConfig, *types.NotificationConfig) {
	defaults := config.NewManager().GetDefaultConfig()
	mon, notif := defaults.Monitor, defaults.Notifications

	if c.config.ConfigFile != "" {
		if cf, err := config.NewManager().LoadFile(c.config.ConfigFile); err == nil {
			if cf.Monitor != nil {
				mon = cf.Monitor
			}
			if cf.Notifications != nil {
				notif = cf.Notifications
			}
		}
	}
	return mon, notif
}
