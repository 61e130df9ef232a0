// Package cli implements the blockfall command-line interface.
//
// # Commands
//
//   - play: the game in the terminal
//   - gui: the game in a desktop window, with an optional ImGui overlay
//   - serve: the leaderboard HTTP service
//   - scores: print the leaderboard
//   - stress: headless random-input games with a timing report
//
// All commands read the TOML config named by --config, then .env and the
// environment. --verbose switches logging to debug.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/plus3/blockfall/config"
	"github.com/plus3/blockfall/leaderboard"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

var version = "dev"

// SetVersion sets the version shown by --version.
func SetVersion(v string) {
	version = v
}

// CLI holds state shared by all commands.
type CLI struct {
	Logger *log.Logger

	out        io.Writer
	configPath string
	verbose    bool
	cfg        config.Config
}

// New creates a CLI that logs to w at level and prints results to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    os.Stdout,
		cfg:    config.Default(),
	}
}

// SetOutput redirects command output, e.g. the scores table.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               "blockfall",
		Short:             "Blockfall is a falling-block puzzle game",
		Long:              `Blockfall is a falling-block puzzle game for the terminal and the desktop, with an optional shared leaderboard service.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", config.DefaultPath(), "config file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.playCommand())
	root.AddCommand(c.guiCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.scoresCommand())
	root.AddCommand(c.stressCommand())

	return root
}

// setup loads configuration and attaches the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := cfg.LogLevel()
	if c.verbose {
		level = LogDebug
	}
	c.Logger.SetLevel(level)
	c.Logger.Debug("config loaded", "path", c.configPath)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// newReporter returns nil when no leaderboard URL is configured.
func (c *CLI) newReporter(logger *log.Logger) *leaderboard.Reporter {
	lb := c.cfg.Leaderboard
	if lb.URL == "" {
		return nil
	}
	client := leaderboard.NewClient(lb.URL)
	return leaderboard.NewReporter(client, logger, lb.Timeout.Duration)
}
