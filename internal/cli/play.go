package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/frontend/gui"
	"github.com/plus3/blockfall/frontend/term"
)

type gameFlags struct {
	nickname string
	seed     uint64
}

func (f *gameFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.nickname, "nickname", "", "name submitted with your score (overrides config)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "fix the piece sequence (overrides config)")
}

// apply folds the flags into the loaded config.
func (f *gameFlags) apply(c *CLI) {
	if f.nickname != "" {
		c.cfg.Leaderboard.Nickname = f.nickname
	}
	if f.seed != 0 {
		c.cfg.Board.Seed = f.seed
	}
}

func (c *CLI) playCommand() *cobra.Command {
	var flags gameFlags
	var logFile string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Long:  `Play in the terminal. Scores are submitted to the configured leaderboard when the game ends.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(c)
			keys, err := c.cfg.Keymap()
			if err != nil {
				return err
			}

			// The terminal belongs to the game; log to a file or nowhere.
			var w io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			logger := newLogger(w, c.Logger.GetLevel())

			final, err := term.Play(cmd.Context(), term.Options{
				Game:     engine.New(c.cfg.GameOptions()...),
				Keys:     keys,
				Descent:  c.cfg.Descent(),
				Frame:    c.cfg.Pacing.Frame.Duration,
				Reporter: c.newReporter(logger),
				Nickname: c.cfg.Leaderboard.Nickname,
				Show:     c.cfg.Leaderboard.Show,
			})
			if err != nil {
				return err
			}
			printSummary(c.out, final)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while playing")
	return cmd
}

func (c *CLI) guiCommand() *cobra.Command {
	var flags gameFlags
	var debug bool

	cmd := &cobra.Command{
		Use:   "gui",
		Short: "Play in a desktop window",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(c)
			keys, err := c.cfg.Keymap()
			if err != nil {
				return err
			}
			logger := loggerFromContext(cmd.Context())

			final, err := gui.Run(cmd.Context(), gui.Options{
				Game:     engine.New(c.cfg.GameOptions()...),
				Keys:     keys,
				Repeat:   c.cfg.Repeat(),
				Descent:  c.cfg.Descent(),
				Reporter: c.newReporter(logger),
				Nickname: c.cfg.Leaderboard.Nickname,
				Show:     c.cfg.Leaderboard.Show,
				Logger:   logger,
				Debug:    debug,
			})
			if err != nil {
				return err
			}
			printSummary(c.out, final)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&debug, "debug", false, "show the ImGui debug overlay")
	return cmd
}

func printSummary(w io.Writer, s engine.Snapshot) {
	fmt.Fprintf(w, "%s %s  %s %s  %s %s\n",
		styleLabel.Render("score"), styleNumber.Render(fmt.Sprint(s.Score)),
		styleLabel.Render("lines"), styleNumber.Render(fmt.Sprint(s.Lines)),
		styleLabel.Render("level"), styleNumber.Render(fmt.Sprint(s.Level)),
	)
}

