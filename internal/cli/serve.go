package cli

import (
	"github.com/spf13/cobra"

	"github.com/plus3/blockfall/leaderboard"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr, store string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the leaderboard service",
		Long: `Run the leaderboard HTTP service.

Scores are kept in memory, SQLite, Redis or MongoDB, chosen by --store or
[server] store in the config.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			if addr != "" {
				c.cfg.Server.Addr = addr
			}
			if store != "" {
				c.cfg.Server.Store = store
			}

			prog := newProgress(logger)
			st, err := leaderboard.Open(ctx, c.cfg.Store())
			if err != nil {
				return err
			}
			defer st.Close()
			prog.done("opened " + c.cfg.Server.Store + " store")

			if err := leaderboard.NewServer(st, logger).ListenAndServe(ctx, c.cfg.Server.Addr); err != nil {
				return err
			}
			logger.Info("leaderboard stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&store, "store", "", "memory, sqlite, redis or mongo (overrides config)")
	return cmd
}
