package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/plus3/blockfall/leaderboard"
)

var errNoLeaderboard = errors.New("no leaderboard url configured (set [leaderboard] url or BLOCKFALL_LEADERBOARD_URL)")

func (c *CLI) scoresCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Print the leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.Leaderboard.URL == "" {
				return errNoLeaderboard
			}
			if limit <= 0 {
				limit = c.cfg.Leaderboard.Show
			}

			client := leaderboard.NewClient(c.cfg.Leaderboard.URL)
			records, err := client.Top(cmd.Context(), limit)
			if err != nil {
				return err
			}
			printScores(c.out, records)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of scores to show (default from config)")
	return cmd
}

func printScores(w io.Writer, records []leaderboard.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, styleDim.Render("no scores yet"))
		return
	}

	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			r.Nickname,
			strconv.Itoa(r.Score),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleDim).
		Headers("#", "Nickname", "Score", "When").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1: // header
				return styleHeader
			case col == 2:
				return styleNumber
			case col == 3:
				return styleDim
			}
			return styleValue
		})

	fmt.Fprintln(w, styleTitle.Render("High scores"))
	fmt.Fprintln(w, t.Render())
}
