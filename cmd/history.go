package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/brightpath/ldscreen/internal/history"
	"github.com/brightpath/ldscreen/internal/report"
	"github.com/brightpath/ldscreen/internal/ui/components"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print past session scores grouped by day",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetInt64("user")

		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()

		entries, err := e.service().History(cmd.Context(), user)
		if err != nil {
			return fmt.Errorf("fetch history: %w", err)
		}
		printHistory(cmd.OutOrStdout(), history.Group(entries, time.Local))
		return nil
	},
}

func init() {
	historyCmd.Flags().Int64("user", 0, "User ID")
	_ = historyCmd.MarkFlagRequired("user")
}

var historyColumns = []struct {
	title string
	width int
}{
	{"Day", 7}, {"Time", 5}, {"Dyslexia", 9}, {"Dyscalculia", 11}, {"Attention", 9}, {"Result", 36},
}

// printHistory writes one row per session and a dotted rule between days.
func printHistory(w io.Writer, points []history.Point) {
	if len(history.Sessions(points)) == 0 {
		fmt.Fprintln(w, "No past sessions yet.")
		return
	}

	cells := make([]string, len(historyColumns))
	total := 0
	for i, c := range historyColumns {
		cells[i] = components.FitCell(c.title, c.width)
		total += c.width + 2
	}
	fmt.Fprintln(w, strings.Join(cells, "  "))
	fmt.Fprintln(w, strings.Repeat("─", total))

	for _, p := range points {
		if p.Spacer {
			fmt.Fprintln(w, strings.Repeat("┄", total))
			continue
		}
		values := []string{
			p.Label,
			p.At.In(time.Local).Format("15:04"),
			components.Percent(p.Entry.DyslexiaScore),
			components.Percent(p.Entry.DyscalculiaScore),
			components.Percent(p.Entry.AttentionScore),
			report.RiskLabel(p.Entry.RiskLabel),
		}
		for i, c := range historyColumns {
			cells[i] = components.FitCell(values[i], c.width)
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
}
