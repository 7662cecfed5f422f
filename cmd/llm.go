package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brightpath/ldscreen/internal/llm"
	"github.com/brightpath/ldscreen/internal/store"
	"github.com/brightpath/ldscreen/internal/ui/components"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect parent-summary and reading-feedback LLM calls",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()

		events, err := e.store.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query llm events: %w", err)
		}
		if purpose != "" {
			events = filterPurpose(events, purpose)
		}
		printLLMEvents(cmd.OutOrStdout(), events)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the captured request and response of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid event id %q", args[0])
		}

		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()

		ev, err := e.store.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get llm event: %w", err)
		}
		if ev == nil {
			return fmt.Errorf("llm event %d not found", id)
		}
		printLLMEvent(cmd.OutOrStdout(), *ev)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()

		repo := e.store.EventRepo()
		byPurpose, err := repo.LLMUsageByPurpose(cmd.Context())
		if err != nil {
			return fmt.Errorf("usage by purpose: %w", err)
		}
		byModel, err := repo.LLMUsageByModel(cmd.Context())
		if err != nil {
			return fmt.Errorf("usage by model: %w", err)
		}
		printLLMUsage(cmd.OutOrStdout(), byPurpose, byModel)
		return nil
	},
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show one purpose (parent-summary, reading-feedback)")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}

func filterPurpose(events []store.LLMEvent, purpose string) []store.LLMEvent {
	kept := events[:0]
	for _, ev := range events {
		if ev.Purpose == purpose {
			kept = append(kept, ev)
		}
	}
	return kept
}

type column struct {
	title string
	width int
}

// row pads each value to its column and joins them with two spaces.
func row(cols []column, values ...string) string {
	cells := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = components.FitCell(values[i], c.width)
	}
	return strings.TrimRight(strings.Join(cells, "  "), " ")
}

func header(w io.Writer, cols []column) {
	titles := make([]string, len(cols))
	total := 0
	for i, c := range cols {
		titles[i] = c.title
		total += c.width + 2
	}
	fmt.Fprintln(w, row(cols, titles...))
	fmt.Fprintln(w, strings.Repeat("─", total-2))
}

var llmListColumns = []column{
	{"ID", 5}, {"When", 16}, {"Purpose", 16}, {"Model", 26}, {"Tokens", 11}, {"Ms", 6}, {"OK", 2},
}

func printLLMEvents(w io.Writer, events []store.LLMEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No LLM calls recorded.")
		return
	}
	header(w, llmListColumns)
	for _, ev := range events {
		ok := "✓"
		if !ev.Success {
			ok = "✗"
		}
		fmt.Fprintln(w, row(llmListColumns,
			strconv.Itoa(ev.ID),
			ev.Timestamp.Local().Format("2006-01-02 15:04"),
			ev.Purpose,
			ev.Model,
			fmt.Sprintf("%d/%d", ev.InputTokens, ev.OutputTokens),
			strconv.FormatInt(ev.LatencyMs, 10),
			ok,
		))
	}
}

func printLLMEvent(w io.Writer, ev store.LLMEvent) {
	fmt.Fprintf(w, "Call %d  %s\n", ev.ID, ev.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "  %s/%s for %s\n", ev.Provider, ev.Model, ev.Purpose)
	fmt.Fprintf(w, "  %d tokens in, %d out, %dms\n", ev.InputTokens, ev.OutputTokens, ev.LatencyMs)
	if !ev.Success {
		fmt.Fprintf(w, "  failed: %s\n", ev.ErrorMessage)
	}
	for _, part := range []struct{ name, body string }{
		{"Request", ev.RequestBody},
		{"Response", ev.ResponseBody},
	} {
		fmt.Fprintf(w, "\n── %s %s\n", part.name, strings.Repeat("─", 40))
		if part.body == "" {
			fmt.Fprintln(w, "(not captured)")
			continue
		}
		fmt.Fprintln(w, part.body)
	}
}

var (
	purposeColumns = []column{{"Purpose", 18}, {"Calls", 6}, {"Input", 9}, {"Output", 9}, {"Avg ms", 7}}
	modelColumns   = []column{{"Model", 30}, {"Calls", 6}, {"Input", 9}, {"Output", 9}, {"Cost", 9}}
)

func printLLMUsage(w io.Writer, byPurpose []store.PurposeUsage, byModel []store.ModelUsage) {
	if len(byPurpose) == 0 {
		fmt.Fprintln(w, "No LLM usage recorded.")
		return
	}

	header(w, purposeColumns)
	var calls, in, out int
	for _, u := range byPurpose {
		fmt.Fprintln(w, row(purposeColumns,
			u.Purpose, strconv.Itoa(u.Calls), strconv.Itoa(u.InputTokens),
			strconv.Itoa(u.OutputTokens), strconv.FormatInt(u.AvgLatencyMs, 10)))
		calls += u.Calls
		in += u.InputTokens
		out += u.OutputTokens
	}
	fmt.Fprintln(w, row(purposeColumns, "total", strconv.Itoa(calls), strconv.Itoa(in), strconv.Itoa(out), ""))

	if len(byModel) == 0 {
		return
	}
	fmt.Fprintln(w)
	header(w, modelColumns)
	var cost float64
	var unpriced []string
	for _, u := range byModel {
		c, ok := llm.EstimateCost(u.Model, u.InputTokens, u.OutputTokens)
		price := "?"
		if ok {
			cost += c
			price = formatCost(c)
		} else {
			unpriced = append(unpriced, u.Model)
		}
		fmt.Fprintln(w, row(modelColumns,
			u.Model, strconv.Itoa(u.Calls), strconv.Itoa(u.InputTokens), strconv.Itoa(u.OutputTokens), price))
	}
	label := "estimated total"
	if len(unpriced) > 0 {
		label += " (partial)"
	}
	fmt.Fprintln(w, row(modelColumns, label, "", "", "", formatCost(cost)))
	if len(unpriced) > 0 {
		fmt.Fprintf(w, "\nNo pricing for %s\n", strings.Join(unpriced, ", "))
	}
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
