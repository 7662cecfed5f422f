package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brightpath/ldscreen/internal/diagnosis"
	"github.com/brightpath/ldscreen/internal/report"
	"github.com/brightpath/ldscreen/internal/store"
	"github.com/brightpath/ldscreen/internal/ui/components"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect the local journal of sessions and responses",
}

var journalSessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List session lifecycle events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()

		events, err := e.store.EventRepo().QuerySessionEvents(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		w := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(w, "No sessions recorded.")
			return nil
		}

		fmt.Fprintf(w, "%-19s  %-36s  %6s  %-5s  %-5s  %4s  %s\n",
			"Timestamp", "Session", "User", "Age", "Step", "Ans", "Result")
		fmt.Fprintln(w, strings.Repeat("─", 110))
		for _, ev := range events {
			result := ""
			if ev.Action == store.ActionEnd {
				result = report.RiskLabel(ev.Risk)
			}
			fmt.Fprintf(w, "%-19s  %s  %6d  %-5s  %-5s  %4d  %s\n",
				ev.Timestamp.Local().Format("2006-01-02 15:04:05"),
				components.FitCell(ev.SessionID, 36),
				ev.UserID, ev.AgeGroup, ev.Action, ev.Answered, result)
		}
		return nil
	},
}

var journalResponsesCmd = &cobra.Command{
	Use:   "responses",
	Short: "List recorded responses from screenings and games",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		session, _ := cmd.Flags().GetString("session")
		source, _ := cmd.Flags().GetString("source")
		if source != "" && source != store.SourceAssessment && source != store.SourceGame {
			return fmt.Errorf("--source must be %q or %q", store.SourceAssessment, store.SourceGame)
		}

		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()

		events, err := e.store.EventRepo().QueryResponseEvents(cmd.Context(),
			store.QueryOpts{Limit: limit, SessionID: session, Source: source})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		w := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(w, "No responses recorded.")
			return nil
		}

		fmt.Fprintf(w, "%-19s  %-10s  %-14s  %-9s  %-6s  %7s  %s\n",
			"Timestamp", "Source", "Task", "Domain", "OK", "Ms", "Mistake")
		fmt.Fprintln(w, strings.Repeat("─", 96))
		for _, ev := range events {
			ok := "✓"
			if !ev.Correct {
				ok = "✗"
			}
			task := ev.Task
			if task == "" {
				task = ev.QuestionID
			}
			mistake := ev.MistakeType
			if ev.Source == store.SourceGame && ev.Task == string(diagnosis.TaskReadAloud) {
				mistake = fmt.Sprintf("%s match, %d letters off", components.Percent(ev.Accuracy), ev.Mistakes)
			}
			fmt.Fprintf(w, "%-19s  %-10s  %s  %-9s  %-6s  %7d  %s\n",
				ev.Timestamp.Local().Format("2006-01-02 15:04:05"),
				ev.Source, components.FitCell(task, 14), ev.Domain, ok, ev.ResponseTimeMs, mistake)
		}
		return nil
	},
}

func init() {
	journalSessionsCmd.Flags().IntP("limit", "n", 20, "Number of events to show")

	journalResponsesCmd.Flags().IntP("limit", "n", 50, "Number of responses to show")
	journalResponsesCmd.Flags().String("session", "", "Only responses of this session or game round")
	journalResponsesCmd.Flags().String("source", "", "Only responses from assessment or game")

	journalCmd.AddCommand(journalSessionsCmd)
	journalCmd.AddCommand(journalResponsesCmd)
}
