package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brightpath/ldscreen/internal/scoring"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print the results dashboard of a finished session",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()

		sess, err := sessionFlags(cmd)
		if err != nil {
			return err
		}
		d, err := e.service().Dashboard(cmd.Context(), sess)
		if err != nil {
			return fmt.Errorf("fetch dashboard: %w", err)
		}
		printDashboard(cmd.OutOrStdout(), d)
		return nil
	},
}

func init() {
	addSessionFlags(dashboardCmd)
}

func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().Int64("user", 0, "User ID")
	cmd.Flags().String("session", "", "Session ID")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("session")
}

func sessionFlags(cmd *cobra.Command) (scoring.Session, error) {
	user, _ := cmd.Flags().GetInt64("user")
	id, _ := cmd.Flags().GetString("session")
	if strings.TrimSpace(id) == "" {
		return scoring.Session{}, fmt.Errorf("--session must not be empty")
	}
	return scoring.Session{UserID: user, SessionID: id}, nil
}

func printDashboard(w io.Writer, d scoring.Dashboard) {
	fmt.Fprintf(w, "Student:     %s (age %s)\n", d.StudentID, d.AgeGroup)
	fmt.Fprintf(w, "Assessed:    %s\n", d.AssessmentDate)
	fmt.Fprintf(w, "Result:      %s\n", d.FinalRisk)
	fmt.Fprintf(w, "Confidence:  %s\n", d.Confidence)
	fmt.Fprintf(w, "Risk level:  %d%%\n", d.RiskLevel)
	if d.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", d.Summary)
	}
	if len(d.KeyInsights) > 0 {
		fmt.Fprintln(w)
		for _, in := range d.KeyInsights {
			fmt.Fprintf(w, "  • %s\n", in)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-8s  %8s  %9s  %-24s\n", "Domain", "Accuracy", "Avg time", "Common mistake")
	fmt.Fprintln(w, strings.Repeat("─", 56))
	for _, name := range scoring.PatternDomains {
		p, ok := d.Patterns[name]
		if !ok {
			continue
		}
		mistake := p.CommonMistake
		if mistake == "" {
			mistake = "-"
		}
		fmt.Fprintf(w, "%-8s  %7.0f%%  %8.1fs  %-24s\n", name, p.Accuracy, p.AvgTime/1000, mistake)
		if p.Recommendation != "" {
			fmt.Fprintf(w, "          %s\n", p.Recommendation)
		}
	}
}
