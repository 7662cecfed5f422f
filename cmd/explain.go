package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Write a plain-language summary of a session for parents",
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
		narrator, err := e.narrator(cmd.Context())
		if err != nil {
			if reportNoProvider(cmd.ErrOrStderr(), err) {
				return nil
			}
			return err
		}

		d, err := e.service().Dashboard(cmd.Context(), sess)
		if err != nil {
			return fmt.Errorf("fetch dashboard: %w", err)
		}
		summary, err := narrator.Explain(cmd.Context(), d)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, summary.Headline)
		for _, p := range summary.Paragraphs {
			fmt.Fprintf(w, "\n%s\n", p)
		}
		if len(summary.Activities) > 0 {
			fmt.Fprintln(w, "\nTry at home:")
			for _, a := range summary.Activities {
				fmt.Fprintf(w, "  • %s\n", a)
			}
		}
		return nil
	},
}

func init() {
	addSessionFlags(explainCmd)
}
