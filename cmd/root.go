package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ldscreen",
	Short: "Learning difference screening for children",
	Long: "ldscreen runs a short adaptive screening for signs of dyslexia, dyscalculia and\n" +
		"attention difficulties in children aged 6 to 14, plus practice mini-games.\n" +
		"It is a screening aid, not a diagnosis.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite journal (overrides LDSCREEN_DB)")
	pf.String("api", "", "Scoring service base URL (overrides LDSCREEN_API_URL)")
	pf.Bool("offline", false, "Use the built-in practice scorer instead of a remote service")
	pf.String("env-file", ".env", "Optional dotenv file to load")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}
