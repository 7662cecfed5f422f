package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brightpath/ldscreen/internal/app"
	"github.com/brightpath/ldscreen/internal/llm"
	"github.com/brightpath/ldscreen/internal/screens/home"
)

// runApp opens the journal, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer e.close()

	deps := home.Deps{
		Service:  e.service(),
		Events:   e.store.EventRepo(),
		Clock:    e.clock,
		AgeGroup: e.cfg.AgeGroup,
		Log:      e.log,
	}

	narrator, err := e.narrator(cmd.Context())
	switch {
	case err == nil:
		deps.Explainer = narrator
		deps.Coach = narrator
	case !errors.Is(err, llm.ErrNotConfigured):
		fmt.Fprintln(os.Stderr, "LLM provider unavailable:", err)
		fmt.Fprintln(os.Stderr, "Parent summaries and reading feedback will be unavailable.")
	}

	e.log.Info("starting TUI", "scorer", e.status(), "age_group", e.cfg.AgeGroup, "llm", e.cfg.LLM.Provider)
	return app.Run(app.Options{Home: deps, Status: e.status()})
}
