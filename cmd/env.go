package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/brightpath/ldscreen/internal/clock"
	"github.com/brightpath/ldscreen/internal/config"
	"github.com/brightpath/ldscreen/internal/devserver"
	"github.com/brightpath/ldscreen/internal/insights"
	"github.com/brightpath/ldscreen/internal/llm"
	"github.com/brightpath/ldscreen/internal/logging"
	"github.com/brightpath/ldscreen/internal/scoring"
	"github.com/brightpath/ldscreen/internal/store"
)

// env is what a command needs at run time. close releases everything it
// opened, in reverse order.
type env struct {
	cfg     *config.Config
	log     *slog.Logger
	store   *store.Store
	clock   clock.Clock
	closers []func() error
}

// loadConfig reads configuration and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if u, _ := cmd.Flags().GetString("api"); u != "" {
		cfg.APIURL = u
	}
	if cmd.Flags().Changed("offline") {
		cfg.Offline, _ = cmd.Flags().GetBool("offline")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setup loads configuration, opens the logger and the journal. Commands that
// own the terminal log to LDSCREEN_LOG_FILE only; others log to stderr.
func setup(cmd *cobra.Command, ownsTerminal bool) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	level, _ := cfg.Level()

	e := &env{cfg: cfg, clock: clock.New()}
	if ownsTerminal {
		log, closeLog, err := logging.Open(cfg.LogFile, level)
		if err != nil {
			return nil, err
		}
		e.log = log
		e.closers = append(e.closers, closeLog)
	} else {
		e.log = logging.New(os.Stderr, level)
	}

	path := cfg.DBPath
	if path == "" {
		if path, err = store.DefaultDBPath(); err != nil {
			e.close()
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
	} else if err := store.EnsureDir(path); err != nil {
		e.close()
		return nil, fmt.Errorf("create DB dir: %w", err)
	}
	st, err := store.Open(path)
	if err != nil {
		e.close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	e.store = st
	e.closers = append(e.closers, st.Close)
	return e, nil
}

func (e *env) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil && e.log != nil {
			e.log.Warn("close", "err", err)
		}
	}
	e.closers = nil
}

// service returns the scoring service with journaling. Offline mode scores
// in-process; its sessions live only as long as the process.
func (e *env) service() scoring.Service {
	var inner scoring.Service
	if e.cfg.Offline {
		inner = devserver.New(devserver.WithClock(e.clock), devserver.WithLogger(e.log))
	} else {
		inner = scoring.NewClient(e.cfg.APIURL, e.cfg.RequestTimeout)
	}
	return scoring.WithJournal(inner, e.store.EventRepo(), e.store.HistoryCache(), e.log)
}

func (e *env) status() string {
	if e.cfg.Offline {
		return "offline"
	}
	return e.cfg.APIURL
}

// narrator returns the LLM narrator, or llm.ErrNotConfigured when no
// provider is set up.
func (e *env) narrator(ctx context.Context) (*insights.Narrator, error) {
	if !e.cfg.LLM.Enabled() {
		return nil, llm.ErrNotConfigured
	}
	p, err := llm.New(ctx, e.cfg.LLM, e.store.EventRepo(), e.clock, e.log)
	if err != nil {
		return nil, err
	}
	return insights.NewNarrator(p, insights.DefaultConfig()), nil
}

// reportNoProvider prints a hint for err when it means no provider is set
// up, and reports whether it did.
func reportNoProvider(w io.Writer, err error) bool {
	if !errors.Is(err, llm.ErrNotConfigured) {
		return false
	}
	fmt.Fprintln(w, "No LLM provider configured. Set LDSCREEN_LLM_PROVIDER and the matching API key")
	fmt.Fprintln(w, "(for example LDSCREEN_ANTHROPIC_API_KEY) to enable parent summaries.")
	return true
}
