package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/brightpath/ldscreen/internal/devserver"
	"github.com/brightpath/ldscreen/internal/logging"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the practice scoring service over HTTP",
	Long: `Serve the adaptive question bank and the rule-based risk predictor on the
same HTTP API the client expects. Sessions are kept in memory.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides LDSCREEN_ADDR)")
	serveCmd.Flags().String("bank", "", "YAML question bank to serve instead of the built-in one")
	serveCmd.Flags().Int("session-length", devserver.DefaultSessionLength, "Answers per session")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	level, _ := cfg.Level()
	log := logging.New(os.Stderr, level)

	addr := cfg.ServeAddr
	if a, _ := cmd.Flags().GetString("addr"); a != "" {
		addr = a
	}
	n, _ := cmd.Flags().GetInt("session-length")
	if n <= 0 {
		return fmt.Errorf("--session-length must be positive, got %d", n)
	}

	opts := []devserver.Option{devserver.WithLogger(log), devserver.WithSessionLength(n)}
	if path, _ := cmd.Flags().GetString("bank"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read question bank: %w", err)
		}
		bank, err := devserver.ParseBank(data)
		if err != nil {
			return fmt.Errorf("question bank %s: %w", path, err)
		}
		opts = append(opts, devserver.WithBank(bank))
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           devserver.New(opts...).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("practice scorer listening", "addr", addr, "session_length", n)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
