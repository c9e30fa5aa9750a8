package main

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

	"github.com/jgoulah/energyadvisor/internal/api"
	"github.com/jgoulah/energyadvisor/internal/llm"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serves the JSON API for rooms, appliances, reports and the consumption analysis.
The caller's identity is read from the X-User-ID header set by the auth proxy.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default is :5000)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	logger := newLogger(cfg)

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	handlers := &api.Handlers{
		Log:      logger.With("component", "api"),
		Store:    db,
		Analyzer: newAnalysisService(cfg, db, logger),
	}

	server := &http.Server{
		Addr:              cfg.GetAddr(),
		Handler:           api.NewRouter(handlers, os.Stdout),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      writeTimeout(cfg.Gemini.Timeout),
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server starting", "addr", server.Addr, "gemini", cfg.Gemini.APIKey != "")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("HTTP server stopping")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// writeTimeout leaves an analysis enough time to wait out the model request
// and still answer with the fallback.
func writeTimeout(geminiTimeout time.Duration) time.Duration {
	if geminiTimeout <= 0 {
		geminiTimeout = llm.DefaultTimeout
	}
	return max(2*time.Minute, geminiTimeout+30*time.Second)
}
