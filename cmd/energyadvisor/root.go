package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jgoulah/energyadvisor/internal/analysis"
	"github.com/jgoulah/energyadvisor/internal/config"
	"github.com/jgoulah/energyadvisor/internal/database"
	"github.com/jgoulah/energyadvisor/internal/llm"
	"github.com/jgoulah/energyadvisor/internal/logging"
)

var (
	cfgFile  string
	dbPath   string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "energyadvisor",
	Short: "Estimate household electricity use and suggest savings",
	Long: `EnergyAdvisor keeps an inventory of rooms and appliances in a local SQLite
database, derives monthly kWh and cost from their rated power and daily use,
and produces a per-room savings analysis using Gemini when an API key is
configured or a built-in rule set otherwise.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default is ./data.db)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// loadConfig loads and validates the configuration file, applying flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// saveConfig saves the configuration file
func saveConfig(cfg *config.Config) error {
	return config.Save(getConfigPath(), cfg)
}

// openDB opens the database connection
func openDB(cfg *config.Config) (*database.DB, error) {
	path := cfg.GetDBPath()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	return database.New(path)
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(cfg.GetLogLevel(), cfg.GetLogFormat())
}

// newAnalysisService wires the store and the Gemini gateway
func newAnalysisService(cfg *config.Config, db *database.DB, logger *slog.Logger) *analysis.Service {
	gateway := llm.NewGemini(llm.Options{
		APIKey:          cfg.Gemini.APIKey,
		Model:           cfg.Gemini.Model,
		Endpoint:        cfg.Gemini.Endpoint,
		MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
		Timeout:         cfg.Gemini.Timeout,
	}, logger)
	return analysis.NewService(db, gateway, logger)
}

// number formats with Brazilian separators, e.g. 1.234,56
func number(v float64) string {
	return humanize.FormatFloat("#.###,##", v)
}

func brl(v float64) string {
	return "R$ " + number(v)
}

func kwh(v float64) string {
	return number(v) + " kWh"
}
