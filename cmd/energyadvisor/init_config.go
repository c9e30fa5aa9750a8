package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jgoulah/energyadvisor/internal/config"
	"github.com/jgoulah/energyadvisor/internal/llm"
)

var initForce bool

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write a starter config file",
	Long:  `Creates a config file with every section filled in with its defaults. The Gemini API key is left empty; set it in the file or via GEMINI_API_KEY.`,
	RunE:  runInitConfig,
}

func init() {
	initConfigCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initConfigCmd)
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	path := getConfigPath()
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	var defaults config.Config
	cfg := &config.Config{
		Database: config.DatabaseConfig{Path: defaults.GetDBPath()},
		Server: config.ServerConfig{
			Addr:            defaults.GetAddr(),
			ShutdownTimeout: defaults.GetShutdownTimeout(),
		},
		Gemini: config.GeminiConfig{
			Model:           llm.DefaultModel,
			Endpoint:        llm.DefaultEndpoint,
			MaxOutputTokens: llm.DefaultMaxOutputTokens,
			Timeout:         llm.DefaultTimeout,
		},
		MQTT: config.MQTTConfig{TopicPrefix: defaults.GetTopicPrefix()},
		Log: config.LogConfig{
			Level:  defaults.GetLogLevel(),
			Format: defaults.GetLogFormat(),
		},
	}

	if err := saveConfig(cfg); err != nil {
		return err
	}

	fmt.Printf("✓ Wrote %s\n", path)
	return nil
}
