package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/energyadvisor/internal/consumption"
	"github.com/jgoulah/energyadvisor/internal/publisher"
)

var publishUser int64

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish a household's analysis to MQTT and Home Assistant",
	Long: `Runs the consumption analysis for a user and publishes it as retained MQTT
messages, one per room plus a summary. When Home Assistant is enabled, the
household monthly kWh is also written to the configured entity.`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().Int64Var(&publishUser, "user", 0, "user ID")
	publishCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if !cfg.MQTT.Enabled && !cfg.HomeAssistant.Enabled {
		return fmt.Errorf("neither MQTT nor Home Assistant is enabled in config")
	}
	logger := newLogger(cfg)

	pub, err := publisher.New(cfg.MQTT, cfg.HomeAssistant, logger)
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()

	if pub.MQTTEnabled() {
		result, err := newAnalysisService(cfg, db, logger).GetConsumptionAnalysis(ctx, publishUser)
		if err != nil {
			return fmt.Errorf("analyzing consumption: %w", err)
		}
		fmt.Printf("Publishing analysis (%s, %d rooms)... ", result.Source, len(result.Rooms))
		if err := pub.PublishAnalysis(publishUser, result); err != nil {
			fmt.Printf("FAILED\n")
			return fmt.Errorf("publishing analysis: %w", err)
		}
		fmt.Printf("✓\n")
	}

	if pub.HAEnabled() {
		rooms, err := db.ListRoomsWithAppliances(ctx, publishUser)
		if err != nil {
			return fmt.Errorf("loading rooms: %w", err)
		}
		totals := consumption.Totals(rooms)
		fmt.Printf("Publishing %s to %s... ", kwh(totals.MonthlyKWh), cfg.HomeAssistant.EntityID)
		if err := pub.PublishMonthlyConsumption(ctx, totals); err != nil {
			fmt.Printf("FAILED\n")
			return fmt.Errorf("publishing monthly consumption: %w", err)
		}
		fmt.Printf("✓\n")
	}

	return nil
}
