package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jgoulah/energyadvisor/internal/publisher"
	"github.com/jgoulah/energyadvisor/pkg/models"
)

var (
	analyzeUser    int64
	analyzeJSON    bool
	analyzePublish bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a household's consumption",
	Long: `Runs the per-room consumption analysis for a user. Gemini is asked first when
an API key is configured; otherwise, or when its answer is unusable, the
built-in rules produce the analysis.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().Int64Var(&analyzeUser, "user", 0, "user ID")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the raw JSON result")
	analyzeCmd.Flags().BoolVar(&analyzePublish, "publish", false, "also publish the result to MQTT")
	analyzeCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := newLogger(cfg)

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	result, err := newAnalysisService(cfg, db, logger).GetConsumptionAnalysis(cmd.Context(), analyzeUser)
	if err != nil {
		return fmt.Errorf("analyzing consumption: %w", err)
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
	} else {
		printAnalysis(result)
	}

	if analyzePublish {
		pub, err := publisher.New(cfg.MQTT, cfg.HomeAssistant, logger)
		if err != nil {
			return fmt.Errorf("creating publisher: %w", err)
		}
		defer pub.Close()

		if err := pub.PublishAnalysis(analyzeUser, result); err != nil {
			return fmt.Errorf("publishing analysis: %w", err)
		}
		fmt.Printf("✓ Published analysis for %d rooms\n", len(result.Rooms))
	}

	return nil
}

func printAnalysis(result models.AnalysisResult) {
	fmt.Printf("\nConsumption analysis (%s)\n", result.Source)
	fmt.Println("----------------------------------------")

	for _, room := range result.Rooms {
		fmt.Printf("\n%s\n", room.Room)
		fmt.Printf("  Current:   %s (%s)\n", kwh(room.CurrentKWh), brl(room.CurrentBRL))
		fmt.Printf("  Expected:  %s (%s)\n", kwh(room.ExpectedKWh), brl(room.ExpectedBRL))
		fmt.Printf("  Savings:   %s (%s), %s%% above expected\n",
			kwh(room.SavingsKWh), brl(room.SavingsBRL), number(room.PercentAbove))
		for _, tip := range room.Tips {
			fmt.Printf("  - %s\n", tip)
		}
	}

	fmt.Println("\n----------------------------------------")
	fmt.Printf("Total potential savings: %s/month\n", brl(result.TotalSavings))
	fmt.Println(result.Summary)
}
