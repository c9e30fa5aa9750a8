package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jgoulah/energyadvisor/internal/consumption"
)

var reportUser int64

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the monthly consumption report",
	Long:  `Prints per-room and per-category monthly figures, household totals, and how they compare to the user average and the national average.`,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().Int64Var(&reportUser, "user", 0, "user ID")
	reportCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	rooms, err := db.ListRoomsWithAppliances(ctx, reportUser)
	if err != nil {
		return fmt.Errorf("loading rooms: %w", err)
	}
	if len(rooms) == 0 {
		fmt.Printf("No rooms found for user %d\n", reportUser)
		return nil
	}

	fmt.Printf("\nMonthly report by room:\n")
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("%-20s  %10s  %14s  %14s\n", "Room", "Appliances", "kWh/month", "Cost/month")
	fmt.Println("------------------------------------------------------------")
	for _, row := range consumption.MonthlyReport(rooms) {
		fmt.Printf("%-20s  %10d  %14s  %14s\n", row.Room, row.ApplianceCount, number(row.MonthlyKWh), brl(row.MonthlyBRL))
	}

	fmt.Printf("\nBy category:\n")
	fmt.Println("------------------------------------------------------------")
	for _, stat := range consumption.ByCategory(rooms) {
		fmt.Printf("%-20s  %10d  %14s  %14s\n", stat.Category, stat.Count, number(stat.MonthlyKWh), brl(stat.MonthlyBRL))
	}

	totals := consumption.Totals(rooms)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Household: %s/day, %s/month, %s/month (%d rooms, %d appliances)\n",
		kwh(totals.DailyKWh), kwh(totals.MonthlyKWh), brl(totals.MonthlyBRL), totals.Rooms, totals.Appliances)

	avg, err := db.UserAverages(ctx)
	if err != nil {
		return fmt.Errorf("loading averages: %w", err)
	}
	national := consumption.NationalAverage
	fmt.Printf("\nAverage across users: %s (%s)\n", kwh(avg.MonthlyKWh), brl(avg.MonthlyBRL))
	fmt.Printf("National average:     %s (%s), source: %s\n", kwh(national.MonthlyKWh), brl(national.MonthlyBRL), national.Source)

	return nil
}
