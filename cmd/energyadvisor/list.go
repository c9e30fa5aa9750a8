package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jgoulah/energyadvisor/internal/consumption"
)

var listUser int64

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's rooms and appliances",
	Long:  `Displays every appliance of a user with its daily and monthly consumption, highest consumers first.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().Int64Var(&listUser, "user", 0, "user ID")
	listCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	rooms, err := db.ListRoomsWithAppliances(cmd.Context(), listUser)
	if err != nil {
		return fmt.Errorf("loading rooms: %w", err)
	}

	rows := consumption.ApplianceBreakdown(rooms)
	if len(rows) == 0 {
		fmt.Printf("No appliances found for user %d\n", listUser)
		return nil
	}

	fmt.Println("--------------------------------------------------------------------------------------------")
	fmt.Printf("%-5s  %-15s  %-20s  %-16s  %8s  %6s  %10s  %12s\n", "ID", "Room", "Appliance", "Category", "Watts", "h/day", "kWh/month", "Cost/month")
	fmt.Println("--------------------------------------------------------------------------------------------")

	var total float64
	for _, row := range rows {
		fmt.Printf("%-5d  %-15s  %-20s  %-16s  %8s  %6s  %10s  %12s\n",
			row.ApplianceID, row.Room, row.Appliance, row.Category,
			number(row.PowerWatts), number(row.HoursPerDay), number(row.MonthlyKWh), brl(row.MonthlyBRL))
		total += row.MonthlyKWh
	}

	fmt.Println("--------------------------------------------------------------------------------------------")
	fmt.Printf("Total: %s (%d appliances)\n", kwh(total), len(rows))
	return nil
}
