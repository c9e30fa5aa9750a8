package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jgoulah/energyadvisor/internal/consumption"
	"github.com/jgoulah/energyadvisor/internal/database"
	"github.com/jgoulah/energyadvisor/pkg/models"
)

var (
	applianceUser     int64
	applianceRoom     int64
	applianceID       int64
	applianceName     string
	applianceCategory string
	applianceWatts    float64
	applianceHours    float64
)

var applianceCmd = &cobra.Command{
	Use:   "appliance",
	Short: "Manage appliances",
}

var applianceAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an appliance to a room",
	RunE:  runApplianceAdd,
}

var applianceDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete an appliance",
	RunE:  runApplianceDelete,
}

func init() {
	applianceCmd.PersistentFlags().Int64Var(&applianceUser, "user", 0, "user ID")
	applianceCmd.MarkPersistentFlagRequired("user")

	applianceAddCmd.Flags().Int64Var(&applianceRoom, "room", 0, "room ID")
	applianceAddCmd.Flags().StringVar(&applianceName, "name", "", "appliance name, e.g. Geladeira")
	applianceAddCmd.Flags().StringVar(&applianceCategory, "category", "", "climatizacao, iluminacao, eletrodomesticos, entretenimento, higiene or outros")
	applianceAddCmd.Flags().Float64Var(&applianceWatts, "watts", 0, "rated power in watts")
	applianceAddCmd.Flags().Float64Var(&applianceHours, "hours", 0, "hours of use per day (0-24)")
	applianceAddCmd.MarkFlagRequired("room")
	applianceAddCmd.MarkFlagRequired("name")
	applianceAddCmd.MarkFlagRequired("watts")

	applianceDeleteCmd.Flags().Int64Var(&applianceID, "id", 0, "appliance ID")
	applianceDeleteCmd.MarkFlagRequired("id")

	applianceCmd.AddCommand(applianceAddCmd, applianceDeleteCmd)
	rootCmd.AddCommand(applianceCmd)
}

func runApplianceAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if _, err := db.GetRoom(cmd.Context(), applianceUser, applianceRoom); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("room %d does not belong to user %d", applianceRoom, applianceUser)
		}
		return fmt.Errorf("looking up room: %w", err)
	}

	appliance := &models.Appliance{
		RoomID:      applianceRoom,
		Name:        applianceName,
		Category:    models.Category(applianceCategory),
		PowerWatts:  applianceWatts,
		HoursPerDay: applianceHours,
	}
	if err := db.CreateAppliance(cmd.Context(), appliance); err != nil {
		return fmt.Errorf("adding appliance: %w", err)
	}

	fmt.Printf("✓ Added appliance %d (%s, %s): %s/month, %s/month\n",
		appliance.ID, appliance.Name, appliance.Category,
		kwh(consumption.MonthlyKWh(appliance.PowerWatts, appliance.HoursPerDay)),
		brl(consumption.MonthlyCost(appliance.PowerWatts, appliance.HoursPerDay)))
	return nil
}

func runApplianceDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := db.DeleteAppliance(cmd.Context(), applianceUser, applianceID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("appliance %d not found for user %d", applianceID, applianceUser)
		}
		return fmt.Errorf("deleting appliance: %w", err)
	}

	fmt.Printf("✓ Deleted appliance %d\n", applianceID)
	return nil
}
