package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jgoulah/energyadvisor/internal/database"
	"github.com/jgoulah/energyadvisor/pkg/models"
)

var (
	roomUser        int64
	roomID          int64
	roomName        string
	roomDescription string
)

var roomCmd = &cobra.Command{
	Use:   "room",
	Short: "Manage rooms",
}

var roomAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a room to a user's household",
	RunE:  runRoomAdd,
}

var roomDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a room and its appliances",
	RunE:  runRoomDelete,
}

func init() {
	roomCmd.PersistentFlags().Int64Var(&roomUser, "user", 0, "user ID")
	roomCmd.MarkPersistentFlagRequired("user")

	roomAddCmd.Flags().StringVar(&roomName, "name", "", "room name, e.g. Sala or Cozinha")
	roomAddCmd.Flags().StringVar(&roomDescription, "description", "", "free text description")
	roomAddCmd.MarkFlagRequired("name")

	roomDeleteCmd.Flags().Int64Var(&roomID, "id", 0, "room ID")
	roomDeleteCmd.MarkFlagRequired("id")

	roomCmd.AddCommand(roomAddCmd, roomDeleteCmd)
	rootCmd.AddCommand(roomCmd)
}

func runRoomAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if _, err := db.GetUser(cmd.Context(), roomUser); err != nil {
		return fmt.Errorf("looking up user %d: %w", roomUser, err)
	}

	room := &models.Room{UserID: roomUser, Name: roomName, Description: roomDescription}
	if err := db.CreateRoom(cmd.Context(), room); err != nil {
		return fmt.Errorf("adding room: %w", err)
	}

	fmt.Printf("✓ Added room %d (%s)\n", room.ID, room.Name)
	return nil
}

func runRoomDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := db.DeleteRoom(cmd.Context(), roomUser, roomID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("room %d not found for user %d", roomID, roomUser)
		}
		return fmt.Errorf("deleting room: %w", err)
	}

	fmt.Printf("✓ Deleted room %d\n", roomID)
	return nil
}
