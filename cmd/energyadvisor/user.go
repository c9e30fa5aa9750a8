package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jgoulah/energyadvisor/pkg/models"
)

var (
	userName  string
	userEmail string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a user",
	RunE:  runUserAdd,
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE:  runUserList,
}

func init() {
	userAddCmd.Flags().StringVar(&userName, "name", "", "user name")
	userAddCmd.Flags().StringVar(&userEmail, "email", "", "user email (unique)")
	userAddCmd.MarkFlagRequired("name")
	userAddCmd.MarkFlagRequired("email")

	userCmd.AddCommand(userAddCmd, userListCmd)
	rootCmd.AddCommand(userCmd)
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	user := &models.User{Name: userName, Email: userEmail}
	if err := db.CreateUser(cmd.Context(), user); err != nil {
		return fmt.Errorf("adding user: %w", err)
	}

	fmt.Printf("✓ Added user %d (%s)\n", user.ID, user.Email)
	return nil
}

func runUserList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	users, err := db.ListUsers(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing users: %w", err)
	}
	if len(users) == 0 {
		fmt.Println("No users found")
		return nil
	}

	fmt.Printf("%-5s  %-20s  %-30s  %s\n", "ID", "Name", "Email", "Created")
	fmt.Println("------------------------------------------------------------------------")
	for _, u := range users {
		fmt.Printf("%-5d  %-20s  %-30s  %s\n", u.ID, u.Name, u.Email, humanize.Time(u.CreatedAt))
	}
	return nil
}
