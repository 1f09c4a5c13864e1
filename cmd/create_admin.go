package cmd

import (
	"context"

	"github.com/Elie-50/allo-gaz-lebanon/config"
	"github.com/Elie-50/allo-gaz-lebanon/internal/database"
	"github.com/Elie-50/allo-gaz-lebanon/internal/models"
	"github.com/Elie-50/allo-gaz-lebanon/internal/repository"
	"github.com/Elie-50/allo-gaz-lebanon/internal/service"

	"github.com/spf13/cobra"
)

var (
	adminUsername string
	adminPassword string
)

// createAdminCmd bootstraps the first superuser account
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a superuser account",
	Long: `Creates a superuser account for the dashboard. Intended for
initial setup; further accounts are managed through the API.`,
	Run: func(cmd *cobra.Command, args []string) {
		createAdmin()
	},
}

func init() {
	rootCmd.AddCommand(createAdminCmd)

	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "username for the account")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "password for the account")
	createAdminCmd.MarkFlagRequired("username")
	createAdminCmd.MarkFlagRequired("password")
}

func createAdmin() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	svc, err := service.NewService(service.ServiceConfig{
		Repository: repository.NewRepository(db),
		Config:     cfg,
		Logger:     log,
	})
	if err != nil {
		log.Fatalf("Failed to initialize service: %v", err)
	}

	user, err := svc.CreateUser(context.Background(), &models.CreateUserRequest{
		Username:    adminUsername,
		Password:    adminPassword,
		IsStaff:     true,
		IsSuperuser: true,
	})
	if err != nil {
		log.Fatalf("Failed to create superuser: %v", err)
	}
	log.Infof("Superuser %q created with id %d", user.Username, user.ID)
}
