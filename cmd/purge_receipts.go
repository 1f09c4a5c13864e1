package cmd

import (
	"context"

	"github.com/Elie-50/allo-gaz-lebanon/config"
	"github.com/Elie-50/allo-gaz-lebanon/internal/database"
	"github.com/Elie-50/allo-gaz-lebanon/internal/repository"
	"github.com/Elie-50/allo-gaz-lebanon/internal/service"
	"github.com/Elie-50/allo-gaz-lebanon/internal/storage"

	"github.com/spf13/cobra"
)

// purgeReceiptsCmd represents the purge-receipts command. Receipts are
// point-in-time documents; old ones are cleared in bulk from cron.
var purgeReceiptsCmd = &cobra.Command{
	Use:   "purge-receipts",
	Short: "Delete all generated receipts",
	Long: `Deletes every stored receipt PDF and its database record.
Intended to run periodically; receipts are transient documents.`,
	Run: func(cmd *cobra.Command, args []string) {
		purgeReceipts()
	},
}

func init() {
	rootCmd.AddCommand(purgeReceiptsCmd)
}

func purgeReceipts() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	store, err := storage.NewStore(cfg.Storage.MediaPath)
	if err != nil {
		log.Fatalf("Failed to initialize media storage: %v", err)
	}

	svc, err := service.NewService(service.ServiceConfig{
		Repository: repository.NewRepository(db),
		Store:      store,
		Config:     cfg,
		Logger:     log,
	})
	if err != nil {
		log.Fatalf("Failed to initialize service: %v", err)
	}

	deleted, err := svc.PurgeReceipts(context.Background())
	if err != nil {
		log.Fatalf("Failed to purge receipts: %v", err)
	}
	log.Infof("Purged %d receipts", deleted)
}
