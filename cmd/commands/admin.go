package commands

import (
	"errors"
	"fmt"

	"github.com/senyabanana/freelance-market/internal/db"
	"github.com/senyabanana/freelance-market/internal/repository"
	"github.com/senyabanana/freelance-market/internal/services"
	"github.com/senyabanana/freelance-market/internal/storage"

	"github.com/spf13/cobra"
)

var purgeProjectID int64

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative operations not exposed over HTTP",
}

var purgeDeliverablesCmd = &cobra.Command{
	Use:   "purge-deliverables",
	Short: "Delete every deliverable version of a project together with its files",
	RunE: func(cmd *cobra.Command, args []string) error {
		if purgeProjectID <= 0 {
			return errors.New("--project must be a positive project id")
		}
		cfg, log, err := setup()
		if err != nil {
			return err
		}

		dbPool, err := db.InitDb(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("error initializing database: %w", err)
		}
		defer dbPool.Close()

		blobs, err := storage.NewLocalStore(cfg.UploadDir)
		if err != nil {
			return err
		}
		svc := services.NewDeliverableService(services.Deps{
			Store:  repository.NewPostgresStore(dbPool),
			Blobs:  blobs,
			Logger: log,
		})

		n, err := svc.PurgeAll(cmd.Context(), purgeProjectID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d deliverable version(s) of project %d\n", n, purgeProjectID)
		return nil
	},
}

func init() {
	purgeDeliverablesCmd.Flags().Int64Var(&purgeProjectID, "project", 0, "project id")
	_ = purgeDeliverablesCmd.MarkFlagRequired("project")
	adminCmd.AddCommand(purgeDeliverablesCmd)
	rootCmd.AddCommand(adminCmd)
}
