package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply store migrations",
	Long: `Prepare the configured store.

With STORE_DRIVER=mongo the unique indexes on users.email and
events.(title, owner) are created.  With STORE_DRIVER=mysql the embedded goose
migrations are applied.  The memory driver needs nothing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		st, err := openStores(ctx, cfg, true, logger)
		if err != nil {
			return err
		}
		defer st.close()
		logger.Info().Str("driver", cfg.StoreDriver).Msg("migrations applied")
		return nil
	},
}
