package cache

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/minisector-dominance/log"
	"github.com/mpapenbr/minisector-dominance/pkg/cmd/util"
	"github.com/mpapenbr/minisector-dominance/pkg/config"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "applies the cache schema",
		Long: `Applies the cache schema to the database given by --cacheDB.
Without --cacheDB the schema of the file cache in --cacheDir is applied.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return startMigration(cmd.Context())
		},
	}
	return cmd
}

func startMigration(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := util.SetupLogger(); err != nil {
		return err
	}
	target := config.CacheDir
	if config.CacheDB != "" {
		target = "database"
	}
	log.Info("Applying cache schema", log.String("target", target))
	if err := util.MigrateCacheDB(ctx); err != nil {
		log.Error("Could not migrate cache", log.ErrorField(err))
		return err
	}
	log.Info("Cache schema up to date")
	return nil
}
