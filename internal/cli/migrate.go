package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"backoffice/internal/database"
	"backoffice/internal/permission"
	"backoffice/internal/repository"
	"backoffice/internal/service"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema and sync permissions",
		Long:  `Run AutoMigrate for every table, then make the permissions table mirror the model registry.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.close()

			catalog := permission.NewCatalog(permission.Registry, rt.cfg.App.Language)
			perms := service.NewPermissionService(repository.NewPermissionRepository(rt.db), catalog, permission.Registry)
			return migrateAndSync(cmd.Context(), rt, perms)
		},
	}
}

func migrateAndSync(ctx context.Context, rt *app, perms service.PermissionService) error {
	if err := database.Migrate(rt.db); err != nil {
		return err
	}
	if err := perms.Sync(ctx); err != nil {
		return fmt.Errorf("permission sync: %w", err)
	}
	rt.log.Info("migration completed")
	return nil
}
