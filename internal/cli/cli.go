// Package cli wires configuration, storage and services behind the cobra commands.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"backoffice/internal/config"
	"backoffice/internal/database"
	"backoffice/internal/logger"
)

var env string

// NewRootCommand builds the binary's command tree.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "backoffice",
		Short:         "Back office for personnel, permission groups and the service catalog",
		SilenceUsage:  true,
		Version:       version,
	}
	root.PersistentFlags().StringVarP(&env, "env", "e", "", "Server mode override (debug, test, release)")

	root.AddCommand(
		newServeCommand(version),
		newMigrateCommand(),
		newCreateSuperuserCommand(),
	)
	return root
}

type app struct {
	cfg *config.Config
	log *slog.Logger
	db  *gorm.DB
}

// bootstrap loads configuration, installs the logger and opens the database.
func bootstrap() (*app, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.Init(cfg.Logger, cfg.Server.Mode)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.NewConnection(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log, db: db}, nil
}

func (r *app) close() {
	if err := database.Close(r.db); err != nil {
		r.log.Error("failed to close database", "error", err)
	}
}
