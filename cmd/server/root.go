package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jengzang/fleet-tracker-go/internal/config"
	"github.com/jengzang/fleet-tracker-go/internal/database"
	"github.com/jengzang/fleet-tracker-go/internal/logger"
)

var (
	cfgPath string
	envFile string
)

var rootCmd = &cobra.Command{
	Use:               "fleet-tracker",
	Short:             "Fleet tracking API server",
	SilenceUsage:      true,
	PersistentPreRunE: loadEnvFile,
	RunE:              runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "optional YAML or JSON configuration file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional file of FLEET_ variables; real environment wins")
}

// loadEnvFile exports the variables of envFile that are not already set.
func loadEnvFile(cmd *cobra.Command, args []string) error {
	if envFile == "" {
		return nil
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}
	return nil
}

// bootstrap loads configuration, builds the root logger and opens a
// migrated database.
func bootstrap(ctx context.Context) (*config.Config, zerolog.Logger, *sql.DB, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, zerolog.Nop(), nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	db, err := database.Open(ctx, database.Config{Path: cfg.Database.Path}, logger.Component(log, "database"))
	if err != nil {
		return nil, log, nil, err
	}

	n, err := database.NewMigrationManager(db, logger.Component(log, "migrations")).RunMigrations(ctx)
	if err != nil {
		_ = db.Close()
		return nil, log, nil, fmt.Errorf("run migrations: %w", err)
	}
	if n > 0 {
		log.Info().Int("applied", n).Msg("migrations applied")
	}
	return cfg, log, db, nil
}
