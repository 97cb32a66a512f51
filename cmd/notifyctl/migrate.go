package main

import (
	"fmt"

	"acc-notifications/internal/common/database"

	"github.com/spf13/cobra"
)

var downSteps int

func init() {
	migrateCmd.AddCommand(migrateDownCmd)
	migrateDownCmd.Flags().IntVarP(&downSteps, "steps", "n", 1, "number of migrations to roll back")
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending notification schema migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger(cfg)

		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		defer pg.Close()

		version, err := database.MigrateUp(pg.GetDB())
		if err != nil {
			return err
		}
		log.Info("Schema up to date", map[string]interface{}{"version": version})
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back notification schema migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if downSteps < 1 {
			return fmt.Errorf("--steps must be positive")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger(cfg)

		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		defer pg.Close()

		if err := database.MigrateDown(pg.GetDB(), downSteps); err != nil {
			return err
		}
		log.Info("Rolled back migrations", map[string]interface{}{"steps": downSteps})
		return nil
	},
}
