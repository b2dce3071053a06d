package main

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, db, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		log.Info().Msg("database is up to date")
		return db.Close()
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
