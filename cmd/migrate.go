package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bookahead/backend/config"
	"github.com/bookahead/backend/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)
		db, err := config.InitDB(cfg)
		if err != nil {
			return err
		}

		red := color.New(color.FgRed, color.Bold)
		if err := database.Migrate(db); err != nil {
			red.Fprintf(cmd.ErrOrStderr(), "migration failed on %s: %v\n", cfg.DBDriver, err)
			return err
		}

		green := color.New(color.FgGreen, color.Bold)
		cyan := color.New(color.FgCyan)
		green.Fprintf(cmd.OutOrStdout(), "Schema up to date (%s)\n", cfg.DBDriver)
		for _, model := range database.Models() {
			cyan.Fprintf(cmd.OutOrStdout(), "  %T\n", model)
		}
		return nil
	},
}
