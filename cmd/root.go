package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bookahead/backend/config"
	"github.com/bookahead/backend/utils"
)

var rootCmd = &cobra.Command{
	Use:   "bookahead",
	Short: "Restaurant table reservation backend",
	Long: `bookahead serves the table reservation API.

Examples:

  bookahead migrate
  bookahead serve --port 5002
`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.InitLogger()
	},
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

// loadConfig reads the environment; the --port flag wins over PORT.
func loadConfig(cmd *cobra.Command) config.Config {
	cfg := config.Load()
	if port, err := cmd.Flags().GetString("port"); err == nil && port != "" {
		cfg.Port = port
	}
	return cfg
}
