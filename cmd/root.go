package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "verbbot",
	Short: "Telegram bot for drilling English irregular verbs",
	Long:  "verbbot runs a Telegram bot with forms, translation, mix, speed and mistake-review drills for English irregular verbs.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("verbs", "", "Path to a verb catalogue (.json, .xlsx or .csv); overrides VERBS_PATH")
	rootCmd.PersistentFlags().String("env-file", "", "Path to an env file (default .env when present)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(catalogCmd)
}

func newLogger() *log.Logger {
	return log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds)
}

// resolveVerbsPath returns the --verbs flag when set, else fallback
func resolveVerbsPath(cmd *cobra.Command, fallback string) string {
	if p, _ := cmd.Flags().GetString("verbs"); p != "" {
		return p
	}
	return fallback
}
