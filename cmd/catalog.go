package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/example/verbbot/internal/config"
	"github.com/example/verbbot/internal/vocabulary"
	"github.com/example/verbbot/pkg/models"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Validate the verb catalogue and show counts per tier",
	RunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		verbsPath, err := config.LoadVerbsPath(envFile)
		if err != nil {
			return err
		}
		path := resolveVerbsPath(cmd, verbsPath)

		catalogue, err := vocabulary.Load(path)
		if err != nil {
			return err
		}

		source := path
		if source == "" {
			source = "embedded catalogue"
		}
		return printCatalogue(cmd, source, catalogue)
	},
}

func printCatalogue(cmd *cobra.Command, source string, catalogue *vocabulary.Catalogue) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d verbs\n\n", source, catalogue.Len())

	counts := catalogue.CountByTier()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIER\tVERBS\tDRILLED AT THIS LEVEL")
	for tier := models.MinTier; tier <= models.MaxTier; tier++ {
		fmt.Fprintf(w, "%d\t%d\t%d\n", tier, counts[tier], len(catalogue.ByTier(tier)))
	}
	return w.Flush()
}
