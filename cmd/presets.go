package cmd

import (
	"fmt"

	"github.com/inovacc/relic/internal/cli"
	"github.com/inovacc/relic/internal/preset"
	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the curated search presets",
	Long: `Show every preset, grouped by category.

Examples:
  relic presets
  relic presets --category dead-languages
  relic presets --json`,
	RunE: runPresets,
}

func init() {
	rootCmd.AddCommand(presetsCmd)
	presetsCmd.Flags().String("category", "", "Only presets in this category")
	presetsCmd.Flags().Bool("json", false, "Output as JSON")
}

func runPresets(cmd *cobra.Command, args []string) error {
	category, _ := cmd.Flags().GetString("category")

	var presets []preset.Preset

	if category != "" {
		cat := preset.Category(category)
		if !preset.ValidCategory(cat) {
			return fmt.Errorf("unknown category %q", category)
		}

		presets = preset.ListByCategory(cat)
	} else {
		presets = preset.List()
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return outputJSON(presets)
	}

	fmt.Print(cli.RenderPresets(presets))

	return nil
}
