package cmd

import (
	"fmt"

	"github.com/inovacc/relic/internal/cli"
	"github.com/inovacc/relic/internal/core"
	"github.com/inovacc/relic/internal/query"
	"github.com/spf13/cobra"
)

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Scan with a randomly chosen preset",
	Long: `Pick a preset at random and run it. Good for aimless wandering.

Examples:
  relic random
  relic random --limit 10 --json`,
	RunE: runRandom,
}

func init() {
	rootCmd.AddCommand(randomCmd)
	randomCmd.Flags().Int("limit", 0, "Maximum number of results")
	randomCmd.Flags().Bool("json", false, "Output results as JSON")
}

func runRandom(cmd *cobra.Command, args []string) error {
	svc, _, err := newService(cmd)
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")

	result, chosen, err := svc.Random(cmd.Context(), core.ScanOptions{
		Filters: query.FilterParams{Limit: limit},
	}, nil)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return outputJSON(result.Records)
	}

	fmt.Printf("The dice chose: %s (%s)\n\n", chosen.ID, chosen.Description)
	fmt.Print(cli.RenderRecords(result.Records))
	printScanSummary(result)

	return nil
}
