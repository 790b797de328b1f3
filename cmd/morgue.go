package cmd

import (
	"fmt"

	"github.com/inovacc/relic/internal/cli"
	"github.com/inovacc/relic/internal/core"
	"github.com/inovacc/relic/internal/query"
	"github.com/spf13/cobra"
)

var morgueCmd = &cobra.Command{
	Use:   "morgue",
	Short: "Search for dead forks and inactive repositories",
	Long: `Search for repositories marked as deleted, moved, mirrored or long
abandoned: old creation dates, no pushes for years.

Examples:
  relic morgue
  relic morgue --limit 50
  relic morgue --json`,
	RunE: runMorgue,
}

func init() {
	rootCmd.AddCommand(morgueCmd)
	morgueCmd.Flags().Int("limit", 0, "Maximum number of results")
	morgueCmd.Flags().Bool("json", false, "Output results as JSON")
}

func runMorgue(cmd *cobra.Command, args []string) error {
	svc, _, err := newService(cmd)
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")

	result, err := svc.Morgue(cmd.Context(), core.ScanOptions{
		Filters: query.FilterParams{Limit: limit},
	})
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return outputJSON(result.Records)
	}

	fmt.Println("Entering the morgue... dead forks and inactive repos")
	fmt.Println()
	fmt.Print(cli.RenderRecords(result.Records))
	printScanSummary(result)

	return nil
}
