package cmd

import (
	"fmt"

	"github.com/inovacc/relic/internal/cli"
	"github.com/inovacc/relic/internal/core"
	"github.com/inovacc/relic/internal/query"
	"github.com/spf13/cobra"
)

var casketCmd = &cobra.Command{
	Use:   "casket",
	Short: "Search for archived and frozen repositories",
	Long: `Search for repositories marked as archived, unmaintained, deprecated
or read-only.

Examples:
  relic casket
  relic casket --language Perl
  relic casket --limit 50 --json`,
	RunE: runCasket,
}

func init() {
	rootCmd.AddCommand(casketCmd)
	casketCmd.Flags().String("language", "", "Narrow to one language")
	casketCmd.Flags().Int("limit", 0, "Maximum number of results")
	casketCmd.Flags().Bool("json", false, "Output results as JSON")
}

func runCasket(cmd *cobra.Command, args []string) error {
	svc, _, err := newService(cmd)
	if err != nil {
		return err
	}

	language, _ := cmd.Flags().GetString("language")
	limit, _ := cmd.Flags().GetInt("limit")

	result, err := svc.Casket(cmd.Context(), language, core.ScanOptions{
		Filters: query.FilterParams{Limit: limit},
	})
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return outputJSON(result.Records)
	}

	fmt.Println("Opening the casket... archived and frozen repositories")
	fmt.Println()
	fmt.Print(cli.RenderRecords(result.Records))
	printScanSummary(result)

	return nil
}
