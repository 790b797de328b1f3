package cmd

import (
	"fmt"
	"strings"

	"github.com/inovacc/relic/internal/cli"
	"github.com/inovacc/relic/internal/core"
	"github.com/inovacc/relic/internal/query"
	"github.com/spf13/cobra"
)

var rabbitHoleCmd = &cobra.Command{
	Use:   "rabbit-hole <owner/repo>",
	Short: "Find repositories adjacent to a starting point",
	Long: `Start from one repository and search for its neighbors: same
language, created around the same time, sharing its topics.

Examples:
  relic rabbit-hole alice/guestbook
  relic rabbit-hole alice/guestbook --limit 50 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runRabbitHole,
}

func init() {
	rootCmd.AddCommand(rabbitHoleCmd)
	rabbitHoleCmd.Flags().Int("limit", 0, "Maximum number of results")
	rabbitHoleCmd.Flags().Bool("dry-run", false, "Search without saving anything")
	rabbitHoleCmd.Flags().Bool("json", false, "Output results as JSON")
}

func runRabbitHole(cmd *cobra.Command, args []string) error {
	svc, _, err := newService(cmd)
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	result, err := svc.RabbitHole(cmd.Context(), args[0], core.ScanOptions{
		Filters: query.FilterParams{Limit: limit},
		DryRun:  dryRun,
	})
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return outputJSON(result.Scan.Records)
	}

	fmt.Printf("Down the rabbit hole from %s...\n", result.Seed.FullName)

	if result.Filters.Language != "" {
		fmt.Printf("  language: %s\n", result.Filters.Language)
	}

	if result.Filters.Created != "" {
		fmt.Printf("  created:  %s\n", result.Filters.Created)
	}

	if len(result.Filters.Keywords) > 0 {
		fmt.Printf("  topics:   %s\n", strings.Join(result.Filters.Keywords, ", "))
	}

	fmt.Println()
	fmt.Print(cli.RenderRecords(result.Scan.Records))

	if !dryRun {
		printScanSummary(result.Scan)
	}

	return nil
}
