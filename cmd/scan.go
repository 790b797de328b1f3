package cmd

import (
	"fmt"

	"github.com/inovacc/relic/internal/cli"
	"github.com/inovacc/relic/internal/core"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan [preset]",
	Short: "Search GitHub and collect what turns up",
	Long: `Run a repository search and fold the results into the local database.

A preset name seeds the filters; any filter flag overrides the preset's
value for that field. Without a preset at least one filter flag is
required.

Examples:
  relic scan ancient
  relic scan dead-lang-cobol --limit 50
  relic scan --keyword geocities --created "<2012-01-01"
  relic scan y2k-web --language Perl --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanFilterFlags(scanCmd)
	scanCmd.Flags().Bool("dry-run", false, "Search without saving anything")
	scanCmd.Flags().Bool("keep-partial", false, "Keep pages collected before a failed page instead of discarding the scan")
	scanCmd.Flags().Bool("json", false, "Output results as JSON")
}

func runScan(cmd *cobra.Command, args []string) error {
	svc, _, err := newService(cmd)
	if err != nil {
		return err
	}

	opts := core.ScanOptions{
		Filters: filtersFromFlags(cmd),
	}

	if len(args) == 1 {
		opts.PresetID = args[0]
	}

	opts.DryRun, _ = cmd.Flags().GetBool("dry-run")
	opts.KeepPartial, _ = cmd.Flags().GetBool("keep-partial")

	result, err := svc.Scan(cmd.Context(), opts)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return outputJSON(result.Records)
	}

	fmt.Print(cli.RenderRecords(result.Records))

	if !opts.DryRun {
		printScanSummary(result)
	}

	return nil
}
