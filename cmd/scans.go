package cmd

import (
	"fmt"

	"github.com/inovacc/relic/internal/cli"
	"github.com/inovacc/relic/internal/model"
	"github.com/inovacc/relic/internal/store"
	"github.com/spf13/cobra"
)

var scansCmd = &cobra.Command{
	Use:   "scans",
	Short: "Show scan history",
	Long: `List past scans, most recent first.

Examples:
  relic scans
  relic scans --limit 10 --json`,
	RunE: runScans,
}

func init() {
	rootCmd.AddCommand(scansCmd)
	scansCmd.Flags().Int("limit", 0, "Maximum number of rows")
	scansCmd.Flags().Bool("json", false, "Output as JSON")
}

func runScans(cmd *cobra.Command, args []string) error {
	st, err := store.GetDB()
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")

	scans, err := st.Scans(limit)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		if scans == nil {
			scans = []model.ScanRecord{}
		}
		return outputJSON(scans)
	}

	fmt.Print(cli.RenderScans(scans))

	return nil
}
