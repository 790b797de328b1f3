package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/inovacc/relic/internal/core"
	"github.com/inovacc/relic/internal/export"
	"github.com/inovacc/relic/internal/model"
	"github.com/inovacc/relic/internal/store"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [preset]",
	Short: "Export repositories as JSON, CSV or NDJSON",
	Long: `Run a search and export the results, or export previously
collected repositories straight from the local database with --from-db.

Examples:
  relic export ancient --format csv > ancient.csv
  relic export --keyword geocities --format ndjson
  relic export --from-db --language COBOL --format json
  relic export --from-db --output collection.csv --format csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	scanFilterFlags(exportCmd)
	exportCmd.Flags().String("format", "json", "Export format: json, csv or ndjson")
	exportCmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
	exportCmd.Flags().Bool("from-db", false, "Export from the local database instead of searching")
	exportCmd.Flags().String("preset", "", "With --from-db: only repos found by this preset")
	exportCmd.Flags().String("since", "", "With --from-db: only repos first seen on or after this date (YYYY-MM-DD)")
	exportCmd.Flags().String("order", "", "With --from-db: order column")
}

func runExport(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")

	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	var records []model.RepositoryRecord

	if fromDB, _ := cmd.Flags().GetBool("from-db"); fromDB {
		records, err = exportFromDB(cmd)
	} else {
		records, err = exportFromSearch(cmd, args)
	}
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout

	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() { _ = f.Close() }()

		out = f
	}

	return export.Write(out, format, records)
}

func exportFromDB(cmd *cobra.Command) ([]model.RepositoryRecord, error) {
	st, err := store.GetDB()
	if err != nil {
		return nil, err
	}

	filter, err := storeFilterFromFlags(cmd)
	if err != nil {
		return nil, err
	}

	return st.Query(filter)
}

func exportFromSearch(cmd *cobra.Command, args []string) ([]model.RepositoryRecord, error) {
	svc, _, err := newService(cmd)
	if err != nil {
		return nil, err
	}

	opts := core.ScanOptions{Filters: filtersFromFlags(cmd)}

	if len(args) == 1 {
		opts.PresetID = args[0]
	}

	result, err := svc.Scan(cmd.Context(), opts)
	if err != nil {
		return nil, err
	}

	return result.Records, nil
}
