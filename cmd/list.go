package cmd

import (
	"fmt"
	"time"

	"github.com/inovacc/relic/internal/cli"
	"github.com/inovacc/relic/internal/model"
	"github.com/inovacc/relic/internal/store"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Browse everything collected so far",
	Long: `List repositories from the local database. Works offline; no token
needed.

Examples:
  relic list
  relic list --language COBOL --order stars
  relic list --preset ancient --limit 10
  relic list --since 2026-01-01
  relic list --interactive`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().String("language", "", "Filter by language")
	listCmd.Flags().String("stars", "", "Filter by star count, e.g. >100, 10..50")
	listCmd.Flags().String("preset", "", "Only repos found by this preset")
	listCmd.Flags().String("since", "", "Only repos first seen on or after this date (YYYY-MM-DD)")
	listCmd.Flags().Bool("archived", false, "Only archived repositories")
	listCmd.Flags().Bool("no-forks", false, "Exclude forks")
	listCmd.Flags().String("order", "", "Order by: last_seen, first_seen, stars, forks, created_at, pushed_at, full_name")
	listCmd.Flags().Int("limit", 0, "Maximum number of rows")
	listCmd.Flags().Bool("json", false, "Output as JSON")
	listCmd.Flags().BoolP("interactive", "i", false, "Browse results interactively")
}

func storeFilterFromFlags(cmd *cobra.Command) (model.StoreFilter, error) {
	flags := cmd.Flags()

	filter := model.StoreFilter{}
	filter.Language, _ = flags.GetString("language")
	filter.Stars, _ = flags.GetString("stars")
	filter.PresetID, _ = flags.GetString("preset")
	filter.OrderBy, _ = flags.GetString("order")
	filter.Limit, _ = flags.GetInt("limit")

	if since, _ := flags.GetString("since"); since != "" {
		t, err := time.Parse("2006-01-02", since)
		if err != nil {
			return filter, fmt.Errorf("invalid --since date %q (want YYYY-MM-DD)", since)
		}
		filter.Since = t
	}

	if flags.Changed("archived") {
		v, _ := flags.GetBool("archived")
		filter.Archived = &v
	}

	if flags.Changed("no-forks") {
		if noForks, _ := flags.GetBool("no-forks"); noForks {
			v := false
			filter.Fork = &v
		}
	}

	return filter, nil
}

func runList(cmd *cobra.Command, args []string) error {
	st, err := store.GetDB()
	if err != nil {
		return err
	}

	filter, err := storeFilterFromFlags(cmd)
	if err != nil {
		return err
	}

	records, err := st.Query(filter)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		if records == nil {
			records = []model.RepositoryRecord{}
		}
		return outputJSON(records)
	}

	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		selected, err := cli.Browse("Collected repositories", records)
		if err != nil {
			return err
		}

		if selected != nil {
			fmt.Print(cli.RenderDetail(*selected))
		}

		return nil
	}

	fmt.Print(cli.RenderRecords(records))

	return nil
}
