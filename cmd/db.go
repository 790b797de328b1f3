package cmd

import (
	"fmt"

	"github.com/inovacc/relic/internal/cli"
	"github.com/inovacc/relic/internal/store"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Inspect and maintain the local database",
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show collection statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.GetDB()
		if err != nil {
			return err
		}

		stats, err := st.Stats()
		if err != nil {
			return err
		}

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return outputJSON(stats)
		}

		fmt.Print(cli.RenderStats(stats))

		return nil
	},
}

var dbPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the database file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.GetDB()
		if err != nil {
			return err
		}

		fmt.Println(st.Path())

		return nil
	},
}

var dbClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete collected data",
	Long: `Delete everything, or only scan history with --scans. Refuses to
run without --yes.

Examples:
  relic db clear --yes
  relic db clear --scans --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.GetDB()
		if err != nil {
			return err
		}

		confirm, _ := cmd.Flags().GetBool("yes")
		scansOnly, _ := cmd.Flags().GetBool("scans")

		if scansOnly {
			if err := st.ClearScans(confirm); err != nil {
				return err
			}

			fmt.Println("scan history cleared")

			return nil
		}

		if err := st.Clear(confirm); err != nil {
			return err
		}

		fmt.Println("database cleared")

		return nil
	},
}

var dbVacuumCmd = &cobra.Command{
	Use:   "vacuum",
	Short: "Compact the database file",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.GetDB()
		if err != nil {
			return err
		}

		if err := st.Compact(); err != nil {
			return err
		}

		stats, err := st.Stats()
		if err != nil {
			return err
		}

		fmt.Printf("compacted; database is now %d bytes\n", stats.DBSizeBytes)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbStatsCmd, dbPathCmd, dbClearCmd, dbVacuumCmd)

	dbStatsCmd.Flags().Bool("json", false, "Output as JSON")
	dbClearCmd.Flags().Bool("yes", false, "Confirm the deletion")
	dbClearCmd.Flags().Bool("scans", false, "Only clear scan history, keep repositories")
}
