package cmd

import (
	"fmt"

	"github.com/inovacc/relic/internal/store"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the local database",
	Long: `Create the data directory and database file and apply schema
migrations. Other commands do this on demand; init just does it up front.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.GetDB()
		if err != nil {
			return err
		}

		if err := st.Ping(); err != nil {
			return err
		}

		fmt.Printf("database ready at %s\n", st.Path())

		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
