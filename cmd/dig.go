package cmd

import (
	"fmt"

	"github.com/inovacc/relic/internal/cli"
	"github.com/spf13/cobra"
)

var digCmd = &cobra.Command{
	Use:   "dig <owner/repo>",
	Short: "Inspect a single repository and add it to the collection",
	Long: `Fetch one repository directly and fold it into the local database.

Examples:
  relic dig torvalds/linux
  relic dig alice/guestbook --open
  relic dig alice/guestbook --json`,
	Args: cobra.ExactArgs(1),
	RunE: runDig,
}

func init() {
	rootCmd.AddCommand(digCmd)
	digCmd.Flags().Bool("json", false, "Output as JSON")
	digCmd.Flags().Bool("open", false, "Open the repository in the browser")
}

func runDig(cmd *cobra.Command, args []string) error {
	svc, _, err := newService(cmd)
	if err != nil {
		return err
	}

	rec, err := svc.Dig(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		if err := outputJSON(rec); err != nil {
			return err
		}
	} else {
		fmt.Print(cli.RenderDetail(*rec))
	}

	if open, _ := cmd.Flags().GetBool("open"); open {
		return openBrowser(rec.HTMLURL)
	}

	return nil
}
