package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"

	"github.com/inovacc/relic/internal/auth"
	"github.com/inovacc/relic/internal/core"
	"github.com/inovacc/relic/internal/query"
	"github.com/inovacc/relic/internal/search"
	"github.com/inovacc/relic/internal/store"
	"github.com/spf13/cobra"
)

// newService resolves credentials and wires the search executor to the
// local store. Commands that only read the store should use store.GetDB
// directly so they work without a token.
func newService(cmd *cobra.Command) (*core.Service, store.Store, error) {
	token, _ := cmd.Flags().GetString("token")

	resolved, err := auth.ResolveGitHubToken(token)
	if err != nil {
		return nil, nil, err
	}

	slog.Debug("resolved token", slog.String("source", resolved.Name))

	st, err := store.GetDB()
	if err != nil {
		return nil, nil, err
	}

	transport := search.NewGitHubTransport(cmd.Context(), resolved.Token)
	executor := search.NewExecutor(transport, slog.Default())

	return core.NewService(executor, st, slog.Default()), st, nil
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

// scanFilterFlags registers the filter flags shared by search commands.
func scanFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("keyword", nil, "Search keyword (repeatable; multiple keywords are merged with OR)")
	cmd.Flags().String("language", "", "Programming language filter")
	cmd.Flags().String("created", "", "Creation date range, e.g. 2008-01-01..2010-12-31 or <2010-01-01")
	cmd.Flags().String("pushed", "", "Last-push date range, e.g. <2015-01-01")
	cmd.Flags().String("stars", "", "Star count filter, e.g. >100, 10..50")
	cmd.Flags().String("era", "", "Named era to search within, e.g. y2k, dotcom")
	cmd.Flags().Int("abandoned", 0, "Only repos untouched for at least N years")
	cmd.Flags().Int("dead-since", 0, "Only repos with no pushes since the given year")
	cmd.Flags().String("topic", "", "Repository topic filter")
	cmd.Flags().Bool("archived", false, "Only archived repositories")
	cmd.Flags().Bool("no-forks", false, "Exclude forks")
	cmd.Flags().String("sort", "", "Sort order: stars, forks or updated")
	cmd.Flags().Int("limit", 0, "Maximum number of results")
}

// filtersFromFlags reads the shared filter flags into FilterParams. Flags
// the user never touched stay unset so preset templates shine through.
func filtersFromFlags(cmd *cobra.Command) query.FilterParams {
	flags := cmd.Flags()

	keywords, _ := flags.GetStringSlice("keyword")
	language, _ := flags.GetString("language")
	created, _ := flags.GetString("created")
	pushed, _ := flags.GetString("pushed")
	stars, _ := flags.GetString("stars")
	era, _ := flags.GetString("era")
	abandoned, _ := flags.GetInt("abandoned")
	deadSince, _ := flags.GetInt("dead-since")
	topic, _ := flags.GetString("topic")
	sortField, _ := flags.GetString("sort")
	limit, _ := flags.GetInt("limit")

	filters := query.FilterParams{
		Keywords:       keywords,
		Language:       language,
		Created:        created,
		Pushed:         pushed,
		Stars:          stars,
		Era:            era,
		AbandonedYears: abandoned,
		DeadSince:      deadSince,
		Topic:          topic,
		Sort:           sortField,
		Limit:          limit,
	}

	if flags.Changed("archived") {
		v, _ := flags.GetBool("archived")
		filters.Archived = &v
	}

	if flags.Changed("no-forks") {
		if noForks, _ := flags.GetBool("no-forks"); noForks {
			v := false
			filters.Fork = &v
		}
	}

	return filters
}

// openBrowser opens a URL with the platform's default browser.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}

func printScanSummary(result *core.ScanResult) {
	fmt.Printf("\n%d results (%d new, %d seen before)\n",
		len(result.Records), result.Upsert.New, result.Upsert.Updated)

	if result.Partial {
		fmt.Println("warning: the search failed partway; these are the pages collected before the failure")
	}
}
