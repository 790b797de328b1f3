package cmd

import (
	"log/slog"
	"os"

	"github.com/inovacc/relic/internal/application"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   application.AppName,
	Short: "Digital archaeology for GitHub",
	Long: `Relic digs through GitHub for forgotten repositories: dead languages,
abandoned projects, and relics of earlier eras of the web.

Curated presets drive the searches; everything found is kept in a local
database so discoveries survive between sessions.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			level = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetRootCmd returns the root command for introspection purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().String("token", "", "GitHub token (overrides GITHUB_TOKEN, GH_TOKEN and gh credentials)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
}
