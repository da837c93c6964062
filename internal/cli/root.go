// Package cli implements the aozora command line tool.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "aozora",
	Short: "Convert Aozora Bunko texts",
	Long: `Converts Aozora Bunko annotated texts (Shift_JIS or UTF-8 .txt, or the
distributed .zip archives) into plain text or XHTML.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every markup warning")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// logger writes to the command's error stream. Markup warnings are logged at
// debug level, so they only show with --verbose.
func logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
