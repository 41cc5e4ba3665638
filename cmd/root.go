// Package cmd provides the refcross CLI commands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func setupLogger() {
	logLevel := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "INFO"
	}

	var level slog.Level
	switch logLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

var rootCmd = &cobra.Command{
	Use:   "refcross",
	Short: "Convert bibliographic references between formats",
	Long: `refcross converts bibliographic reference collections between formats
(BibTeX, BibLaTeX, RIS, EndNote, NBIB, ISI, COPAC, MODS, ADS)
through a shared, format-independent intermediate representation.

Examples:
  refcross convert bibtex ris -i library.bib -o library.ris
  cat library.bib | refcross convert bibtex ris > library.ris`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	setupLogger()
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "accepted but has no effect; the log level comes from LOG_LEVEL")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "accepted but has no effect; the log level comes from LOG_LEVEL")
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(formatsCmd)
	rootCmd.AddCommand(versionCmd)
}
