package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/refcross/refcross/internal/version"
	"github.com/refcross/refcross/registry"
)

var (
	versionShowFormats bool
	versionColor       = color.New(color.FgCyan, color.Bold)
	unknownColor       = color.New(color.FgMagenta)
)

func init() {
	versionCmd.Flags().BoolVar(&versionShowFormats, "formats", false, "also list every registered dialect")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the refcross version",
	RunE: func(cmd *cobra.Command, args []string) error {
		renderVersion(cmd.OutOrStdout(), versionShowFormats)
		return nil
	},
}

func renderVersion(out io.Writer, showFormats bool) {
	v := strings.TrimSpace(version.Version)
	if v == "" {
		v = "dev"
	}
	fmt.Fprintf(out, "refcross %s\n", versionColor.Sprint(v))

	commit := strings.TrimSpace(version.GitCommit)
	if commit == "" {
		fmt.Fprintf(out, "commit:  %s\n", unknownColor.Sprint("unknown"))
	} else {
		fmt.Fprintf(out, "commit:  %s\n", commit)
	}

	if showFormats {
		names := registry.List()
		fmt.Fprintf(out, "formats: %s\n", strings.Join(names, ", "))
	}
}
