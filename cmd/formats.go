package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/refcross/refcross/registry"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the registered dialect names",
	RunE: func(cmd *cobra.Command, args []string) error {
		names := registry.List()
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}
