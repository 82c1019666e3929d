package cmd

import (
	"fmt"
	"sort"

	"github.com/consol-monitoring/snprobe/pkg/snprobe"
	"github.com/spf13/cobra"
)

func init() {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all available probes",
		Run: func(cmd *cobra.Command, _ []string) {
			names := make([]string, 0, len(snprobe.AvailableChecks))
			for name := range snprobe.AvailableChecks {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", name)
			}
		},
	}
	rootCmd.AddCommand(listCmd)
}
