package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/consol-monitoring/snprobe/pkg/snprobe"
	"github.com/spf13/cobra"
)

func init() {
	runCmd := &cobra.Command{
		Use:   "run <check> [args]",
		Short: "Run a single probe and exit with its plugin state",
		Long: `Run executes one probe and prints the plugin output.

The process exits with the Nagios plugin code of the result:
0 - OK, 1 - WARNING, 2 - CRITICAL, 3 - UNKNOWN.

Examples:

# check the load on a power distribution unit
snprobe run check_pdu_load -H pdu1.example.com -C public -w 12 -c 16

# check firewall sensors with snmp v3 credentials
snprobe run check_fw_temp -H fw1 -u monitor -A authpw -X privpw -L sha,aes
`,
		Args:               cobra.MinimumNArgs(1),
		DisableFlagParsing: true,
		Run: func(cmd *cobra.Command, args []string) {
			snc := snprobe.NewAgent(agentFlags)
			res := snc.RunCheck(context.Background(), args[0], args[1:])
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", res.BuildPluginOutput())
			os.Exit(res.ExitCode())
		},
	}
	rootCmd.AddCommand(runCmd)
}
