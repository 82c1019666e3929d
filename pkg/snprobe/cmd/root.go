// Package cmd contains the command line interface of snprobe.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/consol-monitoring/snprobe/pkg/snprobe"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var rootCmd = &cobra.Command{
	Use:   "snprobe [global flags] [command]",
	Short: "Monitoring probes for network devices and services.",
	Long: `snprobe bundles a family of Naemon/Nagios compatible probes for
network devices: power distribution units, firewalls, storage arrays,
radius servers, pbx systems, cloud fleets and wireless controllers.

Probes run one-shot from a monitoring server (see 'snprobe run') or are
exposed over http (see 'snprobe server').`,
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Fprintf(os.Stderr, "snprobe called without command, see --help for usage.\n")
		os.Exit(int(snprobe.CheckExitUnknown))
	},
	PreRun: func(_ *cobra.Command, _ []string) {
		if agentFlags.Version {
			snc := snprobe.NewAgent(agentFlags)
			snc.PrintVersion()
			os.Exit(int(snprobe.CheckExitOK))
		}
	},
}

var agentFlags = &snprobe.AgentFlags{}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&agentFlags.Help, "help", "h", false, "print help and exit")
	rootCmd.PersistentFlags().BoolVarP(&agentFlags.Version, "version", "V", false, "print version and exit")
	rootCmd.PersistentFlags().StringVarP(&agentFlags.ConfigFile, "config", "c", "", "path to the device profile file")
	rootCmd.PersistentFlags().BoolVarP(&agentFlags.Quiet, "quiet", "q", false, "set loglevel to error")
	rootCmd.PersistentFlags().CountVarP(&agentFlags.Verbose, "verbose", "v", "increase loglevel, -v means debug, -vv means trace")
	rootCmd.PersistentFlags().StringVarP(&agentFlags.LogLevel, "loglevel", "", "info", "set loglevel to one of: off, error, info, debug, trace")
	rootCmd.PersistentFlags().StringVarP(&agentFlags.LogFormat, "logformat", "", "", "override logformat, see https://pkg.go.dev/github.com/kdar/factorlog")
	rootCmd.PersistentFlags().StringVarP(&agentFlags.LogFile, "logfile", "", "", "path to log file or stdout/stderr (default is stderr)")

	rootCmd.DisableAutoGenTag = true
	rootCmd.DisableSuggestions = true
	rootCmd.PersistentFlags().SortFlags = false
	rootCmd.Flags().SortFlags = false
}

// Execute runs the root command, it returns an error for usage problems.
func Execute() error {
	sanitizeOSArgs()

	return rootCmd.Execute()
}

// sanitizeOSArgs turns single dash long options into double dash ones,
// monitoring server command definitions frequently use the single dash
// form.
func sanitizeOSArgs() {
	replace := map[string]string{}
	for _, c := range rootCmd.Commands() {
		c.LocalFlags().VisitAll(func(f *pflag.Flag) {
			if len(f.Name) > 1 {
				replace["-"+f.Name] = "--" + f.Name
			}
		})
	}

	for i, arg := range os.Args {
		if i == 0 {
			continue
		}
		if r, ok := replace[arg]; ok {
			os.Args[i] = r
		}
		for name, r := range replace {
			if strings.HasPrefix(arg, name+"=") {
				os.Args[i] = r + "=" + strings.TrimPrefix(arg, name+"=")
			}
		}
	}
}
