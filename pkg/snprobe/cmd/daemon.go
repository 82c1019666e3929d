package cmd

import (
	"fmt"
	"os"

	"github.com/consol-monitoring/snprobe/pkg/snprobe"
	daemon "github.com/sevlyar/go-daemon"
	"github.com/spf13/cobra"
)

func init() {
	daemonCmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the http listener in the background",
		Run: func(_ *cobra.Command, _ []string) {
			dCtx := &daemon.Context{}

			daemonProc, err := dCtx.Reborn()
			if err != nil {
				fmt.Fprintf(os.Stderr, "ERROR: unable to start daemon mode: %s\n", err.Error())
				os.Exit(int(snprobe.CheckExitUnknown))
			}

			// parent simply exits
			if daemonProc != nil {
				os.Exit(int(snprobe.CheckExitOK))
			}

			defer func() {
				if err := dCtx.Release(); err != nil {
					fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
				}
			}()

			snc := snprobe.NewAgent(agentFlags)
			runServer(snc)
		},
	}
	daemonCmd.Flags().StringVarP(&serverBind, "bind", "b", "127.0.0.1:9266", "bind address of the http listener")
	rootCmd.AddCommand(daemonCmd)
}
