package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/consol-monitoring/snprobe/pkg/snprobe"
	"github.com/spf13/cobra"
)

var serverBind string

func init() {
	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Expose all probes over http",
		Long: `Server starts a http listener serving probe results as json under
/api/v1/checks/{name} and prometheus metrics under /metrics.`,
		Run: func(_ *cobra.Command, _ []string) {
			snc := snprobe.NewAgent(agentFlags)
			runServer(snc)
		},
	}
	serverCmd.Flags().StringVarP(&serverBind, "bind", "b", "127.0.0.1:9266", "bind address of the http listener")
	rootCmd.AddCommand(serverCmd)
}

func runServer(snc *snprobe.Agent) {
	server := snprobe.NewWebServer(snc, serverBind)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		server.Stop()
	}()

	if err := server.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		os.Exit(int(snprobe.CheckExitUnknown))
	}
}
