package main

import (
	"os"

	"github.com/consol-monitoring/snprobe/pkg/snprobe/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		// usage errors map to the UNKNOWN plugin state
		os.Exit(3)
	}
}
