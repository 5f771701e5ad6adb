// Package main is the entry point for the stressfleet CLI.
//
// stressfleet deploys and runs a CPU-stress fleet on AWS: the deploy
// command provisions the network load balancer, target group, listener,
// autoscaling group and scaling policy (repairing subnet address-space
// problems along the way), and the serve command runs the stress HTTP
// service on a fleet instance.
//
// For detailed usage information, run:
//
//	stressfleet --help
package main

import (
	"fmt"
	"os"

	"github.com/stressfleet/stressfleet/cmd/stressfleet/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
