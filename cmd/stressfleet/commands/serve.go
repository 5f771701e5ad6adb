package commands

import (
	"github.com/spf13/cobra"

	"github.com/stressfleet/stressfleet/cmd/stressfleet/handlers"
)

// Serve returns the command for running the stress HTTP service.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: stressfleet.yaml)
//	--listen, -l: Listen address, overriding the config
func Serve() *cobra.Command {
	var configPath string
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the stress HTTP service",
		Long: `Run the HTTP service that fleet instances expose behind the load
balancer. It starts and stops stress-ng CPU workers on request:

  POST   /stress        start a run ({"cpu": N, "timeout": seconds})
  GET    /stress        list running stress processes
  DELETE /stress/{pid}  stop a run
  GET    /health        health check for the target group
  GET    /metrics       Prometheus metrics`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Serve(cmd.Context(), configPath, listenAddr)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: stressfleet.yaml)")
	cmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "Listen address (default from config, :8080)")

	return cmd
}
