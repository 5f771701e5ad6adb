package commands

import (
	"github.com/spf13/cobra"

	"github.com/stressfleet/stressfleet/cmd/stressfleet/handlers"
)

// Deploy returns the command for provisioning the fleet.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: stressfleet.yaml)
//
// Environment variables:
//
//	AWS_DEFAULT_REGION: overrides the configured region
//	VPC_ID:             VPC to deploy into
//	SUBNET_IDS:         comma-separated subnets for the load balancer
func Deploy() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Provision the stress fleet on AWS",
		Long: `Provision the stress fleet: network load balancer, target group,
listener, autoscaling group, and target-tracking scaling policy.

Deployment is idempotent: resources that already exist are reused. When
the load balancer is rejected because a subnet lacks free IP addresses,
the offending subnet is replaced automatically, creating a new subnet on
a free CIDR range if necessary.

If VPC ID or subnet IDs are missing from the config file and environment,
and the session is interactive, they are prompted for.

Examples:
  # Deploy using stressfleet.yaml in the current directory
  stressfleet deploy

  # Deploy using a specific config file
  stressfleet deploy -c production.yaml

  # Deploy without a config file
  VPC_ID=vpc-abc123 SUBNET_IDS=subnet-1,subnet-2 stressfleet deploy`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Deploy(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: stressfleet.yaml)")

	return cmd
}
