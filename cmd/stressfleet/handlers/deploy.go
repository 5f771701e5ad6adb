// Package handlers implements the business logic for CLI commands.
//
// Handlers are framework-agnostic and can be tested independently of the
// CLI framework; collaborators are created through package-level factory
// variables that tests replace.
package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/stressfleet/stressfleet/internal/config"
	"github.com/stressfleet/stressfleet/internal/config/prompt"
	"github.com/stressfleet/stressfleet/internal/platform/awscloud"
	"github.com/stressfleet/stressfleet/internal/provisioning"
	"github.com/stressfleet/stressfleet/internal/provisioning/autoscaling"
	"github.com/stressfleet/stressfleet/internal/provisioning/infrastructure"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads config from file.
	loadConfigFile = config.LoadFile

	// newCloudClient creates the AWS client.
	newCloudClient = func(ctx context.Context, region, project string) (awscloud.CloudManager, error) {
		return awscloud.New(ctx, region, project)
	}

	// promptNetwork collects missing network inputs interactively.
	promptNetwork = prompt.Network

	// stdoutIsTerminal reports whether prompting is possible.
	stdoutIsTerminal = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	// runPhases executes the provisioning pipeline.
	runPhases = provisioning.RunPhases
)

// Deploy provisions the stress fleet.
//
// The workflow:
//  1. Loads and validates configuration, layering environment overrides
//  2. Prompts for VPC and subnets when absent and the session is interactive
//  3. Runs the infrastructure phase: load balancer (with subnet repair),
//     activation wait, target group, listener
//  4. Runs the autoscaling phase: launch template check, group,
//     best-effort warmup/cooldown/scaling-policy tuning
//  5. Prints the structured deployment report and the service endpoint
//
// The report is printed even when a phase fails, so partial progress is
// always visible.
func Deploy(ctx context.Context, configPath string) error {
	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return err
	}

	if needsNetworkInput(cfg) && stdoutIsTerminal() {
		if err := promptNetwork(ctx, cfg); err != nil {
			return err
		}
	}
	if err := cfg.ValidateNetwork(); err != nil {
		return err
	}

	cloud, err := newCloudClient(ctx, cfg.Region, cfg.Project)
	if err != nil {
		return fmt.Errorf("failed to initialize AWS client: %w", err)
	}

	pctx := provisioning.NewContext(ctx, cfg, cloud)
	phases := []provisioning.Phase{
		infrastructure.NewProvisioner(),
		autoscaling.NewProvisioner(),
	}
	runErr := runPhases(pctx, phases)

	fmt.Println()
	fmt.Print(pctx.Report.String())
	if pctx.State.LoadBalancerDNS != "" {
		fmt.Printf("\nService endpoint: http://%s:%d\n", pctx.State.LoadBalancerDNS, cfg.Service.Port)
	}

	if runErr != nil {
		return fmt.Errorf("deployment failed: %w", runErr)
	}
	return nil
}

func needsNetworkInput(cfg *config.Config) bool {
	return cfg.Network.VPCID == "" || len(cfg.Network.SubnetIDs) == 0
}
