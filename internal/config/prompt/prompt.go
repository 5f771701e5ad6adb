// Package prompt collects missing network inputs interactively.
package prompt

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/stressfleet/stressfleet/internal/config"
)

var (
	vpcIDRegex    = regexp.MustCompile(`^vpc-[0-9a-f]+$`)
	subnetIDRegex = regexp.MustCompile(`^subnet-[0-9a-f]+$`)
)

// Network prompts for the VPC ID and subnet IDs and writes the answers
// into the config. Fields that already hold a value are pre-filled so
// the user only confirms them. Callers must ensure stdout is a terminal
// before calling.
func Network(ctx context.Context, cfg *config.Config) error {
	vpcID := cfg.Network.VPCID
	subnetsInput := strings.Join(cfg.Network.SubnetIDs, ", ")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("VPC ID").
				Description("The VPC to deploy the fleet into").
				Placeholder("vpc-0123456789abcdef0").
				Value(&vpcID).
				Validate(validateVPCID),
			huh.NewInput().
				Title("Subnet IDs").
				Description("Comma-separated subnets for the load balancer").
				Placeholder("subnet-0123456789abcdef0, subnet-0fedcba9876543210").
				Value(&subnetsInput).
				Validate(validateSubnetList),
		).Title("Network"),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return fmt.Errorf("network prompt failed: %w", err)
	}

	cfg.Network.VPCID = strings.TrimSpace(vpcID)
	cfg.Network.SubnetIDs = config.SplitSubnetIDs(subnetsInput)
	return nil
}

func validateVPCID(s string) error {
	if !vpcIDRegex.MatchString(strings.TrimSpace(s)) {
		return fmt.Errorf("expected a VPC ID like vpc-0123456789abcdef0")
	}
	return nil
}

func validateSubnetList(s string) error {
	ids := config.SplitSubnetIDs(s)
	if len(ids) == 0 {
		return fmt.Errorf("at least one subnet ID is required")
	}
	for _, id := range ids {
		if !subnetIDRegex.MatchString(id) {
			return fmt.Errorf("%q is not a subnet ID", id)
		}
	}
	return nil
}
