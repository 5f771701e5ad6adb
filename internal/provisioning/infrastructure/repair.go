package infrastructure

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/stressfleet/stressfleet/internal/netalloc"
	"github.com/stressfleet/stressfleet/internal/platform/awscloud"
	"github.com/stressfleet/stressfleet/internal/provisioning"
	"github.com/stressfleet/stressfleet/internal/util/naming"
)

const (
	// minFreeAddresses is the smallest free-address count a subnet must
	// have before the load balancer will accept it.
	minFreeAddresses = 8

	// extraAttempts pads the repair attempt cap beyond the size of the
	// initial subnet set, bounding runs where every replacement is itself
	// rejected.
	extraAttempts = 3
)

// ErrNetworkExhausted reports that the repair loop ran out of candidate
// subnets: every supplied subnet was rejected and no free range of any
// fallback size exists in the network's blocks.
var ErrNetworkExhausted = errors.New(
	"network address space exhausted: delete unused subnets, associate an additional CIDR block with the VPC, or supply subnets with at least 8 free IP addresses")

// createLoadBalancerWithRepair attempts load balancer creation, repairing
// the subnet set whenever the provider rejects it for insufficient
// address space. Offending subnets are parsed from the classified error
// and permanently excluded; each is replaced by an existing subnet with
// enough free addresses or by a freshly created one. The working set
// lives entirely in locals and is published to State only on success.
//
// The loop is bounded at len(initial) + 3 attempts: each failure removes
// at least one subnet from a finite pool, so the cap is a backstop, not
// the usual exit.
func createLoadBalancerWithRepair(ctx *provisioning.Context, name string) (*awscloud.LoadBalancer, bool, error) {
	subnets := append([]string(nil), ctx.State.FinalSubnets...)
	excluded := make(map[string]bool)
	maxAttempts := len(subnets) + extraAttempts

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lb, err := ctx.Cloud.CreateLoadBalancer(ctx, name, subnets)
		if err == nil {
			ctx.State.FinalSubnets = subnets
			return lb, false, nil
		}

		if awscloud.IsAlreadyExists(err) {
			existing, lookupErr := ctx.Cloud.LoadBalancerByName(ctx, name)
			if lookupErr != nil {
				return nil, false, fmt.Errorf("load balancer %s exists but lookup failed: %w", name, lookupErr)
			}
			ctx.State.FinalSubnets = subnets
			return existing, true, nil
		}

		spaceErr, ok := awscloud.AsInsufficientAddressSpace(err)
		if !ok {
			return nil, false, fmt.Errorf("failed to create load balancer %s: %w", name, err)
		}

		offending := spaceErr.SubnetIDs
		if len(offending) == 0 {
			// The message named no subnet, so the whole working set is
			// suspect.
			offending = append([]string(nil), subnets...)
		}

		ctx.Observer.Event(provisioning.Event{
			Type:     provisioning.EventRemediation,
			Phase:    phaseName,
			Resource: name,
			Message: fmt.Sprintf("attempt %d/%d: insufficient address space, excluding %s",
				attempt, maxAttempts, strings.Join(offending, ", ")),
		})

		for _, id := range offending {
			excluded[id] = true
		}
		subnets = withoutExcluded(subnets, excluded)

		replacement, err := findReplacementSubnet(ctx, excluded, subnets)
		if err != nil {
			return nil, false, err
		}
		subnets = append(subnets, replacement)

		ctx.Observer.Event(provisioning.Event{
			Type:     provisioning.EventRemediation,
			Phase:    phaseName,
			Resource: name,
			Message:  fmt.Sprintf("retrying with replacement subnet %s", replacement),
		})
	}

	return nil, false, fmt.Errorf("load balancer %s rejected %d subnet sets: %w", name, maxAttempts, ErrNetworkExhausted)
}

// findReplacementSubnet produces a subnet usable in place of an excluded
// one: an existing subnet with enough free addresses if any qualifies,
// otherwise a newly created subnet on a free range. When the deliberate
// scan finds no free range, the tail-of-block suggestion is tried once
// before giving up.
func findReplacementSubnet(ctx *provisioning.Context, excluded map[string]bool, current []string) (string, error) {
	inv, err := ctx.Cloud.NetworkInventory(ctx, ctx.Config.Network.VPCID)
	if err != nil {
		return "", fmt.Errorf("failed to read network inventory: %w", err)
	}

	if id := pickExistingSubnet(inv, excluded, current); id != "" {
		return id, nil
	}

	candidate, err := netalloc.FindAvailableRange(inv, excludedIDs(excluded), netalloc.DefaultPrefixLen)
	if errors.Is(err, netalloc.ErrExhausted) {
		candidate, err = netalloc.SuggestRange(inv)
	}
	if err != nil {
		if errors.Is(err, netalloc.ErrExhausted) {
			return "", ErrNetworkExhausted
		}
		return "", fmt.Errorf("failed to find a free range: %w", err)
	}

	subnetName := naming.Subnet(ctx.Config.Project, time.Now().Unix())
	id, err := ctx.Cloud.CreateSubnet(ctx, inv.NetworkID, candidate.CIDR, candidate.Zone, subnetName)
	if err != nil {
		return "", fmt.Errorf("failed to create replacement subnet %s: %w", candidate.CIDR, err)
	}

	ctx.Observer.Event(provisioning.Event{
		Type:     provisioning.EventResourceCreated,
		Phase:    phaseName,
		Resource: id,
		Message:  fmt.Sprintf("created subnet %s in %s", candidate.CIDR, candidate.Zone),
	})
	return id, nil
}

// pickExistingSubnet returns an already-provisioned subnet with enough
// free addresses that is neither excluded nor in the working set,
// preferring zones the working set does not cover yet.
func pickExistingSubnet(inv *netalloc.Inventory, excluded map[string]bool, current []string) string {
	inUse := make(map[string]bool, len(current))
	currentZones := make(map[string]bool, len(current))
	for _, id := range current {
		inUse[id] = true
		if s := inv.SubnetByID(id); s != nil {
			currentZones[s.Zone] = true
		}
	}

	fallback := ""
	for _, s := range inv.Subnets {
		if excluded[s.ID] || inUse[s.ID] || s.FreeAddresses < minFreeAddresses {
			continue
		}
		if !currentZones[s.Zone] {
			return s.ID
		}
		if fallback == "" {
			fallback = s.ID
		}
	}
	return fallback
}

func withoutExcluded(subnets []string, excluded map[string]bool) []string {
	kept := subnets[:0]
	for _, id := range subnets {
		if !excluded[id] {
			kept = append(kept, id)
		}
	}
	return kept
}

func excludedIDs(excluded map[string]bool) []string {
	ids := make([]string, 0, len(excluded))
	for id := range excluded {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
