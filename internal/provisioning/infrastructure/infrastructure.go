// Package infrastructure provisions the traffic-facing resources: the
// network load balancer (with address-space repair), the target group,
// and the listener wiring them together.
package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"github.com/stressfleet/stressfleet/internal/platform/awscloud"
	"github.com/stressfleet/stressfleet/internal/provisioning"
	"github.com/stressfleet/stressfleet/internal/util/naming"
	"github.com/stressfleet/stressfleet/internal/util/retry"
)

const phaseName = "infrastructure"

// Provisioner implements the infrastructure provisioning phase.
type Provisioner struct{}

// NewProvisioner creates a new infrastructure provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name returns the phase name.
func (p *Provisioner) Name() string {
	return phaseName
}

// Provision creates the load balancer (repairing the subnet set when the
// provider rejects it for lack of address space), waits for it to become
// active, then ensures the target group and listener.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	lbName := naming.LoadBalancer(ctx.Config.Project)

	lb, existed, err := createLoadBalancerWithRepair(ctx, lbName)
	if err != nil {
		ctx.Report.Add("load balancer", provisioning.StepFailed, err.Error())
		return err
	}
	ctx.State.LoadBalancerARN = lb.ARN
	ctx.State.LoadBalancerDNS = lb.DNSName

	status := provisioning.StepOK
	if existed {
		status = provisioning.StepExists
	}
	ctx.Report.Add("load balancer", status, lb.DNSName)
	ctx.Observer.Event(provisioning.Event{
		Type:     eventTypeFor(existed),
		Phase:    phaseName,
		Resource: lbName,
		Message:  fmt.Sprintf("load balancer %s", lb.ARN),
	})

	if err := waitForActive(ctx, lb.ARN); err != nil {
		ctx.Report.Add("load balancer active", provisioning.StepFailed, err.Error())
		return err
	}
	ctx.Report.Add("load balancer active", provisioning.StepOK, "")

	tgName := naming.TargetGroup(ctx.Config.Project)
	port := ctx.Config.Service.Port

	tgARN, err := ctx.Cloud.EnsureTargetGroup(ctx, tgName, ctx.Config.Network.VPCID, port)
	if err != nil {
		ctx.Report.Add("target group", provisioning.StepFailed, err.Error())
		return fmt.Errorf("failed to ensure target group %s: %w", tgName, err)
	}
	ctx.State.TargetGroupARN = tgARN
	ctx.Report.Add("target group", provisioning.StepOK, tgARN)

	listenerARN, err := ctx.Cloud.EnsureListener(ctx, lb.ARN, tgARN, port)
	if err != nil {
		ctx.Report.Add("listener", provisioning.StepFailed, err.Error())
		return fmt.Errorf("failed to ensure listener on %s: %w", lbName, err)
	}
	ctx.State.ListenerARN = listenerARN
	ctx.Report.Add("listener", provisioning.StepOK, listenerARN)

	return nil
}

// waitForActive polls the load balancer state until it reports active.
// A failed state aborts immediately; expiry of the activation timeout is
// reported with the timeout value so operators can raise it.
func waitForActive(ctx *provisioning.Context, arn string) error {
	err := retry.Poll(ctx, ctx.Timeouts.LBPollInterval, ctx.Timeouts.LBActive,
		func(pollCtx context.Context) (bool, error) {
			state, err := ctx.Cloud.LoadBalancerState(pollCtx, arn)
			if err != nil {
				return false, err
			}
			switch state {
			case awscloud.LoadBalancerStateActive:
				return true, nil
			case awscloud.LoadBalancerStateFailed:
				return false, fmt.Errorf("load balancer entered failed state")
			default:
				return false, nil
			}
		})

	if errors.Is(err, retry.ErrPollTimeout) {
		return fmt.Errorf("load balancer did not become active within %v", ctx.Timeouts.LBActive)
	}
	return err
}

func eventTypeFor(existed bool) provisioning.EventType {
	if existed {
		return provisioning.EventResourceExists
	}
	return provisioning.EventResourceCreated
}
