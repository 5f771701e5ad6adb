// Package autoscaling provisions the instance fleet: launch template
// check, autoscaling group, and the target-tracking scaling policy with
// its warmup and cooldown tuning.
package autoscaling

import (
	"fmt"

	"github.com/stressfleet/stressfleet/internal/platform/awscloud"
	"github.com/stressfleet/stressfleet/internal/provisioning"
	"github.com/stressfleet/stressfleet/internal/util/naming"
)

const phaseName = "autoscaling"

// Provisioner implements the autoscaling provisioning phase.
type Provisioner struct{}

// NewProvisioner creates a new autoscaling provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name returns the phase name.
func (p *Provisioner) Name() string {
	return phaseName
}

// Provision verifies the launch template, ensures the autoscaling group
// on the load balancer's final subnet set, and applies the scaling
// tuning. Group creation is required; warmup, cooldown, and the scaling
// policy are best effort and degrade to warnings so a permissions gap on
// tuning calls never undoes a provisioned fleet.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	if err := ctx.Cloud.CheckLaunchTemplate(ctx, ctx.Config.LaunchTemplateID); err != nil {
		ctx.Report.Add("launch template", provisioning.StepFailed, err.Error())
		return fmt.Errorf("launch template %s unusable: %w", ctx.Config.LaunchTemplateID, err)
	}
	ctx.Report.Add("launch template", provisioning.StepOK, ctx.Config.LaunchTemplateID)

	groupName := naming.AutoScalingGroup(ctx.Config.Project)
	existed, err := ctx.Cloud.EnsureAutoScalingGroup(ctx, awscloud.AutoScalingGroupOpts{
		Name:                   groupName,
		LaunchTemplateID:       ctx.Config.LaunchTemplateID,
		MinSize:                ctx.Config.Scaling.MinSize,
		MaxSize:                ctx.Config.Scaling.MaxSize,
		DesiredCapacity:        ctx.Config.Scaling.DesiredCapacity,
		SubnetIDs:              ctx.State.FinalSubnets,
		TargetGroupARNs:        []string{ctx.State.TargetGroupARN},
		HealthCheckGracePeriod: ctx.Config.Scaling.HealthCheckGracePeriod,
	})
	if err != nil {
		ctx.Report.Add("autoscaling group", provisioning.StepFailed, err.Error())
		return fmt.Errorf("failed to ensure autoscaling group %s: %w", groupName, err)
	}
	ctx.State.GroupExisted = existed

	status := provisioning.StepOK
	if existed {
		status = provisioning.StepExists
	}
	ctx.Report.Add("autoscaling group", status, groupName)

	p.applyTuning(ctx, groupName)
	return nil
}

// applyTuning applies warmup, cooldown, and the target-tracking policy.
// Each failure is recorded as a warning and the rest still run.
func (p *Provisioner) applyTuning(ctx *provisioning.Context, groupName string) {
	if err := ctx.Cloud.SetInstanceWarmup(ctx, groupName, ctx.Config.Scaling.WarmupSeconds); err != nil {
		p.warn(ctx, "instance warmup", err)
	} else {
		ctx.Report.Add("instance warmup", provisioning.StepOK,
			fmt.Sprintf("%ds", ctx.Config.Scaling.WarmupSeconds))
	}

	if err := ctx.Cloud.SetDefaultCooldown(ctx, groupName, ctx.Config.Scaling.CooldownSeconds); err != nil {
		p.warn(ctx, "default cooldown", err)
	} else {
		ctx.Report.Add("default cooldown", provisioning.StepOK,
			fmt.Sprintf("%ds", ctx.Config.Scaling.CooldownSeconds))
	}

	policyName := naming.ScalingPolicy(groupName)
	policyARN, err := ctx.Cloud.EnsureScalingPolicy(ctx, groupName, policyName, ctx.Config.Scaling.TargetCPUPercent)
	if err != nil {
		p.warn(ctx, "scaling policy", err)
		return
	}
	ctx.State.ScalingPolicyARN = policyARN
	ctx.Report.Add("scaling policy", provisioning.StepOK,
		fmt.Sprintf("target %.0f%% CPU", ctx.Config.Scaling.TargetCPUPercent))
}

func (p *Provisioner) warn(ctx *provisioning.Context, step string, err error) {
	ctx.Report.Add(step, provisioning.StepWarned, err.Error())
	ctx.Observer.Event(provisioning.Event{
		Type:    provisioning.EventWarning,
		Phase:   phaseName,
		Message: fmt.Sprintf("%s failed: %v", step, err),
	})
}
