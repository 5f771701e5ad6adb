package awscloud

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	asgtypes "github.com/aws/aws-sdk-go-v2/service/autoscaling/types"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/stressfleet/stressfleet/internal/util/retry"
)

// CheckLaunchTemplate verifies the launch template exists. Absence is a
// NotFound condition the deployment must abort on before creating
// anything else.
func (c *Client) CheckLaunchTemplate(ctx context.Context, id string) error {
	_, err := c.ec2.DescribeLaunchTemplateVersions(ctx, &ec2.DescribeLaunchTemplateVersionsInput{
		LaunchTemplateId: aws.String(id),
	})
	if err != nil {
		return fmt.Errorf("launch template %s not usable: %w", id, err)
	}
	return nil
}

// EnsureAutoScalingGroup creates the instance fleet behind the target
// group. A pre-existing group of the same name is reported via existed
// and not treated as a failure.
func (c *Client) EnsureAutoScalingGroup(ctx context.Context, opts AutoScalingGroupOpts) (bool, error) {
	_, err := c.asg.CreateAutoScalingGroup(ctx, &autoscaling.CreateAutoScalingGroupInput{
		AutoScalingGroupName: aws.String(opts.Name),
		LaunchTemplate: &asgtypes.LaunchTemplateSpecification{
			LaunchTemplateId: aws.String(opts.LaunchTemplateID),
			Version:          aws.String("$Latest"),
		},
		MinSize:                aws.Int32(opts.MinSize),
		MaxSize:                aws.Int32(opts.MaxSize),
		DesiredCapacity:        aws.Int32(opts.DesiredCapacity),
		VPCZoneIdentifier:      aws.String(strings.Join(opts.SubnetIDs, ",")),
		TargetGroupARNs:        opts.TargetGroupARNs,
		HealthCheckType:        aws.String("ELB"),
		HealthCheckGracePeriod: aws.Int32(opts.HealthCheckGracePeriod),
		Tags: []asgtypes.Tag{
			{Key: aws.String("Name"), Value: aws.String(opts.Name), PropagateAtLaunch: aws.Bool(true)},
			{Key: aws.String("Project"), Value: aws.String(c.project), PropagateAtLaunch: aws.Bool(true)},
		},
	})
	if err != nil {
		if IsAlreadyExists(err) {
			return true, nil
		}
		return false, fmt.Errorf("failed to create autoscaling group %q: %w", opts.Name, err)
	}
	return false, nil
}

// SetInstanceWarmup sets the default instance warmup for the group.
func (c *Client) SetInstanceWarmup(ctx context.Context, group string, seconds int32) error {
	_, err := c.asg.UpdateAutoScalingGroup(ctx, &autoscaling.UpdateAutoScalingGroupInput{
		AutoScalingGroupName:  aws.String(group),
		DefaultInstanceWarmup: aws.Int32(seconds),
	})
	if err != nil {
		return fmt.Errorf("failed to set instance warmup on %q: %w", group, err)
	}
	return nil
}

// SetDefaultCooldown sets the default cooldown for the group.
func (c *Client) SetDefaultCooldown(ctx context.Context, group string, seconds int32) error {
	_, err := c.asg.UpdateAutoScalingGroup(ctx, &autoscaling.UpdateAutoScalingGroupInput{
		AutoScalingGroupName: aws.String(group),
		DefaultCooldown:      aws.Int32(seconds),
	})
	if err != nil {
		return fmt.Errorf("failed to set default cooldown on %q: %w", group, err)
	}
	return nil
}

// EnsureScalingPolicy installs a target-tracking policy holding average
// CPU at targetValue. Policies cannot be patched in place, so a
// pre-existing policy of the same name is deleted and recreated after a
// short propagation delay.
func (c *Client) EnsureScalingPolicy(ctx context.Context, group, name string, targetValue float64) (string, error) {
	arn, err := c.putScalingPolicy(ctx, group, name, targetValue)
	if err == nil {
		return arn, nil
	}
	if !IsAlreadyExists(err) {
		return "", fmt.Errorf("failed to put scaling policy %q: %w", name, err)
	}

	if _, err := c.asg.DeletePolicy(ctx, &autoscaling.DeletePolicyInput{
		AutoScalingGroupName: aws.String(group),
		PolicyName:           aws.String(name),
	}); err != nil {
		return "", fmt.Errorf("failed to delete existing scaling policy %q: %w", name, err)
	}

	// Let the deletion propagate before recreating.
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(c.timeouts.PolicyRecreateDelay):
	}

	// The deletion can still be settling at this point; retry the put
	// with backoff while the provider keeps reporting the old policy.
	err = retry.WithExponentialBackoff(ctx, func() error {
		a, putErr := c.putScalingPolicy(ctx, group, name, targetValue)
		if putErr != nil {
			if IsAlreadyExists(putErr) {
				return putErr
			}
			return retry.Fatal(putErr)
		}
		arn = a
		return nil
	},
		retry.WithMaxRetries(c.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(c.timeouts.RetryInitialDelay))
	if err != nil {
		return "", fmt.Errorf("failed to recreate scaling policy %q: %w", name, err)
	}
	return arn, nil
}

func (c *Client) putScalingPolicy(ctx context.Context, group, name string, targetValue float64) (string, error) {
	out, err := c.asg.PutScalingPolicy(ctx, &autoscaling.PutScalingPolicyInput{
		AutoScalingGroupName: aws.String(group),
		PolicyName:           aws.String(name),
		PolicyType:           aws.String("TargetTrackingScaling"),
		TargetTrackingConfiguration: &asgtypes.TargetTrackingConfiguration{
			TargetValue: aws.Float64(targetValue),
			PredefinedMetricSpecification: &asgtypes.PredefinedMetricSpecification{
				PredefinedMetricType: asgtypes.MetricTypeASGAverageCPUUtilization,
			},
			DisableScaleIn: aws.Bool(false),
		},
		Enabled: aws.Bool(true),
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.PolicyARN), nil
}
