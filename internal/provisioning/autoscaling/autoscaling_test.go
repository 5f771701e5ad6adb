package autoscaling

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stressfleet/stressfleet/internal/config"
	"github.com/stressfleet/stressfleet/internal/platform/awscloud"
	"github.com/stressfleet/stressfleet/internal/provisioning"
)

func testConfig() *config.Config {
	return &config.Config{
		Project:          "cpu-stresser",
		Region:           "us-east-1",
		LaunchTemplateID: "lt-1",
		Network: config.NetworkConfig{
			VPCID:     "vpc-1",
			SubnetIDs: []string{"subnet-a"},
		},
		Service: config.ServiceConfig{Port: 8080},
		Scaling: config.ScalingConfig{
			MinSize:                1,
			MaxSize:                5,
			DesiredCapacity:        2,
			TargetCPUPercent:       50,
			WarmupSeconds:          60,
			CooldownSeconds:        300,
			HealthCheckGracePeriod: 300,
		},
	}
}

func testContext(cfg *config.Config, cloud awscloud.CloudManager) *provisioning.Context {
	pctx := provisioning.NewContext(context.Background(), cfg, cloud)
	pctx.State.TargetGroupARN = "arn:tg"
	return pctx
}

// The group must be placed on the working subnet set the load balancer
// ended up with, not the caller's original input.
func TestProvision_UsesFinalSubnets(t *testing.T) {
	t.Parallel()

	var gotOpts awscloud.AutoScalingGroupOpts
	cloud := &awscloud.MockCloud{
		EnsureAutoScalingGroupFunc: func(_ context.Context, opts awscloud.AutoScalingGroupOpts) (bool, error) {
			gotOpts = opts
			return false, nil
		},
	}
	pctx := testContext(testConfig(), cloud)
	pctx.State.FinalSubnets = []string{"subnet-repaired", "subnet-extra"}

	require.NoError(t, NewProvisioner().Provision(pctx))

	assert.Equal(t, "cpu-stresser-asg", gotOpts.Name)
	assert.Equal(t, []string{"subnet-repaired", "subnet-extra"}, gotOpts.SubnetIDs)
	assert.Equal(t, []string{"arn:tg"}, gotOpts.TargetGroupARNs)
	assert.Equal(t, int32(1), gotOpts.MinSize)
	assert.Equal(t, int32(5), gotOpts.MaxSize)
	assert.Equal(t, int32(2), gotOpts.DesiredCapacity)
	assert.Equal(t, "arn:mock:policy", pctx.State.ScalingPolicyARN)
	assert.False(t, pctx.Report.Failed())
}

func TestProvision_MissingLaunchTemplateAborts(t *testing.T) {
	t.Parallel()

	cloud := &awscloud.MockCloud{
		CheckLaunchTemplateFunc: func(context.Context, string) error {
			return &awscloud.NotFoundError{Resource: "launch template", Name: "lt-1"}
		},
		EnsureAutoScalingGroupFunc: func(context.Context, awscloud.AutoScalingGroupOpts) (bool, error) {
			t.Fatal("group must not be created without a launch template")
			return false, nil
		},
	}
	pctx := testContext(testConfig(), cloud)

	err := NewProvisioner().Provision(pctx)
	require.Error(t, err)
	assert.True(t, awscloud.IsNotFound(err))
	assert.True(t, pctx.Report.Failed())
}

// An already existing group is reused and tuning still runs.
func TestProvision_ExistingGroupProceedsToTuning(t *testing.T) {
	t.Parallel()

	warmupSet := false
	cooldownSet := false
	policySet := false
	cloud := &awscloud.MockCloud{
		EnsureAutoScalingGroupFunc: func(context.Context, awscloud.AutoScalingGroupOpts) (bool, error) {
			return true, nil
		},
		SetInstanceWarmupFunc: func(_ context.Context, group string, seconds int32) error {
			warmupSet = true
			assert.Equal(t, "cpu-stresser-asg", group)
			assert.Equal(t, int32(60), seconds)
			return nil
		},
		SetDefaultCooldownFunc: func(_ context.Context, _ string, seconds int32) error {
			cooldownSet = true
			assert.Equal(t, int32(300), seconds)
			return nil
		},
		EnsureScalingPolicyFunc: func(_ context.Context, group, name string, target float64) (string, error) {
			policySet = true
			assert.Equal(t, "cpu-stresser-asg-target-tracking", name)
			assert.Equal(t, 50.0, target)
			return "arn:policy", nil
		},
	}
	pctx := testContext(testConfig(), cloud)

	require.NoError(t, NewProvisioner().Provision(pctx))
	assert.True(t, pctx.State.GroupExisted)
	assert.True(t, warmupSet)
	assert.True(t, cooldownSet)
	assert.True(t, policySet)
}

// Tuning failures degrade to warnings without failing the deployment,
// and later tuning steps still run.
func TestProvision_TuningFailuresAreWarnings(t *testing.T) {
	t.Parallel()

	cooldownSet := false
	cloud := &awscloud.MockCloud{
		SetInstanceWarmupFunc: func(context.Context, string, int32) error {
			return errors.New("not authorized")
		},
		SetDefaultCooldownFunc: func(context.Context, string, int32) error {
			cooldownSet = true
			return nil
		},
		EnsureScalingPolicyFunc: func(context.Context, string, string, float64) (string, error) {
			return "", errors.New("not authorized")
		},
	}
	pctx := testContext(testConfig(), cloud)

	require.NoError(t, NewProvisioner().Provision(pctx))
	assert.True(t, cooldownSet, "cooldown must still run after a warmup warning")
	assert.False(t, pctx.Report.Failed())
	assert.Len(t, pctx.Report.Warnings(), 2)
	assert.Empty(t, pctx.State.ScalingPolicyARN)
}

func TestProvision_GroupCreationFailureIsFatal(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	cloud := &awscloud.MockCloud{
		EnsureAutoScalingGroupFunc: func(context.Context, awscloud.AutoScalingGroupOpts) (bool, error) {
			return false, boom
		},
		EnsureScalingPolicyFunc: func(context.Context, string, string, float64) (string, error) {
			t.Fatal("tuning must not run when group creation fails")
			return "", nil
		},
	}
	pctx := testContext(testConfig(), cloud)

	err := NewProvisioner().Provision(pctx)
	require.ErrorIs(t, err, boom)
	assert.True(t, pctx.Report.Failed())
}
