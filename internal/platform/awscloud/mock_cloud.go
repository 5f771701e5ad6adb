package awscloud

import (
	"context"

	"github.com/stressfleet/stressfleet/internal/netalloc"
)

// MockCloud is a mock implementation of CloudManager. Each method
// delegates to the corresponding Func field when set and returns a
// benign default otherwise.
type MockCloud struct {
	NetworkInventoryFunc func(ctx context.Context, vpcID string) (*netalloc.Inventory, error)
	CreateSubnetFunc     func(ctx context.Context, vpcID, cidr, zone, name string) (string, error)

	CreateLoadBalancerFunc func(ctx context.Context, name string, subnetIDs []string) (*LoadBalancer, error)
	LoadBalancerByNameFunc func(ctx context.Context, name string) (*LoadBalancer, error)
	LoadBalancerStateFunc  func(ctx context.Context, arn string) (string, error)
	EnsureTargetGroupFunc  func(ctx context.Context, name, vpcID string, port int32) (string, error)
	EnsureListenerFunc     func(ctx context.Context, lbARN, targetGroupARN string, port int32) (string, error)

	CheckLaunchTemplateFunc    func(ctx context.Context, id string) error
	EnsureAutoScalingGroupFunc func(ctx context.Context, opts AutoScalingGroupOpts) (bool, error)
	SetInstanceWarmupFunc      func(ctx context.Context, group string, seconds int32) error
	SetDefaultCooldownFunc     func(ctx context.Context, group string, seconds int32) error
	EnsureScalingPolicyFunc    func(ctx context.Context, group, name string, targetValue float64) (string, error)
}

// NetworkInventory implements NetworkManager.
func (m *MockCloud) NetworkInventory(ctx context.Context, vpcID string) (*netalloc.Inventory, error) {
	if m.NetworkInventoryFunc != nil {
		return m.NetworkInventoryFunc(ctx, vpcID)
	}
	return &netalloc.Inventory{NetworkID: vpcID, Blocks: []string{"10.0.0.0/16"}, Zones: []string{"us-east-1a"}}, nil
}

// CreateSubnet implements NetworkManager.
func (m *MockCloud) CreateSubnet(ctx context.Context, vpcID, cidr, zone, name string) (string, error) {
	if m.CreateSubnetFunc != nil {
		return m.CreateSubnetFunc(ctx, vpcID, cidr, zone, name)
	}
	return "subnet-mock", nil
}

// CreateLoadBalancer implements LoadBalancerManager.
func (m *MockCloud) CreateLoadBalancer(ctx context.Context, name string, subnetIDs []string) (*LoadBalancer, error) {
	if m.CreateLoadBalancerFunc != nil {
		return m.CreateLoadBalancerFunc(ctx, name, subnetIDs)
	}
	return &LoadBalancer{ARN: "arn:mock:lb", DNSName: "mock.elb.amazonaws.com", State: LoadBalancerStateActive}, nil
}

// LoadBalancerByName implements LoadBalancerManager.
func (m *MockCloud) LoadBalancerByName(ctx context.Context, name string) (*LoadBalancer, error) {
	if m.LoadBalancerByNameFunc != nil {
		return m.LoadBalancerByNameFunc(ctx, name)
	}
	return &LoadBalancer{ARN: "arn:mock:lb", DNSName: "mock.elb.amazonaws.com", State: LoadBalancerStateActive}, nil
}

// LoadBalancerState implements LoadBalancerManager.
func (m *MockCloud) LoadBalancerState(ctx context.Context, arn string) (string, error) {
	if m.LoadBalancerStateFunc != nil {
		return m.LoadBalancerStateFunc(ctx, arn)
	}
	return LoadBalancerStateActive, nil
}

// EnsureTargetGroup implements LoadBalancerManager.
func (m *MockCloud) EnsureTargetGroup(ctx context.Context, name, vpcID string, port int32) (string, error) {
	if m.EnsureTargetGroupFunc != nil {
		return m.EnsureTargetGroupFunc(ctx, name, vpcID, port)
	}
	return "arn:mock:tg", nil
}

// EnsureListener implements LoadBalancerManager.
func (m *MockCloud) EnsureListener(ctx context.Context, lbARN, targetGroupARN string, port int32) (string, error) {
	if m.EnsureListenerFunc != nil {
		return m.EnsureListenerFunc(ctx, lbARN, targetGroupARN, port)
	}
	return "arn:mock:listener", nil
}

// CheckLaunchTemplate implements AutoScalingManager.
func (m *MockCloud) CheckLaunchTemplate(ctx context.Context, id string) error {
	if m.CheckLaunchTemplateFunc != nil {
		return m.CheckLaunchTemplateFunc(ctx, id)
	}
	return nil
}

// EnsureAutoScalingGroup implements AutoScalingManager.
func (m *MockCloud) EnsureAutoScalingGroup(ctx context.Context, opts AutoScalingGroupOpts) (bool, error) {
	if m.EnsureAutoScalingGroupFunc != nil {
		return m.EnsureAutoScalingGroupFunc(ctx, opts)
	}
	return false, nil
}

// SetInstanceWarmup implements AutoScalingManager.
func (m *MockCloud) SetInstanceWarmup(ctx context.Context, group string, seconds int32) error {
	if m.SetInstanceWarmupFunc != nil {
		return m.SetInstanceWarmupFunc(ctx, group, seconds)
	}
	return nil
}

// SetDefaultCooldown implements AutoScalingManager.
func (m *MockCloud) SetDefaultCooldown(ctx context.Context, group string, seconds int32) error {
	if m.SetDefaultCooldownFunc != nil {
		return m.SetDefaultCooldownFunc(ctx, group, seconds)
	}
	return nil
}

// EnsureScalingPolicy implements AutoScalingManager.
func (m *MockCloud) EnsureScalingPolicy(ctx context.Context, group, name string, targetValue float64) (string, error) {
	if m.EnsureScalingPolicyFunc != nil {
		return m.EnsureScalingPolicyFunc(ctx, group, name, targetValue)
	}
	return "arn:mock:policy", nil
}
