package awscloud

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
)

var errNotStubbed = errors.New("not stubbed")

// fakeEC2 implements EC2API with overridable behavior per call.
type fakeEC2 struct {
	describeVpcs                   func(*ec2.DescribeVpcsInput) (*ec2.DescribeVpcsOutput, error)
	describeSubnets                func(*ec2.DescribeSubnetsInput) (*ec2.DescribeSubnetsOutput, error)
	describeAvailabilityZones      func(*ec2.DescribeAvailabilityZonesInput) (*ec2.DescribeAvailabilityZonesOutput, error)
	createSubnet                   func(*ec2.CreateSubnetInput) (*ec2.CreateSubnetOutput, error)
	describeLaunchTemplateVersions func(*ec2.DescribeLaunchTemplateVersionsInput) (*ec2.DescribeLaunchTemplateVersionsOutput, error)
}

func (f *fakeEC2) DescribeVpcs(_ context.Context, params *ec2.DescribeVpcsInput, _ ...func(*ec2.Options)) (*ec2.DescribeVpcsOutput, error) {
	if f.describeVpcs == nil {
		return nil, errNotStubbed
	}
	return f.describeVpcs(params)
}

func (f *fakeEC2) DescribeSubnets(_ context.Context, params *ec2.DescribeSubnetsInput, _ ...func(*ec2.Options)) (*ec2.DescribeSubnetsOutput, error) {
	if f.describeSubnets == nil {
		return &ec2.DescribeSubnetsOutput{}, nil
	}
	return f.describeSubnets(params)
}

func (f *fakeEC2) DescribeAvailabilityZones(_ context.Context, params *ec2.DescribeAvailabilityZonesInput, _ ...func(*ec2.Options)) (*ec2.DescribeAvailabilityZonesOutput, error) {
	if f.describeAvailabilityZones == nil {
		return &ec2.DescribeAvailabilityZonesOutput{}, nil
	}
	return f.describeAvailabilityZones(params)
}

func (f *fakeEC2) CreateSubnet(_ context.Context, params *ec2.CreateSubnetInput, _ ...func(*ec2.Options)) (*ec2.CreateSubnetOutput, error) {
	if f.createSubnet == nil {
		return nil, errNotStubbed
	}
	return f.createSubnet(params)
}

func (f *fakeEC2) DescribeLaunchTemplateVersions(_ context.Context, params *ec2.DescribeLaunchTemplateVersionsInput, _ ...func(*ec2.Options)) (*ec2.DescribeLaunchTemplateVersionsOutput, error) {
	if f.describeLaunchTemplateVersions == nil {
		return &ec2.DescribeLaunchTemplateVersionsOutput{}, nil
	}
	return f.describeLaunchTemplateVersions(params)
}

// fakeELB implements ELBAPI with overridable behavior per call.
type fakeELB struct {
	createLoadBalancer    func(*elasticloadbalancingv2.CreateLoadBalancerInput) (*elasticloadbalancingv2.CreateLoadBalancerOutput, error)
	describeLoadBalancers func(*elasticloadbalancingv2.DescribeLoadBalancersInput) (*elasticloadbalancingv2.DescribeLoadBalancersOutput, error)
	createTargetGroup     func(*elasticloadbalancingv2.CreateTargetGroupInput) (*elasticloadbalancingv2.CreateTargetGroupOutput, error)
	describeTargetGroups  func(*elasticloadbalancingv2.DescribeTargetGroupsInput) (*elasticloadbalancingv2.DescribeTargetGroupsOutput, error)
	createListener        func(*elasticloadbalancingv2.CreateListenerInput) (*elasticloadbalancingv2.CreateListenerOutput, error)
	describeListeners     func(*elasticloadbalancingv2.DescribeListenersInput) (*elasticloadbalancingv2.DescribeListenersOutput, error)
}

func (f *fakeELB) CreateLoadBalancer(_ context.Context, params *elasticloadbalancingv2.CreateLoadBalancerInput, _ ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.CreateLoadBalancerOutput, error) {
	if f.createLoadBalancer == nil {
		return nil, errNotStubbed
	}
	return f.createLoadBalancer(params)
}

func (f *fakeELB) DescribeLoadBalancers(_ context.Context, params *elasticloadbalancingv2.DescribeLoadBalancersInput, _ ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeLoadBalancersOutput, error) {
	if f.describeLoadBalancers == nil {
		return nil, errNotStubbed
	}
	return f.describeLoadBalancers(params)
}

func (f *fakeELB) CreateTargetGroup(_ context.Context, params *elasticloadbalancingv2.CreateTargetGroupInput, _ ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.CreateTargetGroupOutput, error) {
	if f.createTargetGroup == nil {
		return nil, errNotStubbed
	}
	return f.createTargetGroup(params)
}

func (f *fakeELB) DescribeTargetGroups(_ context.Context, params *elasticloadbalancingv2.DescribeTargetGroupsInput, _ ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeTargetGroupsOutput, error) {
	if f.describeTargetGroups == nil {
		return nil, errNotStubbed
	}
	return f.describeTargetGroups(params)
}

func (f *fakeELB) CreateListener(_ context.Context, params *elasticloadbalancingv2.CreateListenerInput, _ ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.CreateListenerOutput, error) {
	if f.createListener == nil {
		return nil, errNotStubbed
	}
	return f.createListener(params)
}

func (f *fakeELB) DescribeListeners(_ context.Context, params *elasticloadbalancingv2.DescribeListenersInput, _ ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeListenersOutput, error) {
	if f.describeListeners == nil {
		return &elasticloadbalancingv2.DescribeListenersOutput{}, nil
	}
	return f.describeListeners(params)
}

// fakeASG implements AutoScalingAPI with overridable behavior per call.
type fakeASG struct {
	createAutoScalingGroup func(*autoscaling.CreateAutoScalingGroupInput) (*autoscaling.CreateAutoScalingGroupOutput, error)
	updateAutoScalingGroup func(*autoscaling.UpdateAutoScalingGroupInput) (*autoscaling.UpdateAutoScalingGroupOutput, error)
	putScalingPolicy       func(*autoscaling.PutScalingPolicyInput) (*autoscaling.PutScalingPolicyOutput, error)
	deletePolicy           func(*autoscaling.DeletePolicyInput) (*autoscaling.DeletePolicyOutput, error)
}

func (f *fakeASG) CreateAutoScalingGroup(_ context.Context, params *autoscaling.CreateAutoScalingGroupInput, _ ...func(*autoscaling.Options)) (*autoscaling.CreateAutoScalingGroupOutput, error) {
	if f.createAutoScalingGroup == nil {
		return nil, errNotStubbed
	}
	return f.createAutoScalingGroup(params)
}

func (f *fakeASG) UpdateAutoScalingGroup(_ context.Context, params *autoscaling.UpdateAutoScalingGroupInput, _ ...func(*autoscaling.Options)) (*autoscaling.UpdateAutoScalingGroupOutput, error) {
	if f.updateAutoScalingGroup == nil {
		return &autoscaling.UpdateAutoScalingGroupOutput{}, nil
	}
	return f.updateAutoScalingGroup(params)
}

func (f *fakeASG) PutScalingPolicy(_ context.Context, params *autoscaling.PutScalingPolicyInput, _ ...func(*autoscaling.Options)) (*autoscaling.PutScalingPolicyOutput, error) {
	if f.putScalingPolicy == nil {
		return nil, errNotStubbed
	}
	return f.putScalingPolicy(params)
}

func (f *fakeASG) DeletePolicy(_ context.Context, params *autoscaling.DeletePolicyInput, _ ...func(*autoscaling.Options)) (*autoscaling.DeletePolicyOutput, error) {
	if f.deletePolicy == nil {
		return &autoscaling.DeletePolicyOutput{}, nil
	}
	return f.deletePolicy(params)
}
