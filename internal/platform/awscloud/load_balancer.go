package awscloud

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
)

// CreateLoadBalancer attempts to create the network load balancer across
// the given subnets. Errors are returned with their provider typing
// intact so the retry orchestrator can classify duplicate-name and
// insufficient-address-space rejections.
func (c *Client) CreateLoadBalancer(ctx context.Context, name string, subnetIDs []string) (*LoadBalancer, error) {
	out, err := c.elb.CreateLoadBalancer(ctx, &elbv2.CreateLoadBalancerInput{
		Name:    aws.String(name),
		Type:    elbtypes.LoadBalancerTypeEnumNetwork,
		Scheme:  elbtypes.LoadBalancerSchemeEnumInternetFacing,
		Subnets: subnetIDs,
		Tags:    c.elbTags(name),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create load balancer %q: %w", name, err)
	}
	if len(out.LoadBalancers) == 0 {
		return nil, fmt.Errorf("create load balancer %q returned no load balancer", name)
	}
	return loadBalancerFromAPI(out.LoadBalancers[0]), nil
}

// LoadBalancerByName fetches an existing load balancer by its name.
func (c *Client) LoadBalancerByName(ctx context.Context, name string) (*LoadBalancer, error) {
	out, err := c.elb.DescribeLoadBalancers(ctx, &elbv2.DescribeLoadBalancersInput{
		Names: []string{name},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe load balancer %q: %w", name, err)
	}
	if len(out.LoadBalancers) == 0 {
		return nil, &NotFoundError{Resource: "load balancer", Name: name}
	}
	return loadBalancerFromAPI(out.LoadBalancers[0]), nil
}

// LoadBalancerState returns the current state code of the load balancer.
func (c *Client) LoadBalancerState(ctx context.Context, arn string) (string, error) {
	out, err := c.elb.DescribeLoadBalancers(ctx, &elbv2.DescribeLoadBalancersInput{
		LoadBalancerArns: []string{arn},
	})
	if err != nil {
		return "", fmt.Errorf("failed to describe load balancer state: %w", err)
	}
	if len(out.LoadBalancers) == 0 {
		return "", &NotFoundError{Resource: "load balancer", Name: arn}
	}
	lb := out.LoadBalancers[0]
	if lb.State == nil {
		return "", nil
	}
	return string(lb.State.Code), nil
}

// EnsureTargetGroup creates the TCP target group with a same-port health
// check, or returns the existing one of that name.
func (c *Client) EnsureTargetGroup(ctx context.Context, name, vpcID string, port int32) (string, error) {
	return (&EnsureOperation[string]{
		Name:         name,
		ResourceType: "target group",
		Create: func(ctx context.Context) (string, error) {
			out, err := c.elb.CreateTargetGroup(ctx, &elbv2.CreateTargetGroupInput{
				Name:                aws.String(name),
				Protocol:            elbtypes.ProtocolEnumTcp,
				Port:                aws.Int32(port),
				VpcId:               aws.String(vpcID),
				TargetType:          elbtypes.TargetTypeEnumInstance,
				HealthCheckProtocol: elbtypes.ProtocolEnumTcp,
				HealthCheckPort:     aws.String(strconv.Itoa(int(port))),
				HealthCheckEnabled:  aws.Bool(true),
				Tags:                c.elbTags(name),
			})
			if err != nil {
				return "", err
			}
			if len(out.TargetGroups) == 0 {
				return "", fmt.Errorf("create target group %q returned no target group", name)
			}
			return aws.ToString(out.TargetGroups[0].TargetGroupArn), nil
		},
		Lookup: func(ctx context.Context) (string, error) {
			out, err := c.elb.DescribeTargetGroups(ctx, &elbv2.DescribeTargetGroupsInput{
				Names: []string{name},
			})
			if err != nil {
				return "", err
			}
			if len(out.TargetGroups) == 0 {
				return "", &NotFoundError{Resource: "target group", Name: name}
			}
			return aws.ToString(out.TargetGroups[0].TargetGroupArn), nil
		},
	}).Execute(ctx)
}

// EnsureListener creates a TCP listener forwarding to the target group.
// Listeners carry no name, so idempotency is a port match among the load
// balancer's existing listeners.
func (c *Client) EnsureListener(ctx context.Context, lbARN, targetGroupARN string, port int32) (string, error) {
	existing, err := c.elb.DescribeListeners(ctx, &elbv2.DescribeListenersInput{
		LoadBalancerArn: aws.String(lbARN),
	})
	if err != nil {
		return "", fmt.Errorf("failed to describe listeners: %w", err)
	}
	for _, l := range existing.Listeners {
		if aws.ToInt32(l.Port) == port {
			return aws.ToString(l.ListenerArn), nil
		}
	}

	out, err := c.elb.CreateListener(ctx, &elbv2.CreateListenerInput{
		LoadBalancerArn: aws.String(lbARN),
		Protocol:        elbtypes.ProtocolEnumTcp,
		Port:            aws.Int32(port),
		DefaultActions: []elbtypes.Action{
			{
				Type:           elbtypes.ActionTypeEnumForward,
				TargetGroupArn: aws.String(targetGroupARN),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create listener on port %d: %w", port, err)
	}
	if len(out.Listeners) == 0 {
		return "", fmt.Errorf("create listener on port %d returned no listener", port)
	}
	return aws.ToString(out.Listeners[0].ListenerArn), nil
}

func (c *Client) elbTags(name string) []elbtypes.Tag {
	return []elbtypes.Tag{
		{Key: aws.String("Name"), Value: aws.String(name)},
		{Key: aws.String("Project"), Value: aws.String(c.project)},
	}
}

func loadBalancerFromAPI(lb elbtypes.LoadBalancer) *LoadBalancer {
	state := ""
	if lb.State != nil {
		state = string(lb.State.Code)
	}
	return &LoadBalancer{
		ARN:     aws.ToString(lb.LoadBalancerArn),
		DNSName: aws.ToString(lb.DNSName),
		State:   state,
	}
}
