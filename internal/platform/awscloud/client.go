package awscloud

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"

	"github.com/stressfleet/stressfleet/internal/config"
	"github.com/stressfleet/stressfleet/internal/netalloc"
)

// EC2API is the subset of the EC2 client the deployer calls.
type EC2API interface {
	DescribeVpcs(ctx context.Context, params *ec2.DescribeVpcsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVpcsOutput, error)
	DescribeSubnets(ctx context.Context, params *ec2.DescribeSubnetsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSubnetsOutput, error)
	DescribeAvailabilityZones(ctx context.Context, params *ec2.DescribeAvailabilityZonesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeAvailabilityZonesOutput, error)
	CreateSubnet(ctx context.Context, params *ec2.CreateSubnetInput, optFns ...func(*ec2.Options)) (*ec2.CreateSubnetOutput, error)
	DescribeLaunchTemplateVersions(ctx context.Context, params *ec2.DescribeLaunchTemplateVersionsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeLaunchTemplateVersionsOutput, error)
}

// ELBAPI is the subset of the Elastic Load Balancing v2 client the
// deployer calls.
type ELBAPI interface {
	CreateLoadBalancer(ctx context.Context, params *elasticloadbalancingv2.CreateLoadBalancerInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.CreateLoadBalancerOutput, error)
	DescribeLoadBalancers(ctx context.Context, params *elasticloadbalancingv2.DescribeLoadBalancersInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeLoadBalancersOutput, error)
	CreateTargetGroup(ctx context.Context, params *elasticloadbalancingv2.CreateTargetGroupInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.CreateTargetGroupOutput, error)
	DescribeTargetGroups(ctx context.Context, params *elasticloadbalancingv2.DescribeTargetGroupsInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeTargetGroupsOutput, error)
	CreateListener(ctx context.Context, params *elasticloadbalancingv2.CreateListenerInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.CreateListenerOutput, error)
	DescribeListeners(ctx context.Context, params *elasticloadbalancingv2.DescribeListenersInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeListenersOutput, error)
}

// AutoScalingAPI is the subset of the Auto Scaling client the deployer
// calls.
type AutoScalingAPI interface {
	CreateAutoScalingGroup(ctx context.Context, params *autoscaling.CreateAutoScalingGroupInput, optFns ...func(*autoscaling.Options)) (*autoscaling.CreateAutoScalingGroupOutput, error)
	UpdateAutoScalingGroup(ctx context.Context, params *autoscaling.UpdateAutoScalingGroupInput, optFns ...func(*autoscaling.Options)) (*autoscaling.UpdateAutoScalingGroupOutput, error)
	PutScalingPolicy(ctx context.Context, params *autoscaling.PutScalingPolicyInput, optFns ...func(*autoscaling.Options)) (*autoscaling.PutScalingPolicyOutput, error)
	DeletePolicy(ctx context.Context, params *autoscaling.DeletePolicyInput, optFns ...func(*autoscaling.Options)) (*autoscaling.DeletePolicyOutput, error)
}

// LoadBalancer is the deployer's view of a provisioned load balancer.
type LoadBalancer struct {
	ARN     string
	DNSName string
	State   string
}

// Load balancer states reported by the provider.
const (
	LoadBalancerStateProvisioning = "provisioning"
	LoadBalancerStateActive       = "active"
	LoadBalancerStateFailed       = "failed"
)

// AutoScalingGroupOpts holds all parameters for creating the instance
// fleet.
type AutoScalingGroupOpts struct {
	Name                   string
	LaunchTemplateID       string
	MinSize                int32
	MaxSize                int32
	DesiredCapacity        int32
	SubnetIDs              []string
	TargetGroupARNs        []string
	HealthCheckGracePeriod int32
}

// NetworkManager reads the address-space inventory and creates subnets.
type NetworkManager interface {
	// NetworkInventory returns the network's CIDR blocks (primary first,
	// associated secondaries after), its subnets, and the available zones.
	NetworkInventory(ctx context.Context, vpcID string) (*netalloc.Inventory, error)
	// CreateSubnet carves a new subnet out of the network and returns its
	// identifier.
	CreateSubnet(ctx context.Context, vpcID, cidr, zone, name string) (string, error)
}

// LoadBalancerManager manages the load balancer, target group and
// listener.
type LoadBalancerManager interface {
	// CreateLoadBalancer attempts creation and surfaces classified errors;
	// it performs no remediation itself.
	CreateLoadBalancer(ctx context.Context, name string, subnetIDs []string) (*LoadBalancer, error)
	LoadBalancerByName(ctx context.Context, name string) (*LoadBalancer, error)
	LoadBalancerState(ctx context.Context, arn string) (string, error)
	EnsureTargetGroup(ctx context.Context, name, vpcID string, port int32) (string, error)
	EnsureListener(ctx context.Context, lbARN, targetGroupARN string, port int32) (string, error)
}

// AutoScalingManager manages the instance fleet and its scaling policy.
type AutoScalingManager interface {
	// CheckLaunchTemplate verifies the launch template exists; absence is
	// fatal for the deployment.
	CheckLaunchTemplate(ctx context.Context, id string) error
	// EnsureAutoScalingGroup creates the group, reporting existed=true when
	// a group of that name was already present.
	EnsureAutoScalingGroup(ctx context.Context, opts AutoScalingGroupOpts) (existed bool, err error)
	SetInstanceWarmup(ctx context.Context, group string, seconds int32) error
	SetDefaultCooldown(ctx context.Context, group string, seconds int32) error
	// EnsureScalingPolicy installs the target-tracking policy, replacing a
	// pre-existing policy of the same name.
	EnsureScalingPolicy(ctx context.Context, group, name string, targetValue float64) (string, error)
}

// CloudManager combines all provider interfaces consumed by provisioning.
type CloudManager interface {
	NetworkManager
	LoadBalancerManager
	AutoScalingManager
}

// Client implements CloudManager using the AWS SDK.
type Client struct {
	ec2      EC2API
	elb      ELBAPI
	asg      AutoScalingAPI
	project  string
	timeouts *config.Timeouts
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithEC2 sets a custom EC2 API (useful for testing).
func WithEC2(api EC2API) ClientOption {
	return func(c *Client) { c.ec2 = api }
}

// WithELB sets a custom ELB API (useful for testing).
func WithELB(api ELBAPI) ClientOption {
	return func(c *Client) { c.elb = api }
}

// WithAutoScaling sets a custom Auto Scaling API (useful for testing).
func WithAutoScaling(api AutoScalingAPI) ClientOption {
	return func(c *Client) { c.asg = api }
}

// WithTimeouts sets custom timeouts for the client.
func WithTimeouts(t *config.Timeouts) ClientOption {
	return func(c *Client) { c.timeouts = t }
}

// New creates a Client for the given region and project. Credentials come
// from the standard environment variables when all three are present, and
// from the default chain otherwise.
func New(ctx context.Context, region, project string, opts ...ClientOption) (*Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}

	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	sessionToken := os.Getenv("AWS_SESSION_TOKEN")
	if accessKey != "" && secretKey != "" && sessionToken != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, sessionToken)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	c := &Client{
		ec2:      ec2.NewFromConfig(awsCfg),
		elb:      elasticloadbalancingv2.NewFromConfig(awsCfg),
		asg:      autoscaling.NewFromConfig(awsCfg),
		project:  project,
		timeouts: config.LoadTimeouts(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewFromAPIs builds a Client directly from API implementations, used by
// tests and anywhere the SDK config chain is unwanted.
func NewFromAPIs(ec2API EC2API, elbAPI ELBAPI, asgAPI AutoScalingAPI, project string, opts ...ClientOption) *Client {
	c := &Client{
		ec2:      ec2API,
		elb:      elbAPI,
		asg:      asgAPI,
		project:  project,
		timeouts: config.LoadTimeouts(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
