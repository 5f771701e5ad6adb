// Package config defines the deployment and service configuration.
package config

import "fmt"

// Defaults applied when the config file leaves fields unset.
const (
	DefaultProject          = "cpu-stresser"
	DefaultRegion           = "us-east-1"
	DefaultServicePort      = 8080
	DefaultLaunchTemplateID = "lt-0eb3866711e320093"
	DefaultAMIID            = "ami-07b9762960a9da859"
)

// Config is the top-level configuration for both the deploy and serve
// commands.
type Config struct {
	Project          string        `yaml:"project"`
	Region           string        `yaml:"region"`
	LaunchTemplateID string        `yaml:"launchTemplateID"`
	AMIID            string        `yaml:"amiID"`
	Network          NetworkConfig `yaml:"network"`
	Service          ServiceConfig `yaml:"service"`
	Scaling          ScalingConfig `yaml:"scaling"`
}

// NetworkConfig names the virtual network and the subnets the load
// balancer should start from. Both may be filled in interactively when
// absent; the deploy handler enforces presence before provisioning.
type NetworkConfig struct {
	VPCID     string   `yaml:"vpcID"`
	SubnetIDs []string `yaml:"subnetIDs"`
}

// ServiceConfig configures the stress HTTP service and, on the deploy
// side, the port the target group and listener bind to.
type ServiceConfig struct {
	Port         int32  `yaml:"port"`
	ListenAddr   string `yaml:"listenAddr"`
	StressBinary string `yaml:"stressBinary"`
}

// ScalingConfig bounds the autoscaling group and its target-tracking
// policy.
type ScalingConfig struct {
	MinSize                int32   `yaml:"minSize"`
	MaxSize                int32   `yaml:"maxSize"`
	DesiredCapacity        int32   `yaml:"desiredCapacity"`
	TargetCPUPercent       float64 `yaml:"targetCPUPercent"`
	WarmupSeconds          int32   `yaml:"warmupSeconds"`
	CooldownSeconds        int32   `yaml:"cooldownSeconds"`
	HealthCheckGracePeriod int32   `yaml:"healthCheckGracePeriod"`
}

// Validate checks internal consistency. Network inputs are validated
// separately once prompting has had a chance to fill them.
func (c *Config) Validate() error {
	if c.Project == "" {
		return fmt.Errorf("project must not be empty")
	}
	if c.Region == "" {
		return fmt.Errorf("region must not be empty")
	}
	if c.Service.Port <= 0 || c.Service.Port > 65535 {
		return fmt.Errorf("service port %d out of range", c.Service.Port)
	}
	if c.Scaling.MinSize < 0 {
		return fmt.Errorf("minSize must not be negative")
	}
	if c.Scaling.MaxSize < c.Scaling.MinSize {
		return fmt.Errorf("maxSize %d below minSize %d", c.Scaling.MaxSize, c.Scaling.MinSize)
	}
	if c.Scaling.DesiredCapacity < c.Scaling.MinSize || c.Scaling.DesiredCapacity > c.Scaling.MaxSize {
		return fmt.Errorf("desiredCapacity %d outside [%d, %d]",
			c.Scaling.DesiredCapacity, c.Scaling.MinSize, c.Scaling.MaxSize)
	}
	if c.Scaling.TargetCPUPercent <= 0 || c.Scaling.TargetCPUPercent > 100 {
		return fmt.Errorf("targetCPUPercent %v outside (0, 100]", c.Scaling.TargetCPUPercent)
	}
	return nil
}

// ValidateNetwork enforces the inputs the deployment cannot proceed
// without.
func (c *Config) ValidateNetwork() error {
	if c.Network.VPCID == "" {
		return fmt.Errorf("VPC ID is required (set network.vpcID, VPC_ID, or answer the prompt)")
	}
	if len(c.Network.SubnetIDs) == 0 {
		return fmt.Errorf("at least one subnet ID is required (set network.subnetIDs, SUBNET_IDS, or answer the prompt)")
	}
	return nil
}
