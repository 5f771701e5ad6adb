package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when no path is
// given.
const DefaultConfigFile = "stressfleet.yaml"

// LoadFile reads and parses the configuration from a YAML file, applies
// defaults and environment overrides, and validates the result. An empty
// path loads DefaultConfigFile if present and otherwise starts from a
// config of pure defaults, so the tool stays usable with environment
// variables alone.
func LoadFile(path string) (*Config, error) {
	var data []byte
	var err error

	switch {
	case path != "":
		// #nosec G304
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	default:
		data, err = os.ReadFile(DefaultConfigFile)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
		}
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Project == "" {
		cfg.Project = DefaultProject
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	if cfg.LaunchTemplateID == "" {
		cfg.LaunchTemplateID = DefaultLaunchTemplateID
	}
	if cfg.AMIID == "" {
		cfg.AMIID = DefaultAMIID
	}
	if cfg.Service.Port == 0 {
		cfg.Service.Port = DefaultServicePort
	}
	if cfg.Service.ListenAddr == "" {
		cfg.Service.ListenAddr = fmt.Sprintf(":%d", cfg.Service.Port)
	}
	if cfg.Service.StressBinary == "" {
		cfg.Service.StressBinary = "stress-ng"
	}
	if cfg.Scaling.MinSize == 0 {
		cfg.Scaling.MinSize = 1
	}
	if cfg.Scaling.MaxSize == 0 {
		cfg.Scaling.MaxSize = 5
	}
	if cfg.Scaling.DesiredCapacity == 0 {
		cfg.Scaling.DesiredCapacity = 2
	}
	if cfg.Scaling.TargetCPUPercent == 0 {
		cfg.Scaling.TargetCPUPercent = 50.0
	}
	if cfg.Scaling.WarmupSeconds == 0 {
		cfg.Scaling.WarmupSeconds = 60
	}
	if cfg.Scaling.CooldownSeconds == 0 {
		cfg.Scaling.CooldownSeconds = 300
	}
	if cfg.Scaling.HealthCheckGracePeriod == 0 {
		cfg.Scaling.HealthCheckGracePeriod = 300
	}
}

// applyEnvOverrides layers the historical environment interface on top of
// the file: AWS_DEFAULT_REGION, VPC_ID and a comma-separated SUBNET_IDS.
func applyEnvOverrides(cfg *Config) {
	if region := os.Getenv("AWS_DEFAULT_REGION"); region != "" {
		cfg.Region = region
	}
	if vpc := os.Getenv("VPC_ID"); vpc != "" {
		cfg.Network.VPCID = vpc
	}
	if raw := os.Getenv("SUBNET_IDS"); raw != "" {
		cfg.Network.SubnetIDs = SplitSubnetIDs(raw)
	}
}

// SplitSubnetIDs parses a comma-separated subnet list, trimming blanks.
func SplitSubnetIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
