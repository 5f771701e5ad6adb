package naming

import "fmt"

// Naming functions for fleet resources.
// All AWS resources follow consistent naming patterns so that repeated
// deploys resolve to the same logical resources and cleanup is easy.

func LoadBalancer(project string) string {
	return fmt.Sprintf("%s-nlb", project)
}

func TargetGroup(project string) string {
	return fmt.Sprintf("%s-tg", project)
}

func AutoScalingGroup(project string) string {
	return fmt.Sprintf("%s-asg", project)
}

func ScalingPolicy(group string) string {
	return fmt.Sprintf("%s-target-tracking", group)
}

// Subnet names carry a creation timestamp because subnets are created on
// demand during load balancer repair and several may accumulate over time.
func Subnet(project string, unix int64) string {
	return fmt.Sprintf("%s-subnet-%d", project, unix)
}
