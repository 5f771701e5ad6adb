// Package awscloud wraps the AWS APIs the deployer depends on: EC2 for
// address-space inventory and subnets, Elastic Load Balancing v2 for the
// load balancer, target group and listener, and Auto Scaling for the
// instance fleet.
//
// The package exposes narrow per-service interfaces over the SDK clients
// so tests can substitute fakes, and classifies provider errors into the
// small taxonomy the provisioning layer acts on: not-found,
// already-exists, and insufficient address space.
package awscloud
