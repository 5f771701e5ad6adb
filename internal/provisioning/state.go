package provisioning

// State holds the shared results of provisioning phases. It is
// progressively populated as each phase completes and is passed to
// subsequent phases that need earlier results.
type State struct {
	// Infrastructure results
	LoadBalancerARN string
	LoadBalancerDNS string
	TargetGroupARN  string
	ListenerARN     string

	// FinalSubnets is the subnet set the load balancer was actually
	// created on. It starts as the caller-supplied set and may be
	// extended or substituted by the repair loop; autoscaling placement
	// must use this, never the original input.
	FinalSubnets []string

	// Autoscaling results
	GroupExisted     bool
	ScalingPolicyARN string
}

// NewState creates a provisioning state seeded with the caller's subnet
// set.
func NewState(subnetIDs []string) *State {
	final := make([]string, len(subnetIDs))
	copy(final, subnetIDs)
	return &State{FinalSubnets: final}
}
