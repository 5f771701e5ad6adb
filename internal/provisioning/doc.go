// Package provisioning drives the fleet deployment as a fixed sequence
// of phases: infrastructure (load balancer, target group, listener) and
// autoscaling (instance fleet and scaling policy).
//
// Phases run strictly in order; a failed required step aborts the run.
// Results flow forward through State — in particular the final subnet
// set the load balancer ended up on, which later phases must use instead
// of the caller's original input.
package provisioning
