// Package netalloc computes free address ranges inside a virtual network.
//
// All functions are pure: they operate on an Inventory snapshot read from
// the cloud provider and never mutate provider state. Creating a subnet
// from a returned candidate is a separate, explicit step owned by the
// caller.
package netalloc
