package provisioning

import (
	"context"

	"github.com/stressfleet/stressfleet/internal/config"
	"github.com/stressfleet/stressfleet/internal/platform/awscloud"
)

// Context wraps all dependencies and state needed for a provisioning
// phase.
type Context struct {
	context.Context
	Config   *config.Config
	State    *State
	Cloud    awscloud.CloudManager
	Observer Observer
	Timeouts *config.Timeouts
	Report   *Report
}

// NewContext creates a new provisioning context.
func NewContext(ctx context.Context, cfg *config.Config, cloud awscloud.CloudManager) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    NewState(cfg.Network.SubnetIDs),
		Cloud:    cloud,
		Observer: NewConsoleObserver(),
		Timeouts: config.LoadTimeouts(),
		Report:   &Report{},
	}
}
