package awscloud

import (
	"context"
	"fmt"
)

// EnsureOperation encapsulates create-or-fetch logic for a named AWS
// resource. Creation is attempted first; when the provider signals a
// duplicate name the existing resource is looked up and returned instead
// of failing. Any other provider error propagates.
//
// Usage example:
//
//	arn, err := (&EnsureOperation[string]{
//	    Name:         name,
//	    ResourceType: "target group",
//	    Create:       func(ctx context.Context) (string, error) { ... },
//	    Lookup:       func(ctx context.Context) (string, error) { ... },
//	}).Execute(ctx)
type EnsureOperation[T any] struct {
	Name         string
	ResourceType string

	// Create attempts to create the resource.
	Create func(ctx context.Context) (T, error)

	// Lookup fetches the pre-existing resource after a duplicate-name
	// rejection.
	Lookup func(ctx context.Context) (T, error)
}

// Execute performs the ensure operation. The second attempt with the same
// name resolves to the same logical resource, so callers never observe an
// already-exists error.
func (op *EnsureOperation[T]) Execute(ctx context.Context) (T, error) {
	var zero T

	resource, err := op.Create(ctx)
	if err == nil {
		return resource, nil
	}

	if !IsAlreadyExists(err) {
		return zero, fmt.Errorf("failed to create %s %q: %w", op.ResourceType, op.Name, err)
	}

	resource, err = op.Lookup(ctx)
	if err != nil {
		return zero, fmt.Errorf("%s %q already exists but lookup failed: %w", op.ResourceType, op.Name, err)
	}
	return resource, nil
}
