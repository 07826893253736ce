package policy

import (
	"context"

	"github.com/teranga-editions/platform/internal/gate"
)

// Ownable is an interface for resources that have an owner.
// Implement this on models to enable ownership-based authorization.
type Ownable interface {
	GetUserID() uint
}

// OwnershipPolicy is a generic policy that checks if the user owns the resource.
// Works with any model that implements the Ownable interface.
type OwnershipPolicy struct{}

// NewOwnershipPolicy creates a new ownership policy.
func NewOwnershipPolicy() *OwnershipPolicy {
	return &OwnershipPolicy{}
}

// Can checks if the user owns the resource.
// For list/create actions (resource is nil), it always returns true
// since profile permissions already control access.
func (p *OwnershipPolicy) Can(_ context.Context, userID uint, _ gate.Action, resource any) bool {
	if resource == nil {
		return true
	}
	ownable, ok := resource.(Ownable)
	if !ok {
		// Deny resources without ownership information rather than leak them.
		return false
	}
	return ownable.GetUserID() == userID
}
