// Package gate provides a Gate/Policy authorization checkpoint.
// Profile permissions answer "may this role do this at all"; registered
// policies answer "may this user touch this particular row". The package has
// no dependency on domain models and resolves users through a ProfileResolver.
package gate

import "context"

// Gate combines profile-based permissions with resource-specific policies.
// Authorization flow:
//  1. Check if user is valid (non-zero)
//  2. Check if user's profile has the required permission (resource:action)
//  3. If a resource policy exists and resource is provided, check ownership
type Gate[U comparable] struct {
	resolver ProfileResolver[U]
	policies map[string]Policy[U]
}

// NewGate creates a gate with the given profile resolver.
func NewGate[U comparable](resolver ProfileResolver[U]) *Gate[U] {
	return &Gate[U]{
		resolver: resolver,
		policies: make(map[string]Policy[U]),
	}
}

// Register adds a resource-specific policy for ownership checks.
func (g *Gate[U]) Register(resourceType string, p Policy[U]) {
	g.policies[resourceType] = p
}

// Authorize checks profile permission and, when a resource is provided,
// the registered resource policy. Returns ErrUnauthorized on any denial.
func (g *Gate[U]) Authorize(ctx context.Context, user U, action Action, resourceType string, resource any) error {
	var zero U
	if user == zero {
		return ErrUnauthorized
	}

	profile, err := g.resolver.Resolve(ctx, user)
	if err != nil || profile == nil {
		return ErrUnauthorized
	}

	perm := NewPermission(resourceType, action)
	if !profile.HasPermission(perm) {
		return ErrUnauthorized
	}

	if resource != nil {
		if policy, ok := g.policies[resourceType]; ok {
			if !policy.Can(ctx, user, action, resource) {
				return ErrUnauthorized
			}
		}
	}

	return nil
}

// Can is a convenience wrapper returning bool instead of error.
func (g *Gate[U]) Can(ctx context.Context, user U, action Action, resourceType string, resource any) bool {
	return g.Authorize(ctx, user, action, resourceType, resource) == nil
}

// CanProfile checks only the profile permission, without ownership check.
// Useful to gate a route before any specific resource is loaded.
func (g *Gate[U]) CanProfile(ctx context.Context, user U, action Action, resourceType string) bool {
	var zero U
	if user == zero {
		return false
	}
	profile, err := g.resolver.Resolve(ctx, user)
	if err != nil || profile == nil {
		return false
	}
	return profile.HasPermission(NewPermission(resourceType, action))
}
