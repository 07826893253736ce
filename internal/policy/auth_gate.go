package policy

import (
	"context"
	"net/http"
	"time"

	"github.com/teranga-editions/platform/internal/auth"
	"github.com/teranga-editions/platform/internal/gate"
	"github.com/teranga-editions/platform/internal/httpx"
	"github.com/teranga-editions/platform/internal/models"
	"gorm.io/gorm"
)

// AuthGate is the central authorization checkpoint: role profiles resolved
// through a TTL cache, combined with ownership policies per resource type.
type AuthGate struct {
	Gate          *gate.Gate[uint]
	CacheResolver *gate.CachedResolver[uint]
	db            *gorm.DB
}

// NewAuthGate creates a fully configured authorization gate.
// - db: GORM database connection for role lookups
// - cacheTTL: how long to cache user profiles (e.g., 5*time.Minute)
func NewAuthGate(db *gorm.DB, cacheTTL time.Duration) *AuthGate {
	roleResolver := NewRoleProfileResolver(db)
	cachedResolver := gate.NewCachedResolver[uint](roleResolver, cacheTTL)

	g := gate.NewGate[uint](cachedResolver)

	return &AuthGate{
		Gate:          g,
		CacheResolver: cachedResolver,
		db:            db,
	}
}

// RegisterPolicy adds an ownership policy for a resource type.
func (ag *AuthGate) RegisterPolicy(resourceType string, p gate.Policy[uint]) {
	ag.Gate.Register(resourceType, p)
}

// Authorize checks if the current user can perform an action on a resource.
// Returns nil if authorized, gate.ErrUnauthorized otherwise.
func (ag *AuthGate) Authorize(ctx context.Context, action gate.Action, resourceType string, resource any) error {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return gate.ErrUnauthorized
	}
	return ag.Gate.Authorize(ctx, userID, action, resourceType, resource)
}

// Can is a convenience method that returns bool instead of error.
func (ag *AuthGate) Can(ctx context.Context, action gate.Action, resourceType string, resource any) bool {
	return ag.Authorize(ctx, action, resourceType, resource) == nil
}

// CanProfile checks only profile permissions (no ownership check).
func (ag *AuthGate) CanProfile(ctx context.Context, action gate.Action, resourceType string) bool {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return false
	}
	return ag.Gate.CanProfile(ctx, userID, action, resourceType)
}

// Role returns the caller's role, or "" when unauthenticated/unknown.
func (ag *AuthGate) Role(ctx context.Context) models.Role {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return ""
	}
	var user models.User
	if err := ag.db.WithContext(ctx).Select("id", "role").First(&user, userID).Error; err != nil {
		return ""
	}
	return user.Role
}

// InvalidateUser clears the cache for a specific user.
// Call this when a user's role is changed.
func (ag *AuthGate) InvalidateUser(userID uint) {
	ag.CacheResolver.Invalidate(userID)
}

// RequirePermission returns middleware that checks profile permission.
// Blocks access with 403 JSON if the caller's role lacks resource:action.
func (ag *AuthGate) RequirePermission(resourceType string, action gate.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !ag.CanProfile(r.Context(), action, resourceType) {
				httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole returns middleware that only allows specific roles.
// Role-scoped dashboard routes use this on top of the permission matrix.
func (ag *AuthGate) RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := ag.Role(r.Context())
			if role == "" {
				httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}
			if !allowed[role] {
				httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireManagement returns middleware restricted to PDG and DGA.
func (ag *AuthGate) RequireManagement() func(http.Handler) http.Handler {
	return ag.RequireRole(models.RolePDG, models.RoleDGA)
}
