package policy

import (
	"context"
	"errors"

	"github.com/teranga-editions/platform/internal/gate"
	"github.com/teranga-editions/platform/internal/models"
	"gorm.io/gorm"
)

// roleProfiles is the explicit permission matrix: role × resource:action.
// Order lifecycle rights follow the decided guard table: representatives
// validate and confirm delivery, management drives processing and shipping,
// order owners may cancel (the ownership policy scopes cancel to own orders,
// and the transition table keeps it to non-terminal states).
var roleProfiles = map[models.Role]*gate.StaticProfile{
	models.RolePDG: gate.NewStaticProfile(string(models.RolePDG),
		gate.PermissionSuperAdmin,
	),
	models.RoleDGA: gate.NewStaticProfile(string(models.RoleDGA),
		gate.PermissionSuperAdmin,
	),
	models.RoleRepresentant: gate.NewStaticProfile(string(models.RoleRepresentant),
		"work:list", "work:view",
		"order:list", "order:view", "order:create", "order:validate", "order:deliver",
		"commission:list", "commission:view",
		"notification:list", "notification:update",
		"dashboard:view",
	),
	models.RolePartenaire: gate.NewStaticProfile(string(models.RolePartenaire),
		"work:list", "work:view",
		"order:list", "order:view", "order:create", "order:cancel",
		"notification:list", "notification:update",
		"dashboard:view",
	),
	models.RoleClient: gate.NewStaticProfile(string(models.RoleClient),
		"work:list", "work:view",
		"order:list", "order:view", "order:create", "order:cancel",
		"notification:list", "notification:update",
	),
	models.RoleAuteur: gate.NewStaticProfile(string(models.RoleAuteur),
		"work:list", "work:view",
		"royalty:list", "royalty:view",
		"notification:list", "notification:update",
		"dashboard:view",
	),
	models.RoleConcepteur: gate.NewStaticProfile(string(models.RoleConcepteur),
		"work:list", "work:view", "work:create", "work:update",
		"royalty:list", "royalty:view",
		"notification:list", "notification:update",
		"dashboard:view",
	),
}

// ProfileForRole returns the static profile for a role, nil if unknown.
func ProfileForRole(role models.Role) gate.Profile {
	if p, ok := roleProfiles[role]; ok {
		return p
	}
	return nil
}

// RoleProfileResolver maps a user id to the static profile of their role.
// It implements gate.ProfileResolver for uint user IDs.
type RoleProfileResolver struct {
	DB *gorm.DB
}

// NewRoleProfileResolver creates a database-backed role resolver.
func NewRoleProfileResolver(db *gorm.DB) *RoleProfileResolver {
	return &RoleProfileResolver{DB: db}
}

// Resolve looks up the user's role and returns the matching profile.
// Returns nil for unknown users or roles.
func (r *RoleProfileResolver) Resolve(ctx context.Context, userID uint) (gate.Profile, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Select("id", "role").First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ProfileForRole(user.Role), nil
}
