package auth

import "github.com/carlot/inventory-api/internal/core/domain"

// Tier is the minimum access level an operation requires.
type Tier int

const (
	// TierAuthenticated admits any resolved identity.
	TierAuthenticated Tier = iota + 1
	// TierManager admits managers and admins.
	TierManager
	// TierAdmin admits admins only.
	TierAdmin
)

func (t Tier) String() string {
	switch t {
	case TierAuthenticated:
		return "authenticated"
	case TierManager:
		return "manager_or_admin"
	case TierAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// DeniedMessage is the forbidden detail returned when a role misses t.
func (t Tier) DeniedMessage() string {
	switch t {
	case TierAdmin:
		return "Admin access required"
	case TierManager:
		return "Manager or Admin access required"
	default:
		return "Not enough permissions"
	}
}

// level orders roles so that a higher level satisfies every lower tier.
// Unknown roles, including the empty role of an anonymous caller, are 0.
func level(r domain.Role) int {
	switch r {
	case domain.RoleAdmin:
		return 3
	case domain.RoleManager:
		return 2
	case domain.RoleBuyer:
		return 1
	default:
		return 0
	}
}

// Allows reports whether role satisfies tier.
func Allows(role domain.Role, tier Tier) bool {
	l := level(role)
	return l > 0 && l >= int(tier)
}
