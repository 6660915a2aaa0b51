package access

import (
	"slices"

	"github.com/poing/admin-console/internal/core/domain"
)

// Decision is the outcome of a route guard check.
type Decision struct {
	Allow    bool
	Redirect string
}

// Guard decides whether the current role may view a route that requires one
// of required. An empty required set admits any authenticated session. A
// missing role never matches a non-empty set.
func Guard(required []domain.Role, current domain.Role, fallback string) Decision {
	if len(required) == 0 {
		return Decision{Allow: true}
	}
	if current != "" && slices.Contains(required, current) {
		return Decision{Allow: true}
	}
	return Decision{Redirect: fallback}
}

// Route requirements of the protected tree. A nil slice means unrestricted.
var (
	DashboardRoles       []domain.Role
	UserManagementRoles  = []domain.Role{domain.RoleAdmin, domain.RoleUser}
	ReportsRoles         []domain.Role
	CustomerServiceRoles = []domain.Role{domain.RoleAdmin, domain.RoleUser}
	ConfigurationRoles   = []domain.Role{domain.RoleAdmin, domain.RoleUser}
	LegalRoles           []domain.Role
)
