// Package access holds the console's client-side access rules: which sidebar
// entries a role sees, whether a guarded route renders or redirects, and
// which route tree a session mounts.
//
// None of this is a security boundary. The backend enforces authorisation on
// every call; these rules only shape what the console offers.
package access

import (
	"slices"

	"github.com/poing/admin-console/internal/core/domain"
)

// Route paths of the console.
const (
	PathLoginRoot       = "/"
	PathLogin           = "/login"
	PathForgotPassword  = "/forgot-password"
	PathVerifyOTP       = "/verify-otp"
	PathResetPassword   = "/reset-password"
	PathResetSuccess    = "/password-reset-success"
	PathDashboard       = "/dashboard"
	PathUserManagement  = "/user-management"
	PathReports         = "/reports-complaints"
	PathCustomerService = "/customer-service"
	PathConfiguration   = "/poing-configuration"
	PathTerms           = "/terms-conditions"
	PathPrivacy         = "/privacy-policy"
	PathLogout          = "/logout"
)

// Entry is one sidebar navigation item.
type Entry struct {
	Label        string        `json:"label"`
	Path         string        `json:"path"`
	Icon         string        `json:"icon"`
	AllowedRoles []domain.Role `json:"allowed_roles"`
}

var (
	allRoles   = []domain.Role{domain.RoleAdmin, domain.RoleUser, domain.RoleReportManager}
	staffRoles = []domain.Role{domain.RoleAdmin, domain.RoleUser}
)

// Navigation is the sidebar in display order.
var Navigation = []Entry{
	{Label: "Dashboard", Path: PathDashboard, Icon: "layout-dashboard", AllowedRoles: allRoles},
	{Label: "User Management", Path: PathUserManagement, Icon: "users", AllowedRoles: staffRoles},
	{Label: "Reports & Complaints", Path: PathReports, Icon: "file-text", AllowedRoles: allRoles},
	{Label: "Customer Service", Path: PathCustomerService, Icon: "headphones", AllowedRoles: staffRoles},
	{Label: "Poing Configuration", Path: PathConfiguration, Icon: "settings", AllowedRoles: staffRoles},
	{Label: "Terms & Conditions", Path: PathTerms, Icon: "shield", AllowedRoles: allRoles},
	{Label: "Privacy Policy", Path: PathPrivacy, Icon: "lock", AllowedRoles: allRoles},
}

// FilterNavigation returns the entries visible to role, preserving order.
//
// An empty role means the session carried no role information; every entry
// is returned in that case. A present but unrecognised role is matched like
// any other, so it usually sees nothing.
func FilterNavigation(entries []Entry, role domain.Role) []Entry {
	if role == "" {
		return slices.Clone(entries)
	}
	visible := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if slices.Contains(e.AllowedRoles, role) {
			visible = append(visible, e)
		}
	}
	return visible
}
