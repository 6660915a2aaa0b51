package access

import "github.com/poing/admin-console/internal/core/domain"

// AppState is the console's top-level state for one request.
type AppState int

const (
	StateInitializing AppState = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s AppState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "initializing"
	}
}

// Resolve maps a loaded session to the route tree it mounts. A token alone
// authenticates; with requireProfile set, a token whose profile is missing
// is treated as unauthenticated instead.
func Resolve(s domain.Session, requireProfile bool) AppState {
	if !s.HasToken() {
		return StateUnauthenticated
	}
	if requireProfile && s.User == nil {
		return StateUnauthenticated
	}
	return StateAuthenticated
}

// PublicPaths is the route tree mounted while unauthenticated.
var PublicPaths = []string{
	PathLoginRoot,
	PathLogin,
	PathForgotPassword,
	PathVerifyOTP,
	PathResetPassword,
	PathResetSuccess,
}

// UnknownPathTarget is where a path matching neither tree leads.
func UnknownPathTarget(state AppState) string {
	if state == StateAuthenticated {
		return PathDashboard
	}
	return PathLoginRoot
}
