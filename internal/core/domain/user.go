package domain

// Role is the staff role carried in the session's user profile.
// The empty Role means the profile carried no role information.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleUser          Role = "user"
	RoleReportManager Role = "report_manager"
)

// User is the staff profile stored next to the auth token.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Session is the (token, user) pair persisted per browser. A nil User with a
// non-empty Token happens when the stored profile could not be decoded.
type Session struct {
	Token string
	User  *User
}

// HasToken reports whether a credential is present.
func (s Session) HasToken() bool {
	return s.Token != ""
}

// Role returns the session's role, or the empty Role when the profile is absent.
func (s Session) Role() Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}
