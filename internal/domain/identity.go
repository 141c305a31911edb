package domain

// Identity is the ambient user identity a session record is tagged with.
// Defaults apply when no identity is present.
type Identity struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

const (
	GuestUsername = "Guest"
	GuestRole     = "Anonymous"
	RoleAdmin     = "Admin"
)

// GuestIdentity is used whenever no identity cookie is present.
func GuestIdentity() Identity {
	return Identity{Username: GuestUsername, Role: GuestRole}
}
