package models

type Role string

const (
	RoleAdmin Role = "admin"
	RoleGuest Role = "guest"
)

// Credential stores a username together with a bcrypt hash of its secret.
// Secrets are never persisted in plain text.
type Credential struct {
	Username   string `json:"username"`
	SecretHash string `json:"-"`
	Role       Role   `json:"role"`
}

// Actor identifies who performs an operation. A zero Actor is a guest.
type Actor struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Guest is the actor used for unauthenticated requests.
var Guest = Actor{Username: "guest", Role: RoleGuest}
