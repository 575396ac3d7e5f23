package legacy

import (
	"encoding/json"
	"io"

	"maale/internal/models"
)

// User is a record from the legacy users.json credential map. Secrets in
// that file are plain text; migration hashes them on import.
type User struct {
	Password string `json:"password"`
	Role     string `json:"role"`
}

// ReadUsers parses the legacy username -> credential map.
func ReadUsers(r io.Reader) (map[string]User, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	users := make(map[string]User)
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// RoleOf maps a legacy role string to the typed role. Anything that is not
// an administrator is a guest.
func RoleOf(u User) models.Role {
	if u.Role == string(models.RoleAdmin) {
		return models.RoleAdmin
	}
	return models.RoleGuest
}
