package legacy

import (
	"strings"
	"testing"

	"maale/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadUsers(t *testing.T) {
	data := `{"admin1": {"password": "1234", "role": "admin"}, "dana": {"password": "pw", "role": "guest"}}`

	users, err := ReadUsers(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "1234", users["admin1"].Password)
	assert.Equal(t, models.RoleAdmin, RoleOf(users["admin1"]))
	assert.Equal(t, models.RoleGuest, RoleOf(users["dana"]))
}

func TestReadUsers_Invalid(t *testing.T) {
	_, err := ReadUsers(strings.NewReader("not json"))
	assert.Error(t, err)
}

func TestRoleOf_UnknownIsGuest(t *testing.T) {
	assert.Equal(t, models.RoleGuest, RoleOf(User{Role: "superuser"}))
	assert.Equal(t, models.RoleGuest, RoleOf(User{}))
}
