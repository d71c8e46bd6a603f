package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobly/internal/errcode"
	"jobly/internal/sqlbuild"
)

type stubHasher struct{}

func (stubHasher) HashPassword(password string) (string, error) { return "hashed:" + password, nil }
func (stubHasher) CheckPasswordHash(password, hash string) bool { return hash == "hashed:"+password }

func TestUserUpdatePatch(t *testing.T) {
	users := NewUsers(nil, stubHasher{})

	p, err := users.patch(UserUpdate{
		FirstName: Some("New"),
		Email:     Some("new@email.com"),
		Password:  Some("secret"),
	})
	require.NoError(t, err)

	upd, err := sqlbuild.PartialUpdate(p, userFieldColumns)
	require.NoError(t, err)
	assert.Equal(t, `"first_name"=$1, "email"=$2, "password"=$3`, upd.SetClause)
	assert.Equal(t, []any{"New", "new@email.com", "hashed:secret"}, upd.Values)
}

func TestUserUpdatePatch_Rejects(t *testing.T) {
	users := NewUsers(nil, stubHasher{})

	for name, u := range map[string]UserUpdate{
		"malformed email": {Email: Some("not-an-email")},
		"null email":      {Email: Null[string]()},
		"empty last name": {LastName: Some("")},
		"short password":  {Password: Some("abc")},
		"null password":   {Password: Null[string]()},
	} {
		_, err := users.patch(u)
		assert.Equal(t, errcode.KindBadRequest, errcode.KindOf(err), name)
	}
}
