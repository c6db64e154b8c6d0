package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/goshop/internal/apperr"
	"github.com/example/goshop/internal/datamodels/address"
	"github.com/example/goshop/internal/datamodels/user"
)

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	u, err := env.users.CreateUser(ctx, NewUser{FullName: "Jane", Email: "jane@example.com", Password: "passw0rd1"})
	require.NoError(t, err)
	assert.Equal(t, user.RoleUser, u.Role)
	assert.NotEqual(t, "passw0rd1", u.Password)

	_, err = env.users.CreateUser(ctx, NewUser{FullName: "Jane 2", Email: "jane@example.com", Password: "passw0rd1"})
	assert.True(t, apperr.IsKind(err, apperr.Conflict))

	for _, in := range []NewUser{
		{FullName: "A", Email: "not-an-email", Password: "passw0rd1"},
		{FullName: "A", Email: "a@example.com", Password: "short1"},
		{FullName: "A", Email: "a@example.com", Password: "lettersonly"},
		{FullName: "", Email: "a@example.com", Password: "passw0rd1"},
		{FullName: "A", Email: "a@example.com", Password: "passw0rd1", Role: "root"},
	} {
		_, err := env.users.CreateUser(ctx, in)
		assert.True(t, apperr.IsKind(err, apperr.InvalidInput), "input %+v: %v", in, err)
	}

	_, err = env.users.GetUser(ctx, "missing")
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestAuthenticateUser(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	u, _ := env.customer(t, "jane@example.com")

	token, got, err := env.users.AuthenticateUser(ctx, "jane@example.com", "passw0rd1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, u.ID, got.ID)

	_, _, err = env.users.AuthenticateUser(ctx, "jane@example.com", "wrong")
	assert.True(t, apperr.IsKind(err, apperr.Unauthorized))

	_, _, err = env.users.AuthenticateUser(ctx, "nobody@example.com", "passw0rd1")
	assert.True(t, apperr.IsKind(err, apperr.Unauthorized))
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	u, _ := env.customer(t, "jane@example.com")
	env.customer(t, "john@example.com")

	name := "Jane Smith"
	got, err := env.users.UpdateUser(ctx, u.ID, user.Update{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", got.FullName)
	assert.Equal(t, "jane@example.com", got.Email)

	taken := "john@example.com"
	_, err = env.users.UpdateUser(ctx, u.ID, user.Update{Email: &taken})
	assert.True(t, apperr.IsKind(err, apperr.Conflict))

	bad := "nope"
	_, err = env.users.UpdateUser(ctx, u.ID, user.Update{Email: &bad})
	assert.True(t, apperr.IsKind(err, apperr.InvalidInput))

	pw := "newpassw0rd"
	_, err = env.users.UpdateUser(ctx, u.ID, user.Update{Password: &pw})
	require.NoError(t, err)
	_, _, err = env.users.AuthenticateUser(ctx, "jane@example.com", pw)
	require.NoError(t, err)

	deleted, err := env.users.DeleteUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, deleted.ID)
	_, err = env.users.DeleteUser(ctx, u.ID)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestAddresses(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	u, a := env.customer(t, "jane@example.com")
	other, _ := env.customer(t, "john@example.com")

	list, err := env.users.GetUserAddresses(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = env.users.CreateAddress(ctx, u.ID, NewAddress{Address: "x"})
	assert.True(t, apperr.IsKind(err, apperr.InvalidInput))

	city := "Shelbyville"
	_, err = env.users.UpdateAddress(ctx, a.ID, other.ID, address.Update{City: &city})
	assert.True(t, apperr.IsKind(err, apperr.NotFound))

	got, err := env.users.UpdateAddress(ctx, a.ID, u.ID, address.Update{City: &city})
	require.NoError(t, err)
	assert.Equal(t, "Shelbyville", got.City)
	assert.Equal(t, "1 Main St", got.Address)

	_, err = env.users.DeleteAddress(ctx, a.ID, other.ID)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))

	_, err = env.users.DeleteAddress(ctx, a.ID, u.ID)
	require.NoError(t, err)

	list, err = env.users.GetUserAddresses(ctx, u.ID)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
