package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/goshop/internal/apperr"
)

func TestStrongPassword(t *testing.T) {
	tests := []struct {
		pw   string
		want bool
	}{
		{"abc12345", true},
		{"Passw0rdLong", true},
		{"short1", false},
		{"onlyletters", false},
		{"1234567890", false},
		{"", false},
		{"äöü1äö", false},
		{"äöü1äöüß", true},
	}
	for _, tt := range tests {
		t.Run(tt.pw, func(t *testing.T) {
			assert.Equal(t, tt.want, StrongPassword(tt.pw))
		})
	}
}

func TestEmail(t *testing.T) {
	assert.NoError(t, Email("jane@example.com"))
	for _, bad := range []string{"", "jane", "jane@", "@example.com", "jane example.com"} {
		err := Email(bad)
		require.Error(t, err, bad)
		assert.True(t, apperr.IsKind(err, apperr.InvalidInput))
	}
}

func TestStruct(t *testing.T) {
	type signup struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,password"`
		FullName string `validate:"required"`
	}

	assert.NoError(t, Struct(signup{Email: "a@b.io", Password: "secret123", FullName: "A"}))

	err := Struct(signup{Email: "nope", Password: "secret", FullName: ""})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.InvalidInput))
	assert.Contains(t, err.Error(), "email is not a valid email address")
	assert.Contains(t, err.Error(), "password must be at least 8 characters")
	assert.Contains(t, err.Error(), "fullname value missing")
}
