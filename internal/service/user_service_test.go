package service

import (
	"context"
	"testing"

	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_SignupAndLogin(t *testing.T) {
	t.Parallel()

	users := newUserRepoStub()
	svc := NewUserService(users)
	ctx := context.Background()

	u, err := svc.Signup(ctx, SignupInput{
		Username: "leo",
		Email:    "Leo@Example.com",
		Password: "anna1877karenina",
	})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "leo@example.com", u.Email)
	assert.NotEqual(t, "anna1877karenina", u.Password, "password is stored hashed")

	_, err = svc.Signup(ctx, SignupInput{Username: "leo", Email: "other@example.com", Password: "anna1877karenina"})
	assertCode(t, err, models.CodeConflict)

	logged, err := svc.Login(ctx, "leo", "anna1877karenina")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	logged, err = svc.Login(ctx, "LEO@example.com", "anna1877karenina")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	_, err = svc.Login(ctx, "leo", "wrong-password1")
	assertCode(t, err, models.CodeUnauthorized)

	_, err = svc.Login(ctx, "ghost", "anna1877karenina")
	assertCode(t, err, models.CodeUnauthorized)
}

func TestUserService_SignupValidation(t *testing.T) {
	t.Parallel()
	svc := NewUserService(newUserRepoStub())
	ctx := context.Background()

	tests := []SignupInput{
		{Username: "", Email: "a@example.com", Password: "anna1877karenina"},
		{Username: "le", Email: "a@example.com", Password: "anna1877karenina"},
		{Username: "leo", Email: "not-an-email", Password: "anna1877karenina"},
		{Username: "leo", Email: "a@example.com", Password: "short1"},
		{Username: "leo", Email: "a@example.com", Password: "lettersonly"},
	}
	for _, in := range tests {
		_, err := svc.Signup(ctx, in)
		assertValidationError(t, err)
	}
}

func TestUserService_Admin(t *testing.T) {
	t.Parallel()
	users := newUserRepoStub(&models.User{ID: 1, Username: "leo"})
	svc := NewUserService(users)
	ctx := context.Background()

	admin, err := svc.IsAdmin(ctx, 1)
	require.NoError(t, err)
	assert.False(t, admin)

	require.NoError(t, svc.SetAdmin(ctx, "leo", true))
	admin, err = svc.IsAdmin(ctx, 1)
	require.NoError(t, err)
	assert.True(t, admin)

	admin, err = svc.IsAdmin(ctx, 42)
	require.NoError(t, err)
	assert.False(t, admin)

	assertCode(t, svc.SetAdmin(ctx, "ghost", true), models.CodeNotFound)
}
