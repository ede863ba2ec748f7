package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hawtsauce/gatherly-api/internal/domain"
)

func TestSignup(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users)

	created, err := svc.Signup(context.Background(), domain.User{
		Email:    "alice@example.com",
		Password: "password1",
		Name:     "Alice",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.RoleAttendee, created.Role)

	// The password is stored hashed, never verbatim.
	stored, err := users.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "password1", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("password1")))

	_, err = svc.Signup(context.Background(), domain.User{
		Email:    "alice@example.com",
		Password: "password2",
		Name:     "Another Alice",
	})
	assert.ErrorIs(t, err, ErrUserEmailExists)
}

func TestSignup_KeepsExplicitRole(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users)

	created, err := svc.Signup(context.Background(), domain.User{
		Email:    "bob@example.com",
		Password: "password1",
		Name:     "Bob",
		Role:     domain.RoleOrganizer,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOrganizer, created.Role)
}

func TestLogin(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users)

	_, err := svc.Signup(context.Background(), domain.User{
		Email:    "alice@example.com",
		Password: "password1",
		Name:     "Alice",
	})
	require.NoError(t, err)

	user, err := svc.Login(context.Background(), "alice@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)

	_, err = svc.Login(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = svc.Login(context.Background(), "nobody@example.com", "password1")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUser(t *testing.T) {
	users := newFakeUserRepo()
	authSvc := NewAuthService(users)
	svc := NewUserService(users)

	created, err := authSvc.Signup(context.Background(), domain.User{
		Email:    "alice@example.com",
		Password: "password1",
		Name:     "Alice",
	})
	require.NoError(t, err)

	found, err := svc.GetUser(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, found.Email)

	_, err = svc.GetUser(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
