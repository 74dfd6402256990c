package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_Register(t *testing.T) {
	f := newFixture()

	t.Run("successful registration returns a token and normalizes the email", func(t *testing.T) {
		result, err := f.userService.Register(context.Background(), RegisterInput{
			FirstName: "  Alice ",
			LastName:  "Anderson",
			Email:     " Alice@Example.COM ",
			Password:  "secret123",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, result.Token)
		assert.Equal(t, "Alice", result.User.FirstName)
		assert.Equal(t, "alice@example.com", result.User.Email)

		stored := f.users.users[result.User.ID]
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")))
		assert.True(t, stored.IsActive)
	})

	t.Run("duplicate email conflicts regardless of case", func(t *testing.T) {
		_, err := f.userService.Register(context.Background(), RegisterInput{
			FirstName: "Alicia",
			LastName:  "Clone",
			Email:     "ALICE@example.com",
			Password:  "another1",
		})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("short password rejected", func(t *testing.T) {
		_, err := f.userService.Register(context.Background(), RegisterInput{
			FirstName: "Bob",
			LastName:  "Brown",
			Email:     "bob@example.com",
			Password:  "12345",
		})
		assert.True(t, IsValidation(err))
	})

	t.Run("malformed email rejected", func(t *testing.T) {
		_, err := f.userService.Register(context.Background(), RegisterInput{
			FirstName: "Bob",
			LastName:  "Brown",
			Email:     "not-an-email",
			Password:  "secret123",
		})
		assert.True(t, IsValidation(err))
	})

	t.Run("missing names rejected", func(t *testing.T) {
		_, err := f.userService.Register(context.Background(), RegisterInput{
			Email:    "bob@example.com",
			Password: "secret123",
		})
		assert.True(t, IsValidation(err))
	})
}

func TestUserService_Login(t *testing.T) {
	f := newFixture()
	_, err := f.userService.Register(context.Background(), RegisterInput{
		FirstName: "Alice",
		LastName:  "Anderson",
		Email:     "alice@example.com",
		Password:  "secret123",
	})
	require.NoError(t, err)

	t.Run("valid credentials issue a token and record the login", func(t *testing.T) {
		result, err := f.userService.Login(context.Background(), "Alice@Example.com", "secret123")
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)

		stored := f.users.users[result.User.ID]
		require.NotNil(t, stored.LastLogin)
	})

	t.Run("wrong password yields invalid credentials", func(t *testing.T) {
		_, err := f.userService.Login(context.Background(), "alice@example.com", "wrong-pass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email yields the same invalid credentials", func(t *testing.T) {
		_, err := f.userService.Login(context.Background(), "ghost@example.com", "secret123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("deactivated account is denied", func(t *testing.T) {
		user, err := f.users.FindByEmail(context.Background(), "alice@example.com")
		require.NoError(t, err)
		stored := f.users.users[user.ID]
		stored.IsActive = false
		f.users.users[user.ID] = stored

		_, err = f.userService.Login(context.Background(), "alice@example.com", "secret123")
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestUserService_Profile(t *testing.T) {
	f := newFixture()
	alice := f.seedUser("Alice", "alice@example.com")

	t.Run("returns the user without the password hash", func(t *testing.T) {
		user, err := f.userService.Profile(context.Background(), alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", user.FirstName)
		assert.Empty(t, user.Password)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := f.userService.Profile(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
