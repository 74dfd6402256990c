package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dipxssi/synergysphere/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// UserService owns registration, login and profile lookups. Token issuance is
// delegated to the JWTService; passwords never leave this package unhashed.
type UserService struct {
	users UserStore
	jwt   *JWTService
}

func NewUserService(users UserStore, jwt *JWTService) *UserService {
	return &UserService{users: users, jwt: jwt}
}

type RegisterInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// AuthResult is what register and login hand back to the boundary layer.
type AuthResult struct {
	Token string             `json:"token"`
	User  models.UserSummary `json:"user"`
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, fmt.Errorf("user with this email already exists: %w", ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:          primitive.NewObjectID(),
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		Password:    string(hashed),
		IsActive:    true,
		Preferences: models.DefaultNotificationPreferences(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	token, err := s.jwt.GenerateAuthToken(user.ID.Hex(), user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{Token: token, User: user.Summary()}, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, fmt.Errorf("account is deactivated: %w", ErrAccessDenied)
	}

	if err := s.users.SetLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	token, err := s.jwt.GenerateAuthToken(user.ID.Hex(), user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{Token: token, User: user.Summary()}, nil
}

// Profile returns the full user document for the authenticated user, with
// the password hash stripped.
func (s *UserService) Profile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("user not found: %w", ErrNotFound)
		}
		return nil, err
	}
	user.Password = ""
	return user, nil
}
