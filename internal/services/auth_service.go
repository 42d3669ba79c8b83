package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"blog/internal/apperrors"
	"blog/internal/auth"
	"blog/internal/models"
	"blog/internal/repositories"
)

var (
	// ErrInvalidCredentials is returned by Login for an unknown email or a wrong password.
	ErrInvalidCredentials = apperrors.New(apperrors.KindUnauthenticated, "Incorrect email or password")
	// ErrPrincipalNotFound is returned when a token subject has no matching account.
	ErrPrincipalNotFound = errors.New("principal not found")
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Bio      string
}

// AuthService handles registration, login and request authentication.
type AuthService struct {
	users  repositories.UserRepository
	hasher *auth.PasswordHasher
	tokens *auth.TokenService
	now    func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repositories.UserRepository, hasher *auth.PasswordHasher, tokens *auth.TokenService) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		now:    time.Now,
	}
}

// WithClock replaces the clock used for issuing and validating tokens.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// TokenTTL is the lifetime of issued tokens.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

// Register creates an account. Email is checked before username.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperrors.Conflict("Email already registered")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if _, err := s.users.GetByUsername(ctx, in.Username); err == nil {
		return nil, apperrors.Conflict("Username already taken")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperrors.Validation("password must be at most 72 bytes")
		}
		return nil, err
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Bio:          in.Bio,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.Wrap(apperrors.KindConflict, "Username or email already registered", err)
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// Login verifies the credentials and returns a session token whose subject is the email.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to load user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		log.Printf("Stored password hash for user %s is unusable: %v", user.ID, err)
		return "", ErrInvalidCredentials
	}
	if !ok {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email, s.now())
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// Resolve maps a token subject to the account it names.
func (s *AuthService) Resolve(ctx context.Context, subject string) (models.Principal, error) {
	user, err := s.users.GetByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Principal{}, fmt.Errorf("%w: %s", ErrPrincipalNotFound, subject)
		}
		return models.Principal{}, fmt.Errorf("failed to resolve principal: %w", err)
	}
	return models.PrincipalFromUser(user), nil
}

// Authenticate validates token and resolves its principal. Token and lookup
// failures all yield the same Unauthenticated error.
func (s *AuthService) Authenticate(ctx context.Context, token string) (models.Principal, error) {
	subject, err := s.tokens.Validate(token, s.now())
	if err != nil {
		return models.Principal{}, apperrors.Unauthenticated(err)
	}
	principal, err := s.Resolve(ctx, subject)
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			return models.Principal{}, apperrors.Unauthenticated(err)
		}
		return models.Principal{}, err
	}
	return principal, nil
}
