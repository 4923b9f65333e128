package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"

	"bannercraft/internal/domain"
	"bannercraft/internal/infra"
)

// TokenSigner issues a bearer token for a user id.
type TokenSigner interface {
	Sign(userID string) (string, error)
}

// SignupInput carries the signup form.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResult is returned by Signup and Login.
type AuthResult struct {
	Token string
	User  *domain.User
}

// AuthService handles registration and login.
type AuthService struct {
	users  domain.UserRepository
	tokens TokenSigner
	logger infra.Logger
	cost   int
}

func NewAuthService(users domain.UserRepository, tokens TokenSigner, logger infra.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, logger: logger, cost: bcrypt.DefaultCost}
}

// NormalizeEmail trims and case-folds an address so lookups ignore case.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

// Signup creates the account and returns a token for it.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	switch {
	case email == "" || !strings.Contains(email, "@"):
		return nil, domain.NewValidationError("email", "a valid email is required")
	case in.Password == "":
		return nil, domain.NewValidationError("password", "password is required")
	case len(in.Password) > 72:
		return nil, domain.NewValidationError("password", "password must be at most 72 bytes")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	profile := make(map[string]string, len(domain.ProfileFields))
	for _, f := range domain.ProfileFields {
		profile[f] = ""
	}
	user, err := s.users.Create(ctx, &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Profile:      profile,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Sign(user.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", user.ID).Msg("user signed up")
	return &AuthResult{Token: token, User: user}, nil
}

// Login verifies credentials. Unknown emails and wrong passwords both yield
// domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	token, err := s.tokens.Sign(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}
