// Package service contains the business logic layer of the application.
//
// The layering follows the usual shape:
//
//	Handler (HTTP)   → parses requests, writes responses
//	Service (rules)  → validates input, enforces ownership, orchestrates
//	Repository (DB)  → reads/writes records
//
// Services accept primitives and context, never *http.Request, and return
// domain errors from internal/apperror, never HTTP status codes. The
// handler layer does the translation in one place.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arefin/blog-api/internal/apperror"
	"github.com/arefin/blog-api/internal/auth"
	"github.com/arefin/blog-api/internal/model"
	"github.com/arefin/blog-api/internal/repository"
)

// Validation constants for registration input.
const (
	MinPasswordLength = 6
	MaxNameLength     = 100
	MaxEmailLength    = 254
)

// AuthService handles registration, login, and token validation.
//
// Dependencies (injected via NewAuthService):
//   - users     repository.UserRepository → read/write user records
//   - tokens    *auth.TokenService        → issue/verify JWTs
//   - passwords *auth.PasswordService     → bcrypt hashing
//   - logger    *slog.Logger              → structured logging
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user record and the issued session token so the
// handler can respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a new account and issues a session token.
//
// All field-level problems are collected into one apperror.Errors bundle
// so the client sees everything wrong with the request at once. A
// duplicate email surfaces from the repository as apperror.ErrConflict and
// creates no record.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	var verr apperror.Errors
	if name == "" {
		verr.Add("name", "name is required")
	}
	if len(name) > MaxNameLength {
		verr.Add("name", fmt.Sprintf("name must be %d characters or less", MaxNameLength))
	}
	validateEmail(&verr, email)
	if len(password) < MinPasswordLength {
		verr.Add("password", fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		// Hash only fails on >72-byte input, which is the caller's input
		// problem, not an internal fault.
		return nil, apperror.ValidationFailed("password", "password must be 72 characters or fewer")
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies an email/password pair and issues a session token.
//
// An unknown email and a wrong password both return the same
// apperror.BadCredentials — the response must not reveal which emails
// have accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)

	var verr apperror.Errors
	validateEmail(&verr, email)
	if password == "" {
		verr.Add("password", "password is required")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.BadCredentials()
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		s.logger.Info("failed login attempt", slog.String("email", email))
		return nil, apperror.BadCredentials()
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return &AuthResult{User: user, Token: token}, nil
}

// GetUserByID returns the user for the given internal ID. Used by the
// GET /api/auth handler after the middleware validates the token.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("service/auth: user ID must not be empty")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", id, err)
	}

	return user, nil
}

// LoginOrRegisterGitHub handles the GitHub OAuth callback: upsert the
// account keyed by email and issue a session token.
//
// First-time OAuth users get a random unusable password hash, so the
// account cannot be entered through the password login path.
func (s *AuthService) LoginOrRegisterGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*AuthResult, error) {
	if ghUser == nil {
		return nil, fmt.Errorf("service/auth: GitHub user must not be nil")
	}
	if ghUser.Email == "" {
		return nil, apperror.ValidationFailed("email",
			"your GitHub account has no public email; add one or register with a password")
	}

	name := strings.TrimSpace(ghUser.Name)
	if name == "" {
		name = ghUser.Login
	}

	hash, err := s.passwords.RandomHash()
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating placeholder hash: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        normalizeEmail(ghUser.Email),
		PasswordHash: hash,
	}

	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: upserting user (githubID=%d): %w", ghUser.ID, err)
	}

	s.logger.Info("user authenticated via GitHub",
		slog.String("userID", user.ID),
		slog.String("login", ghUser.Login),
	)

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// ValidateToken validates a JWT string and returns the userID it encodes.
// Thin delegation so callers only need the service package.
func (s *AuthService) ValidateToken(tokenStr string) (string, error) {
	userID, err := s.tokens.Validate(tokenStr)
	if err != nil {
		return "", fmt.Errorf("service/auth: %w", err)
	}
	return userID, nil
}

// normalizeEmail lowercases and trims an email address so lookups and the
// UNIQUE constraint treat "Alice@Example.com" and "alice@example.com" as
// the same account.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateEmail appends failures for a missing or malformed address.
// The shape check is intentionally loose — one "@" with something on both
// sides and a dot in the domain. Real validation happens when the address
// is used; this only catches obvious garbage.
func validateEmail(verr *apperror.Errors, email string) {
	if email == "" {
		verr.Add("email", "email is required")
		return
	}
	if len(email) > MaxEmailLength {
		verr.Add("email", fmt.Sprintf("email must be %d characters or less", MaxEmailLength))
		return
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || !strings.Contains(email[at+1:], ".") || strings.Contains(email, " ") {
		verr.Add("email", "email is not a valid address")
	}
}
