package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/arefin/blog-api/internal/apperror"
	"github.com/arefin/blog-api/internal/auth"
	"github.com/arefin/blog-api/internal/model"
)

// =========================================================================
// MOCK USER REPOSITORY
// =========================================================================
//
// In-memory stand-in for the sqlite repository, keyed by email the same
// way the UNIQUE constraint is. Stores copies so tests can't interfere
// with each other's data through shared pointers.

type mockUserRepo struct {
	byID    map[string]*model.User
	byEmail map[string]*model.User
	nextID  int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		byID:    make(map[string]*model.User),
		byEmail: make(map[string]*model.User),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if _, ok := m.byEmail[user.Email]; ok {
		return apperror.Conflict("email already registered")
	}
	m.nextID++
	user.ID = fmt.Sprintf("mock-%d", m.nextID)
	stored := *user
	m.byID[user.ID] = &stored
	m.byEmail[user.Email] = &stored
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	user, ok := m.byID[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *user
	return &result, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	result := *user
	return &result, nil
}

func (m *mockUserRepo) Upsert(_ context.Context, user *model.User) error {
	existing, ok := m.byEmail[user.Email]
	if !ok {
		return m.Create(context.Background(), user)
	}
	user.ID = existing.ID
	user.PasswordHash = existing.PasswordHash
	existing.Name = user.Name
	return nil
}

// =========================================================================
// TEST HELPER
// =========================================================================

func newTestAuthService(t *testing.T) (*AuthService, *mockUserRepo) {
	t.Helper()
	repo := newMockUserRepo()
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordServiceForTest(4)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewAuthService(repo, tokens, passwords, logger), repo
}

// =========================================================================
// REGISTER TESTS
// =========================================================================

func TestRegister_Success(t *testing.T) {
	svc, repo := newTestAuthService(t)

	result, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if result.Token == "" {
		t.Error("Register() returned no token")
	}
	if result.User.ID == "" {
		t.Error("Register() user has no ID")
	}
	if result.User.PasswordHash == "secret1" {
		t.Error("Register() stored the plaintext password")
	}

	// The token must decode back to the new user's ID.
	userID, err := svc.ValidateToken(result.Token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if userID != result.User.ID {
		t.Errorf("token userID = %q, want %q", userID, result.User.ID)
	}

	if _, ok := repo.byEmail["alice@example.com"]; !ok {
		t.Error("Register() did not persist the user")
	}
}

func TestRegister_NormalizesEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)

	result, err := svc.Register(context.Background(), "alice", "  Alice@Example.COM ", "secret1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if result.User.Email != "alice@example.com" {
		t.Errorf("Email = %q, want normalized lowercase", result.User.Email)
	}
}

func TestRegister_CollectsAllValidationErrors(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Register(context.Background(), "", "not-an-email", "short")
	if err == nil {
		t.Fatal("Register() should fail validation")
	}

	var verr *apperror.Errors
	if !errors.As(err, &verr) {
		t.Fatalf("error = %T, want *apperror.Errors", err)
	}
	if len(verr.Items) != 3 {
		t.Errorf("len(Items) = %d, want 3 (name, email, password)", len(verr.Items))
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, repo := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret1"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, err := svc.Register(context.Background(), "impostor", "alice@example.com", "secret2")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("second Register() error = %v, want ErrConflict", err)
	}

	if len(repo.byID) != 1 {
		t.Errorf("user count = %d, want 1 — duplicate must not create a record", len(repo.byID))
	}
}

func TestRegister_PasswordExactlyMinLength(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), "alice", "alice@example.com", "123456"); err != nil {
		t.Errorf("Register() with a 6-char password should succeed, got %v", err)
	}
}

// =========================================================================
// LOGIN TESTS
// =========================================================================

func TestLogin_Success(t *testing.T) {
	svc, _ := newTestAuthService(t)

	reg, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	result, err := svc.Login(context.Background(), "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	userID, err := svc.ValidateToken(result.Token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if userID != reg.User.ID {
		t.Errorf("token userID = %q, want %q", userID, reg.User.ID)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)
	svc.Register(context.Background(), "alice", "alice@example.com", "secret1")

	_, err := svc.Login(context.Background(), "alice@example.com", "wrong-password")
	if !errors.Is(err, apperror.ErrBadCredentials) {
		t.Fatalf("Login() error = %v, want ErrBadCredentials", err)
	}
}

func TestLogin_UnknownEmailSameErrorAsWrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)
	svc.Register(context.Background(), "alice", "alice@example.com", "secret1")

	_, errUnknown := svc.Login(context.Background(), "ghost@example.com", "secret1")
	_, errWrong := svc.Login(context.Background(), "alice@example.com", "wrong")

	if !errors.Is(errUnknown, apperror.ErrBadCredentials) || !errors.Is(errWrong, apperror.ErrBadCredentials) {
		t.Fatal("both failures should be ErrBadCredentials")
	}
	// Identical messages — the response must not reveal which emails exist.
	if errUnknown.Error() != errWrong.Error() {
		t.Errorf("error messages differ: %q vs %q", errUnknown.Error(), errWrong.Error())
	}
}

func TestLogin_MissingFields(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), "", "")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("Login() error = %v, want ErrValidation", err)
	}
}

// =========================================================================
// GITHUB LOGIN TESTS
// =========================================================================

func TestLoginOrRegisterGitHub_CreatesAccount(t *testing.T) {
	svc, repo := newTestAuthService(t)

	result, err := svc.LoginOrRegisterGitHub(context.Background(), &auth.GitHubUser{
		ID:    12345,
		Login: "alicehub",
		Name:  "Alice",
		Email: "alice@example.com",
	})
	if err != nil {
		t.Fatalf("LoginOrRegisterGitHub() error = %v", err)
	}
	if result.Token == "" {
		t.Error("no token issued")
	}
	if _, ok := repo.byEmail["alice@example.com"]; !ok {
		t.Error("account was not created")
	}

	// The placeholder hash must not let the account in via password login.
	_, err = svc.Login(context.Background(), "alice@example.com", "")
	if err == nil {
		t.Error("OAuth-created account must not be reachable via password login")
	}
}

func TestLoginOrRegisterGitHub_NoEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.LoginOrRegisterGitHub(context.Background(), &auth.GitHubUser{
		ID:    12345,
		Login: "alicehub",
	})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation for missing email", err)
	}
}
