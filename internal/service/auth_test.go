package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/rs/xid"

	"github.com/skarim/autotrack/internal/apperror"
	"github.com/skarim/autotrack/internal/auth"
	"github.com/skarim/autotrack/internal/model"
)

// =========================================================================
// MOCK USER REPOSITORY
// =========================================================================
//
// A hand-written in-memory implementation of repository.UserRepository.
// The service doesn't know whether it's talking to SQLite or a map —
// that's the point of the interface.

type mockUserRepo struct {
	byUsername map[string]*model.User
	byID       map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		byUsername: make(map[string]*model.User),
		byID:       make(map[string]*model.User),
	}
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *model.User) error {
	user.ID = xid.New().String()
	stored := *user
	m.byUsername[user.Username] = &stored
	m.byID[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	user, ok := m.byUsername[username]
	if !ok {
		return nil, apperror.NotFound("User not found")
	}
	result := *user
	return &result, nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	user, ok := m.byID[id]
	if !ok {
		return nil, apperror.NotFound("User not found")
	}
	result := *user
	return &result, nil
}

func (m *mockUserRepo) CountUsers(_ context.Context) (int, error) {
	return len(m.byID), nil
}

// =========================================================================
// TEST HELPERS
// =========================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestAuthService(t *testing.T) (*AuthService, *mockUserRepo) {
	t.Helper()
	repo := newMockUserRepo()
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	// Minimal bcrypt cost so tests stay fast.
	passwords := auth.NewPasswordServiceForTest(4)
	return NewAuthService(repo, tokens, passwords, testLogger()), repo
}

// =========================================================================
// REGISTER TESTS
// =========================================================================

func TestRegister_FirstUserBecomesAdmin(t *testing.T) {
	svc, _ := newTestAuthService(t)

	user, err := svc.Register(context.Background(), "alice", "password123", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Role != model.RoleAdmin {
		t.Errorf("first user Role = %q, want %q (bootstrap rule)", user.Role, model.RoleAdmin)
	}
}

func TestRegister_FirstUserAdminEvenIfRequestingUser(t *testing.T) {
	svc, _ := newTestAuthService(t)

	// The bootstrap promotion overrides the requested role.
	user, err := svc.Register(context.Background(), "alice", "password123", model.RoleUser)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Role != model.RoleAdmin {
		t.Errorf("Role = %q, want %q", user.Role, model.RoleAdmin)
	}
}

func TestRegister_SecondUserDefaultsToUser(t *testing.T) {
	svc, _ := newTestAuthService(t)

	mustRegister(t, svc, "alice", "password123", "")

	user, err := svc.Register(context.Background(), "bob", "password456", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Role != model.RoleUser {
		t.Errorf("second user Role = %q, want %q", user.Role, model.RoleUser)
	}
}

func TestRegister_ExplicitAdminRequestHonored(t *testing.T) {
	svc, _ := newTestAuthService(t)

	mustRegister(t, svc, "alice", "password123", "")

	// A later registrant explicitly asking for admin gets admin.
	user, err := svc.Register(context.Background(), "mallory", "password789", model.RoleAdmin)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Role != model.RoleAdmin {
		t.Errorf("Role = %q, want %q", user.Role, model.RoleAdmin)
	}
}

func TestRegister_UnknownRoleCollapsesToUser(t *testing.T) {
	svc, _ := newTestAuthService(t)

	mustRegister(t, svc, "alice", "password123", "")

	user, err := svc.Register(context.Background(), "bob", "password456", "superuser")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Role != model.RoleUser {
		t.Errorf("Role = %q, want %q for unknown requested role", user.Role, model.RoleUser)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _ := newTestAuthService(t)

	mustRegister(t, svc, "alice", "password123", "")

	_, err := svc.Register(context.Background(), "alice", "otherpassword", "")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

func TestRegister_EmptyFields(t *testing.T) {
	svc, _ := newTestAuthService(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "", "password"},
		{"empty password", "alice", ""},
		{"whitespace username", "   ", "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.username, tt.password, "")
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestRegister_PasswordIsHashed(t *testing.T) {
	svc, repo := newTestAuthService(t)

	mustRegister(t, svc, "alice", "plaintext-password", "")

	stored := repo.byUsername["alice"]
	if stored.PasswordHash == "plaintext-password" {
		t.Fatal("password stored in plain text")
	}
	if stored.PasswordHash == "" {
		t.Fatal("no password hash stored")
	}
}

func TestRegister_TrimsUsername(t *testing.T) {
	svc, _ := newTestAuthService(t)

	user, err := svc.Register(context.Background(), "  alice  ", "password123", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("Username = %q, want trimmed %q", user.Username, "alice")
	}
}

// =========================================================================
// LOGIN TESTS
// =========================================================================

func TestLogin_Success(t *testing.T) {
	svc, _ := newTestAuthService(t)

	mustRegister(t, svc, "alice", "password123", "")

	result, err := svc.Login(context.Background(), "alice", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.Token == "" {
		t.Error("Login() returned empty token")
	}
	if result.User.Username != "alice" {
		t.Errorf("Username = %q, want %q", result.User.Username, "alice")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)

	mustRegister(t, svc, "alice", "password123", "")

	_, err := svc.Login(context.Background(), "alice", "wrong")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), "nobody", "password")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

// TestLogin_UniformFailureMessage checks that an unknown username and a
// wrong password are indistinguishable from the outside.
func TestLogin_UniformFailureMessage(t *testing.T) {
	svc, _ := newTestAuthService(t)

	mustRegister(t, svc, "alice", "password123", "")

	_, errUnknown := svc.Login(context.Background(), "nobody", "password123")
	_, errWrongPw := svc.Login(context.Background(), "alice", "wrong")

	if errUnknown == nil || errWrongPw == nil {
		t.Fatal("both logins should fail")
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Errorf("failure messages differ: %q vs %q — allows username enumeration",
			errUnknown.Error(), errWrongPw.Error())
	}
}

func mustRegister(t *testing.T, svc *AuthService, username, password, role string) *model.User {
	t.Helper()
	user, err := svc.Register(context.Background(), username, password, role)
	if err != nil {
		t.Fatalf("setup: Register(%q) error = %v", username, err)
	}
	return user
}
