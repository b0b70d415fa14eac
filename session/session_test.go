package session

import (
	"errors"
	"testing"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	adminHash, err := HashPassword("ADMIN0001")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	turnoHash, err := HashPassword("TURNO12025")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return NewManager("unittestsecret", []Credential{
		{User: User{ID: "ADMIN", Name: "Administrador", Role: "admin", Shift: "Mañana"}, PasswordHash: adminHash},
		{User: User{ID: "TURNO1", Name: "Cajero Turno 1", Role: "cashier", Shift: "Mañana"}, PasswordHash: turnoHash},
	})
}

func TestLogin(t *testing.T) {
	m := testManager(t)

	user, token, err := m.Login("admin", "ADMIN0001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "ADMIN" || user.Role != "admin" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if token == "" {
		t.Fatalf("expected a resume token")
	}

	current, ok := m.Current()
	if !ok || current.ID != "ADMIN" {
		t.Fatalf("session not opened: %+v ok=%v", current, ok)
	}
}

func TestLoginNormalizesUsername(t *testing.T) {
	m := testManager(t)
	if _, _, err := m.Login("  turno1  ", "TURNO12025"); err != nil {
		t.Fatalf("expected trimmed/uppercased lookup to succeed: %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	m := testManager(t)

	if _, _, err := m.Login("ADMIN", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := m.Login("NADIE", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, ok := m.Current(); ok {
		t.Fatalf("failed login must not open a session")
	}
}

func TestResume(t *testing.T) {
	m := testManager(t)
	_, token, err := m.Login("TURNO1", "TURNO12025")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	m.Logout()
	if _, ok := m.Current(); ok {
		t.Fatalf("logout must close the session")
	}

	user, err := m.Resume(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "TURNO1" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if _, ok := m.Current(); !ok {
		t.Fatalf("resume must reopen the session")
	}
}

func TestResumeRejectsForgedToken(t *testing.T) {
	m := testManager(t)
	if _, err := m.Resume("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	// token signed with a different secret
	other := NewManager("othersecret", []Credential{
		{User: User{ID: "ADMIN"}, PasswordHash: mustHash(t, "ADMIN0001")},
	})
	_, token, err := other.Login("ADMIN", "ADMIN0001")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := m.Resume(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong signature, got %v", err)
	}
}

func TestSwitchUser(t *testing.T) {
	m := testManager(t)
	m.Login("ADMIN", "ADMIN0001")

	user, err := m.SwitchUser("turno1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "TURNO1" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := m.SwitchUser("NADIE"); !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("expected ErrUnknownUser, got %v", err)
	}
}

func TestUsersList(t *testing.T) {
	m := testManager(t)
	users := m.Users()
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return h
}
