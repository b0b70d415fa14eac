// Package session manages the local operator session. Users live on the
// terminal, not the backend; the resume token replaces the browser's
// localStorage so a restarted terminal can pick the session back up without
// re-entering the password.
package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("session: invalid credentials")
	ErrUnknownUser        = errors.New("session: unknown user")
	ErrInvalidToken       = errors.New("session: invalid or expired token")
)

const tokenTTL = 24 * time.Hour

type User struct {
	ID    string
	Name  string
	Role  string // admin | cashier
	Shift string
}

// Credential pairs a user with its bcrypt password hash.
type Credential struct {
	User         User
	PasswordHash string
}

// HashPassword bcrypt-hashes a plaintext password for a Credential.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

type Manager struct {
	secret []byte
	users  map[string]Credential

	mu      sync.Mutex
	current *User
}

func NewManager(secret string, users []Credential) *Manager {
	m := &Manager{
		secret: []byte(secret),
		users:  make(map[string]Credential, len(users)),
	}
	for _, c := range users {
		m.users[normalizeID(c.User.ID)] = c
	}
	return m
}

func normalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// Login verifies the password and opens a session, returning a signed resume
// token.
func (m *Manager) Login(username, password string) (User, string, error) {
	cred, ok := m.users[normalizeID(username)]
	if !ok {
		return User{}, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return User{}, "", ErrInvalidCredentials
	}

	token, err := m.signToken(cred.User.ID)
	if err != nil {
		return User{}, "", err
	}

	m.setCurrent(cred.User)
	return cred.User, token, nil
}

// SwitchUser changes the session to another known user without a password,
// the quick-switch the POS screen offers between shifts.
func (m *Manager) SwitchUser(id string) (User, error) {
	cred, ok := m.users[normalizeID(id)]
	if !ok {
		return User{}, ErrUnknownUser
	}
	m.setCurrent(cred.User)
	return cred.User, nil
}

// Resume validates a previously issued token and restores that session.
func (m *Manager) Resume(token string) (User, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return User{}, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return User{}, ErrInvalidToken
	}
	id, _ := claims["user_id"].(string)
	cred, ok := m.users[normalizeID(id)]
	if !ok {
		return User{}, ErrUnknownUser
	}
	m.setCurrent(cred.User)
	return cred.User, nil
}

// Logout drops the current session.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
}

// Current returns the signed-in user, if any.
func (m *Manager) Current() (User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return User{}, false
	}
	return *m.current, true
}

// Users lists the known operators for the user-switch screen.
func (m *Manager) Users() []User {
	out := make([]User, 0, len(m.users))
	for _, c := range m.users {
		out = append(out, c.User)
	}
	return out
}

func (m *Manager) setCurrent(u User) {
	m.mu.Lock()
	m.current = &u
	m.mu.Unlock()
}

func (m *Manager) signToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(tokenTTL).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}
