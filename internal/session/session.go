// Package session keeps the signed-in user in local storage. Verifying who
// the user is belongs to an Authenticator.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

const (
	UserKey     = "mediorg_user"
	AccountsKey = "mediorg_accounts"
)

var (
	ErrMissingFields      = errors.New("missing required field")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountExists      = errors.New("account already exists")
)

// Message turns a Login/Signup error into text for the user.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingFields):
		return "Please fill in all fields"
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, ErrAccountExists):
		return "An account with this email already exists"
	}
	return "Something went wrong, please try again"
}

// Storage is the keyed persistence medium.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

// User is the signed-in identity.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Authenticator verifies and registers identities.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (User, error)
	Register(ctx context.Context, email, password, name string) (User, error)
}

// Manager owns the session slot.
type Manager struct {
	storage Storage
	auth    Authenticator
	log     zerolog.Logger
}

func NewManager(s Storage, auth Authenticator, log zerolog.Logger) *Manager {
	return &Manager{storage: s, auth: auth, log: log}
}

// Current returns the signed-in user, or nil when there is no session.
func (m *Manager) Current() *User {
	raw, ok, err := m.storage.Get(UserKey)
	if err != nil {
		m.log.Warn().Err(err).Msg("read session failed")
		return nil
	}
	if !ok {
		return nil
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.Email == "" {
		m.log.Warn().Err(err).Msg("session slot corrupt, ignoring")
		return nil
	}
	return &u
}

func (m *Manager) Login(ctx context.Context, email, password string) (*User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}
	u, err := m.auth.Authenticate(ctx, email, password)
	if err != nil {
		m.log.Info().Str("email", email).Err(err).Msg("login rejected")
		return nil, err
	}
	return m.begin(u)
}

func (m *Manager) Signup(ctx context.Context, email, password, name string) (*User, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if email == "" || password == "" || name == "" {
		return nil, ErrMissingFields
	}
	u, err := m.auth.Register(ctx, email, password, name)
	if err != nil {
		m.log.Info().Str("email", email).Err(err).Msg("signup rejected")
		return nil, err
	}
	return m.begin(u)
}

func (m *Manager) Logout() error {
	if err := m.storage.Remove(UserKey); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (m *Manager) begin(u User) (*User, error) {
	data, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	if err := m.storage.Set(UserKey, string(data)); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	m.log.Info().Str("email", u.Email).Msg("session started")
	return &u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
