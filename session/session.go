// Package session holds the signed-in staff member. Credentials come from a
// fixed table; sessions live in process memory and are referenced by a JWT.
package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"restaurant-console/fixtures"
	"restaurant-console/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Cookie names of the persisted session layout.
const (
	CookieSession = "console_session"
	CookieEmail   = "console_email"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrSessionEnded       = errors.New("session has ended")
)

type Claims struct {
	UserID string          `json:"user_id"`
	Email  string          `json:"email"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type Session struct {
	ID        string      `json:"id"`
	User      models.User `json:"user"`
	Remember  bool        `json:"remember"`
	IssuedAt  time.Time   `json:"issued_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

type Options struct {
	Secret []byte
	TTL    time.Duration
	// RememberTTL applies when the user asks to be remembered.
	RememberTTL time.Duration
	// Cost is the bcrypt cost used to hash the credential table.
	Cost int
	Now  func() time.Time
}

type Manager struct {
	secret      []byte
	ttl         time.Duration
	rememberTTL time.Duration
	now         func() time.Time

	users map[string]models.User // by lower-case email

	mu       sync.RWMutex
	sessions map[string]Session
}

// NewManager hashes every credential and validates its role.
func NewManager(creds []fixtures.Credential, opts Options) (*Manager, error) {
	if len(opts.Secret) == 0 {
		return nil, errors.New("session secret is empty")
	}
	m := &Manager{
		secret:      opts.Secret,
		ttl:         opts.TTL,
		rememberTTL: opts.RememberTTL,
		now:         opts.Now,
		users:       make(map[string]models.User, len(creds)),
		sessions:    map[string]Session{},
	}
	if m.ttl <= 0 {
		m.ttl = 12 * time.Hour
	}
	if m.rememberTTL < m.ttl {
		m.rememberTTL = 30 * 24 * time.Hour
	}
	if m.now == nil {
		m.now = time.Now
	}
	cost := opts.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	for _, c := range creds {
		role, err := models.ParseRole(string(c.User.Role))
		if err != nil {
			return nil, fmt.Errorf("user %s: %w", c.User.Email, err)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", c.User.Email, err)
		}
		u := c.User
		u.Role = role
		u.PasswordHash = string(hash)
		m.users[strings.ToLower(u.Email)] = u
	}
	return m, nil
}

// Login checks the credentials and opens a session. The returned token
// references the session by its id.
func (m *Manager) Login(ctx context.Context, email, password string, remember bool) (*Session, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	u, ok := m.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	now := m.now()
	ttl := m.ttl
	if remember {
		ttl = m.rememberTTL
	}
	s := Session{
		ID:        uuid.NewString(),
		User:      u,
		Remember:  remember,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
	claims := Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Subject:   u.ID,
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return &s, token, nil
}

// Resolve validates token and returns its live session.
func (m *Manager) Resolve(token string) (*Session, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := models.ParseRole(string(claims.Role)); err != nil {
		return nil, ErrInvalidToken
	}

	m.mu.RLock()
	s, ok := m.sessions[claims.ID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionEnded
	}
	if !m.now().Before(s.ExpiresAt) {
		m.Logout(s.ID)
		return nil, ErrSessionEnded
	}
	return &s, nil
}

// Logout ends the session. Ending an unknown session is a no-op.
func (m *Manager) Logout(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Users lists the credential table without password hashes, ordered by id.
func (m *Manager) Users() []models.User {
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		u.PasswordHash = ""
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
