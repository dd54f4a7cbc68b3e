package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"restaurant-console/fixtures"
	"restaurant-console/models"

	"golang.org/x/crypto/bcrypt"
)

func newTestManager(t *testing.T, now func() time.Time) *Manager {
	t.Helper()
	m, err := NewManager(fixtures.Credentials(), Options{
		Secret: []byte("test-secret"),
		TTL:    time.Hour,
		Cost:   bcrypt.MinCost,
		Now:    now,
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func TestLoginResolveLogout(t *testing.T) {
	m := newTestManager(t, nil)

	s, token, err := m.Login(context.Background(), "Chef@Restaurant.test", "chef123", false)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if s.User.Role != models.RoleChef || s.User.Role.DashboardRoute() != "/chef" {
		t.Fatalf("unexpected user %+v", s.User)
	}

	got, err := m.Resolve(token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.ID != s.ID || got.User.Email != "chef@restaurant.test" {
		t.Fatalf("resolved %+v", got)
	}

	m.Logout(s.ID)
	if _, err := m.Resolve(token); !errors.Is(err, ErrSessionEnded) {
		t.Fatalf("expected ErrSessionEnded after logout, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	m := newTestManager(t, nil)
	ctx := context.Background()

	if _, _, err := m.Login(ctx, "chef@restaurant.test", "wrong", false); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: %v", err)
	}
	if _, _, err := m.Login(ctx, "nobody@restaurant.test", "chef123", false); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: %v", err)
	}
}

func TestResolveRejectsForeignAndExpiredTokens(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	m := newTestManager(t, clock)

	other, err := NewManager(fixtures.Credentials(), Options{Secret: []byte("other"), Cost: bcrypt.MinCost})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	_, foreign, _ := other.Login(context.Background(), "admin@restaurant.test", "admin123", false)
	if _, err := m.Resolve(foreign); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign token: %v", err)
	}

	_, token, err := m.Login(context.Background(), "admin@restaurant.test", "admin123", false)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	now = now.Add(2 * time.Hour)
	if _, err := m.Resolve(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token: %v", err)
	}
}

func TestRememberExtendsSession(t *testing.T) {
	m := newTestManager(t, nil)
	s, _, err := m.Login(context.Background(), "waiter@restaurant.test", "waiter123", true)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if s.ExpiresAt.Sub(s.IssuedAt) <= time.Hour {
		t.Fatalf("remembered session lasts %s", s.ExpiresAt.Sub(s.IssuedAt))
	}
}

func TestUsersHidePasswordHashes(t *testing.T) {
	m := newTestManager(t, nil)
	users := m.Users()
	if len(users) != len(models.Roles) {
		t.Fatalf("expected one user per role, got %d", len(users))
	}
	for _, u := range users {
		if u.PasswordHash != "" {
			t.Fatalf("hash leaked for %s", u.Email)
		}
	}
}
