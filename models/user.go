package models

import (
	"errors"
	"fmt"
	"strings"
)

// UserRole defines the staff roles of the console
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleChef    UserRole = "chef"
	RoleCashier UserRole = "cashier"
	RoleWaiter  UserRole = "waiter"
	RoleCleaner UserRole = "cleaner"
)

var Roles = []UserRole{RoleAdmin, RoleManager, RoleChef, RoleCashier, RoleWaiter, RoleCleaner}

var ErrUnknownRole = errors.New("unknown role")

// ParseRole rejects anything outside the closed role set.
func ParseRole(s string) (UserRole, error) {
	r := UserRole(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Roles {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// DashboardRoute is where a user lands after login. Staff sub-roles have no
// dashboard of their own and use the orders table.
func (r UserRole) DashboardRoute() string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RoleManager:
		return "/manager"
	case RoleChef:
		return "/chef"
	default:
		return "/orders"
	}
}

type User struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	Avatar       string   `json:"avatar,omitempty"`
}
