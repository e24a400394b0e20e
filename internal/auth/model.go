package auth

import (
	"strings"
	"time"
)

const (
	RoleStaff = "STAFF"
	RoleAdmin = "ADMIN"
)

// User is a staff account allowed to manage the menu and orders.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func validRole(role string) bool {
	return role == RoleStaff || role == RoleAdmin
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
