// Package user contains the back-office user domain model.
// Users exist here for two reasons: notification fan-out resolves its
// recipients as "all active users with role X", and operations record
// the acting user id in the audit trail. Session handling lives in the
// fronting identity layer, not in this service.
package user

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Role is a back-office role string.
type Role string

const (
	RoleAdmin             Role = "admin"
	RoleAgent             Role = "agent"
	RoleSecretary         Role = "secretary"
	RoleAdmissionDirector Role = "admission_director"
)

// User is a back-office account.
type User struct {
	ID           int64
	FullName     string
	Email        string
	PasswordHash string
	Role         Role
	Active       bool
}

var (
	// ErrInvalidEmail - email is empty.
	ErrInvalidEmail = errors.New("invalid email")

	// ErrUserNotFound - user not found.
	ErrUserNotFound = errors.New("user not found")
)

// New creates a user with a bcrypt password hash.
// Email is normalized to lowercase, as login lookups are.
func New(fullName, email, password string, role Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrInvalidEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &User{
		FullName:     strings.TrimSpace(fullName),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}, nil
}

// CheckPassword verifies a plaintext password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
