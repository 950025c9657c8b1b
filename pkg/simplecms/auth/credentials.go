package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tendant/simple-cms/pkg/simplecms"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// User is an account allowed to sign in to the admin API.
type User struct {
	Email        string
	Name         string
	PasswordHash string
}

// CredentialStore checks email/password pairs against bcrypt hashes.
// It is read-only after construction.
type CredentialStore struct {
	users map[string]User
}

// NewCredentialStore builds a store from users. Emails are matched
// case-insensitively.
func NewCredentialStore(users ...User) (*CredentialStore, error) {
	s := &CredentialStore{users: make(map[string]User, len(users))}
	for _, u := range users {
		key := normalizeEmail(u.Email)
		if key == "" {
			return nil, errors.New("user email is required")
		}
		if u.PasswordHash == "" {
			return nil, fmt.Errorf("password hash is required for %s", u.Email)
		}
		if _, err := bcrypt.Cost([]byte(u.PasswordHash)); err != nil {
			return nil, fmt.Errorf("invalid password hash for %s: %w", u.Email, err)
		}
		s.users[key] = u
	}
	return s, nil
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Authenticate returns the principal for a matching email and password.
func (s *CredentialStore) Authenticate(email, password string) (simplecms.Principal, error) {
	u, ok := s.users[normalizeEmail(email)]
	if !ok || password == "" {
		return simplecms.Principal{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return simplecms.Principal{}, ErrInvalidCredentials
	}
	return simplecms.Principal{Email: u.Email, Name: u.Name}, nil
}

// Len returns the number of configured users
func (s *CredentialStore) Len() int {
	return len(s.users)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
