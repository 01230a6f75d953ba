package domain

import (
	"errors"
	"strings"
	"time"
)

// MinPasswordLen is the minimum accepted password length.
const MinPasswordLen = 5

// User factory errors.
var (
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordTooShort = errors.New("password is too short")
)

// User is an account in the system. Email is the login identifier and is
// unique. PasswordHash is empty for accounts created without a usable
// password; such accounts can never authenticate.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	IsStaff      bool      `json:"is_staff"`
	IsSuperuser  bool      `json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasUsablePassword reports whether the account can authenticate at all.
func (u *User) HasUsablePassword() bool {
	return u.PasswordHash != ""
}

// NewUser validates inputs and returns a User ready for hashing and
// persistence. Password validation happens here; hashing is the caller's
// concern. An empty password is allowed and produces an account with no
// usable password.
func NewUser(email, password, name string) (*User, error) {
	if email == "" {
		return nil, ErrEmailRequired
	}
	if password != "" && len(password) < MinPasswordLen {
		return nil, ErrPasswordTooShort
	}

	return &User{
		Email:    NormalizeEmail(email),
		Name:     name,
		IsActive: true,
	}, nil
}

// NewSuperuser is NewUser with staff and superuser flags set. Superusers
// must have a usable password.
func NewSuperuser(email, password string) (*User, error) {
	if password == "" {
		return nil, ErrPasswordTooShort
	}

	user, err := NewUser(email, password, "")
	if err != nil {
		return nil, err
	}

	user.IsStaff = true
	user.IsSuperuser = true
	return user, nil
}

// NormalizeEmail lowercases the domain part of an email address. The local
// part is case-sensitive per RFC 5321 and is preserved as given.
func NormalizeEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}
