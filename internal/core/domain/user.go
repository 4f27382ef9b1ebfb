// Package domain defines the core domain models for RentDash.
//
// Domain models are pure value objects and entities without any
// IO dependencies or framework coupling.
package domain

import (
	"net/mail"
	"strings"
	"time"
)

// User field constraints, matching the registration form rules.
const (
	MinNameLength     = 2
	MaxNameLength     = 128
	MinPasswordLength = 6
	MaxEmailLength    = 254
)

// User is the public record of a backend user account.
//
// The password is write-only on the backend and never appears here.
type User struct {
	// ID is assigned by the backend and never changes.
	ID int64 `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Email is the login identifier.
	Email string `json:"email"`

	// CreatedAt is set by the backend on creation.
	CreatedAt time.Time `json:"createdAt" table:"CREATED,wide"`

	// UpdatedAt is set by the backend on every update.
	UpdatedAt time.Time `json:"updatedAt" table:"UPDATED,wide"`
}

// Clone returns a copy of the user.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// Matches reports whether the user's name or email contains term,
// ignoring case. An empty term matches every user.
func (u User) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(u.Name), term) ||
		strings.Contains(strings.ToLower(u.Email), term)
}

// UserInput is the payload for creating a user.
type UserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the registration form rules.
func (in UserInput) Validate() error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return ErrUserValidation.WithDetails("name is required")
	}
	if len(name) < MinNameLength {
		return ErrUserValidation.WithDetails("name must be at least 2 characters")
	}
	if len(name) > MaxNameLength {
		return ErrUserValidation.WithDetails("name is too long")
	}
	if err := validateEmail(in.Email); err != nil {
		return err
	}
	if in.Password == "" {
		return ErrUserValidation.WithDetails("password is required")
	}
	if len(in.Password) < MinPasswordLength {
		return ErrUserValidation.WithDetails("password must be at least 6 characters")
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrUserValidation.WithDetails("email is required")
	}
	if len(email) > MaxEmailLength {
		return ErrUserValidation.WithDetails("email is too long")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return ErrUserValidation.WithDetails("invalid email address")
	}
	return nil
}

// UserPatch is a partial user record as supplied by a caller.
//
// ID, CreatedAt and UpdatedAt may be present because callers often pass a
// record they read back from the backend; they are server-owned and are
// removed by Writable before anything is sent.
type UserPatch struct {
	ID        *int64     `json:"id,omitempty"`
	Name      *string    `json:"name,omitempty"`
	Email     *string    `json:"email,omitempty"`
	Password  *string    `json:"password,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// UserUpdate is the wire payload for PUT /users/{id}.
type UserUpdate struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.Password == nil
}

// Writable drops the server-owned fields and returns what a client may send.
func (p UserPatch) Writable() UserUpdate {
	return UserUpdate{
		Name:     p.Name,
		Email:    p.Email,
		Password: p.Password,
	}
}

// PatchFromUser builds a patch carrying every field of u, as a form that
// edits a fetched record would.
func PatchFromUser(u User) UserPatch {
	id := u.ID
	name := u.Name
	email := u.Email
	created := u.CreatedAt
	updated := u.UpdatedAt
	return UserPatch{
		ID:        &id,
		Name:      &name,
		Email:     &email,
		CreatedAt: &created,
		UpdatedAt: &updated,
	}
}

// Validate checks the fields that are set.
func (u UserUpdate) Validate() error {
	if u.IsEmpty() {
		return ErrEmptyPatch
	}
	if u.Name != nil && len(strings.TrimSpace(*u.Name)) < MinNameLength {
		return ErrUserValidation.WithDetails("name must be at least 2 characters")
	}
	if u.Email != nil {
		if err := validateEmail(*u.Email); err != nil {
			return err
		}
	}
	if u.Password != nil && len(*u.Password) < MinPasswordLength {
		return ErrUserValidation.WithDetails("password must be at least 6 characters")
	}
	return nil
}
