package service

import (
	"context"
	"errors"

	"github.com/yndnr/rentdash-go/internal/core/domain"
)

// AuthAPI is the part of the backend the SessionGate talks to.
//
// The session credential is an opaque cookie held by the transport.
// Implementations never expose it.
type AuthAPI interface {
	// Me returns the user bound to the current session cookie.
	Me(ctx context.Context) (*domain.User, error)

	// Login exchanges credentials for a session cookie and returns the user.
	Login(ctx context.Context, email, password string) (*domain.User, error)

	// Logout invalidates the session cookie.
	Logout(ctx context.Context) error

	// CreateUser registers a new account.
	CreateUser(ctx context.Context, in domain.UserInput) (*domain.User, error)
}

// UserAPI is the part of the backend the UserDirectory talks to.
type UserAPI interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	CreateUser(ctx context.Context, in domain.UserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id int64, upd domain.UserUpdate) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// serverMessager is implemented by transport errors that carry the
// message field of the backend error payload.
type serverMessager interface {
	ServerMessage() string
}

// MessageOf returns the backend-supplied message carried by err, or
// fallback when there is none. It returns "" for a nil error.
func MessageOf(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var sm serverMessager
	if errors.As(err, &sm) {
		if msg := sm.ServerMessage(); msg != "" {
			return msg
		}
	}
	return fallback
}
