package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/yndnr/rentdash-go/internal/core/domain"
)

// Fallback messages used when the backend supplies none.
const (
	MsgFetchUsersFailed = "Error fetching users"
	MsgCreateUserFailed = "Error creating user"
)

func msgFetchUserFailed(id int64) string  { return fmt.Sprintf("Error fetching user %d", id) }
func msgUpdateUserFailed(id int64) string { return fmt.Sprintf("Error updating user %d", id) }
func msgDeleteUserFailed(id int64) string { return fmt.Sprintf("Error deleting user %d", id) }

// DirectorySnapshot is a point-in-time copy of the user directory.
type DirectorySnapshot struct {
	// Users in backend response order.
	Users []domain.User
	// Selected is the user loaded by FetchUserByID, if any.
	Selected *domain.User
	// Loading is true while a call is in flight.
	Loading bool
	// LastError is the message of the last failed call.
	LastError string
}

// Filter returns the users whose name or email contains term, ignoring case.
func (s DirectorySnapshot) Filter(term string) []domain.User {
	out := make([]domain.User, 0, len(s.Users))
	for _, u := range s.Users {
		if u.Matches(term) {
			out = append(out, u)
		}
	}
	return out
}

// UserDirectory caches the backend user collection.
//
// Mutations are confirmed-only: the cache changes after the backend
// accepts a call, never before. A failed call leaves the cache untouched,
// records LastError and returns the error.
type UserDirectory struct {
	api UserAPI

	mu    sync.RWMutex
	state DirectorySnapshot

	// A listing that was in flight when a mutation was confirmed is
	// discarded, so it cannot drop a record added meanwhile.
	seq     uint64
	mutated uint64
}

// NewUserDirectory creates an empty directory.
func NewUserDirectory(api UserAPI) *UserDirectory {
	return &UserDirectory{api: api}
}

// Snapshot returns a copy of the directory.
func (d *UserDirectory) Snapshot() DirectorySnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.copyState()
}

// FetchUsers replaces the cached collection with the backend's.
func (d *UserDirectory) FetchUsers(ctx context.Context) error {
	seq := d.begin()

	users, err := d.api.ListUsers(ctx)
	if err != nil {
		d.fail(err, MsgFetchUsersFailed)
		return err
	}

	d.apply(func(s *DirectorySnapshot) {
		if seq <= d.mutated {
			return
		}
		s.Users = cloneUsers(users)
	}, false)
	return nil
}

// FetchUserByID loads one user into Selected. Users is not touched.
func (d *UserDirectory) FetchUserByID(ctx context.Context, id int64) error {
	d.begin()

	user, err := d.api.GetUser(ctx, id)
	if err != nil {
		d.fail(err, msgFetchUserFailed(id))
		return err
	}

	d.apply(func(s *DirectorySnapshot) {
		s.Selected = user.Clone()
	}, false)
	return nil
}

// AddUser creates a user and appends the backend record.
func (d *UserDirectory) AddUser(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	d.begin()

	user, err := d.api.CreateUser(ctx, in)
	if err == nil && user == nil {
		err = domain.ErrEmptyUserResponse
	}
	if err != nil {
		d.fail(err, MsgCreateUserFailed)
		return nil, err
	}

	d.apply(func(s *DirectorySnapshot) {
		if i := indexOf(s.Users, user.ID); i >= 0 {
			s.Users[i] = *user
			return
		}
		s.Users = append(s.Users, *user)
	}, true)
	return user.Clone(), nil
}

// UpdateUserData sends the writable fields of patch and applies the
// returned record. ID and timestamps in patch are never sent.
//
// If id is not cached the backend is still called but the cache is left
// as is.
func (d *UserDirectory) UpdateUserData(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	d.begin()

	user, err := d.api.UpdateUser(ctx, id, patch.Writable())
	if err == nil && user == nil {
		err = domain.ErrEmptyUserResponse
	}
	if err != nil {
		d.fail(err, msgUpdateUserFailed(id))
		return nil, err
	}

	d.apply(func(s *DirectorySnapshot) {
		if i := indexOf(s.Users, id); i >= 0 {
			s.Users[i] = *user
		}
		if s.Selected != nil && s.Selected.ID == id {
			s.Selected = user.Clone()
		}
	}, true)
	return user.Clone(), nil
}

// RemoveUser deletes a user and drops it from the cache once the backend
// confirms.
func (d *UserDirectory) RemoveUser(ctx context.Context, id int64) error {
	d.begin()

	if err := d.api.DeleteUser(ctx, id); err != nil {
		d.fail(err, msgDeleteUserFailed(id))
		return err
	}

	d.apply(func(s *DirectorySnapshot) {
		if i := indexOf(s.Users, id); i >= 0 {
			s.Users = append(s.Users[:i], s.Users[i+1:]...)
		}
		if s.Selected != nil && s.Selected.ID == id {
			s.Selected = nil
		}
	}, true)
	return nil
}

// ClearSelectedUser clears Selected.
func (d *UserDirectory) ClearSelectedUser() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Selected = nil
}

// ClearError clears LastError.
func (d *UserDirectory) ClearError() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.LastError = ""
}

// ============================================================================
// Internal
// ============================================================================

func (d *UserDirectory) begin() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	next := d.copyState()
	next.Loading = true
	next.LastError = ""
	d.state = next
	return d.seq
}

// apply runs fn on a copy of the state and installs it. Mutations advance
// the watermark that stale listings are compared against.
func (d *UserDirectory) apply(fn func(s *DirectorySnapshot), mutation bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	next := d.copyState()
	fn(&next)
	next.Loading = false
	d.state = next
	if mutation {
		d.mutated = d.seq
	}
}

func (d *UserDirectory) fail(err error, fallback string) {
	msg := MessageOf(err, fallback)
	d.mu.Lock()
	defer d.mu.Unlock()

	next := d.copyState()
	next.Loading = false
	next.LastError = msg
	d.state = next
}

// copyState must be called with d.mu held.
func (d *UserDirectory) copyState() DirectorySnapshot {
	return DirectorySnapshot{
		Users:     cloneUsers(d.state.Users),
		Selected:  d.state.Selected.Clone(),
		Loading:   d.state.Loading,
		LastError: d.state.LastError,
	}
}

func cloneUsers(users []domain.User) []domain.User {
	if users == nil {
		return nil
	}
	out := make([]domain.User, len(users))
	copy(out, users)
	return out
}

func indexOf(users []domain.User, id int64) int {
	for i := range users {
		if users[i].ID == id {
			return i
		}
	}
	return -1
}
