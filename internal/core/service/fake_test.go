package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yndnr/rentdash-go/internal/core/domain"
)

// ---- fake backend ----

// fakeError mimics a transport error carrying the backend message field.
type fakeError struct {
	Status  int
	Message string
}

func (e *fakeError) Error() string         { return fmt.Sprintf("status %d: %s", e.Status, e.Message) }
func (e *fakeError) ServerMessage() string { return e.Message }

// fakeAPI implements AuthAPI and UserAPI for unit tests.
type fakeAPI struct {
	mu sync.Mutex

	MeRet *domain.User
	MeErr error

	LoginRet *domain.User
	LoginErr error

	LogoutErr error

	CreateRet *domain.User
	CreateErr error

	ListRet []domain.User
	ListErr error

	GetRet *domain.User
	GetErr error

	UpdateRet *domain.User
	UpdateErr error

	DeleteErr error

	// call tracking
	LoginCalls  int
	LogoutCalls int
	CreateCalls int
	LastLogin   [2]string
	LastCreate  domain.UserInput
	LastUpdate  domain.UserUpdate
	LastUpdated int64
	LastDeleted int64

	// block, when set, is waited on inside Login.
	block chan struct{}
}

func (f *fakeAPI) Me(ctx context.Context) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.MeRet, f.MeErr
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*domain.User, error) {
	f.mu.Lock()
	f.LoginCalls++
	f.LastLogin = [2]string{email, password}
	block := f.block
	ret, err := f.LoginRet, f.LoginErr
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return ret, err
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LogoutCalls++
	return f.LogoutErr
}

func (f *fakeAPI) CreateUser(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	f.LastCreate = in
	return f.CreateRet, f.CreateErr
}

func (f *fakeAPI) ListUsers(ctx context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ListRet, f.ListErr
}

func (f *fakeAPI) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.GetRet, f.GetErr
}

func (f *fakeAPI) UpdateUser(ctx context.Context, id int64, upd domain.UserUpdate) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastUpdated = id
	f.LastUpdate = upd
	return f.UpdateRet, f.UpdateErr
}

func (f *fakeAPI) DeleteUser(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastDeleted = id
	return f.DeleteErr
}

// ---- helpers ----

var testTime = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func testUser(id int64, name string) domain.User {
	return domain.User{
		ID:        id,
		Name:      name,
		Email:     fmt.Sprintf("user%d@example.com", id),
		CreatedAt: testTime,
		UpdatedAt: testTime,
	}
}

func userPtr(u domain.User) *domain.User { return &u }
