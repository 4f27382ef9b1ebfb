package connection

import (
	"context"
	"fmt"

	"github.com/yndnr/rentdash-go/internal/core/domain"
	"github.com/yndnr/rentdash-go/internal/core/service"
)

// Endpoint paths relative to the base URL.
const (
	PathMe     = "/users/me"
	PathLogin  = "/auth/login"
	PathLogout = "/auth/logout"
	PathUsers  = "/users"
)

// API is the typed backend surface used by the session gate and the user
// directory.
type API struct {
	http *HTTPClient
	jar  *Jar
}

// NewAPI creates an API over client. jar may be nil; when set it is
// cleared on logout.
func NewAPI(client *HTTPClient, jar *Jar) *API {
	return &API{http: client, jar: jar}
}

// loginRequest is the POST /auth/login body.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse is the data member of the login response.
type loginResponse struct {
	User *domain.User `json:"user"`
}

// Me returns the user bound to the session cookie.
func (a *API) Me(ctx context.Context) (*domain.User, error) {
	resp, err := a.http.Get(ctx, PathMe)
	if err != nil {
		return nil, err
	}
	var user domain.User
	if err := ParseResponse(resp, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a session cookie.
func (a *API) Login(ctx context.Context, email, password string) (*domain.User, error) {
	resp, err := a.http.Post(ctx, PathLogin, loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	var out loginResponse
	if err := ParseResponse(resp, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, fmt.Errorf("%w: missing data.user", ErrMalformedResponse)
	}
	return out.User, nil
}

// Logout invalidates the session. The local jar is cleared whether or not
// the backend call succeeds.
func (a *API) Logout(ctx context.Context) error {
	defer func() {
		if a.jar != nil {
			a.jar.Clear()
		}
	}()

	resp, err := a.http.Post(ctx, PathLogout, nil)
	if err != nil {
		return err
	}
	return ParseResponse(resp, nil)
}

// CreateUser registers a new account.
func (a *API) CreateUser(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	resp, err := a.http.Post(ctx, PathUsers, in)
	if err != nil {
		return nil, err
	}
	var user domain.User
	if err := ParseResponse(resp, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns every user.
func (a *API) ListUsers(ctx context.Context) ([]domain.User, error) {
	resp, err := a.http.Get(ctx, PathUsers)
	if err != nil {
		return nil, err
	}
	var users []domain.User
	if err := ParseResponse(resp, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser returns one user.
func (a *API) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	resp, err := a.http.Get(ctx, userPath(id))
	if err != nil {
		return nil, err
	}
	var user domain.User
	if err := ParseResponse(resp, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser sends the set fields of upd.
func (a *API) UpdateUser(ctx context.Context, id int64, upd domain.UserUpdate) (*domain.User, error) {
	resp, err := a.http.Put(ctx, userPath(id), upd)
	if err != nil {
		return nil, err
	}
	var user domain.User
	if err := ParseResponse(resp, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser deletes one user. The returned record is not needed.
func (a *API) DeleteUser(ctx context.Context, id int64) error {
	resp, err := a.http.Delete(ctx, userPath(id))
	if err != nil {
		return err
	}
	return ParseResponse(resp, nil)
}

func userPath(id int64) string {
	return fmt.Sprintf("%s/%d", PathUsers, id)
}

var (
	_ service.AuthAPI = (*API)(nil)
	_ service.UserAPI = (*API)(nil)
)
