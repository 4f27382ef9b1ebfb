package command

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/rentdash-go/internal/core/domain"
)

const sessionCookie = "rd_session"

// fakeBackend is an in-memory RentDash backend mounted under /api.
type fakeBackend struct {
	mu       sync.Mutex
	users    map[int64]domain.User
	password map[string]string
	sessions map[string]int64
	nextID   int64

	// failUsers makes GET /users fail with 500.
	failUsers bool
	// expireOnList drops every session once GET /users has been served.
	expireOnList bool
	// lastPut is the decoded body of the latest PUT /users/{id}.
	lastPut  map[string]any
	requests []string
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	b := &fakeBackend{
		users:    make(map[int64]domain.User),
		password: make(map[string]string),
		sessions: make(map[string]int64),
		nextID:   1,
	}
	srv := httptest.NewServer(http.StripPrefix("/api", http.HandlerFunc(b.serve)))
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *fakeBackend) addUser(name, email, password string) domain.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addUserLocked(name, email, password)
}

func (b *fakeBackend) addUserLocked(name, email, password string) domain.User {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	u := domain.User{ID: b.nextID, Name: name, Email: email, CreatedAt: now, UpdatedAt: now}
	b.nextID++
	b.users[u.ID] = u
	b.password[email] = password
	return u
}

func (b *fakeBackend) user(id int64) (domain.User, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[id]
	return u, ok
}

func (b *fakeBackend) count(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.requests {
		if r == method+" "+path {
			n++
		}
	}
	return n
}

func (b *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.requests = append(b.requests, r.Method+" "+r.URL.Path)
	var body map[string]any
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	if r.URL.Path != "/auth/login" && r.URL.Path != "/auth/logout" &&
		!(r.Method == http.MethodPost && r.URL.Path == "/users") {
		if _, ok := b.sessionUser(r); !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Not authenticated"})
			return
		}
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/auth/login":
		email, _ := body["email"].(string)
		pass, _ := body["password"].(string)
		if want, ok := b.password[email]; !ok || want != pass {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid credentials"})
			return
		}
		for _, u := range b.users {
			if u.Email == email {
				token := "tok-" + strconv.FormatInt(u.ID, 10)
				b.sessions[token] = u.ID
				http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: token, Path: "/", HttpOnly: true, MaxAge: 3600})
				writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"user": u}})
				return
			}
		}
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid credentials"})

	case r.Method == http.MethodPost && r.URL.Path == "/auth/logout":
		if c, err := r.Cookie(sessionCookie); err == nil {
			delete(b.sessions, c.Value)
		}
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
		writeJSON(w, http.StatusOK, map[string]any{"data": nil})

	case r.Method == http.MethodGet && r.URL.Path == "/users/me":
		id, _ := b.sessionUser(r)
		writeJSON(w, http.StatusOK, map[string]any{"data": b.users[id]})

	case r.Method == http.MethodPost && r.URL.Path == "/users":
		name, _ := body["name"].(string)
		email, _ := body["email"].(string)
		pass, _ := body["password"].(string)
		if _, exists := b.password[email]; exists {
			writeJSON(w, http.StatusConflict, map[string]any{"message": "Email already in use"})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"data": b.addUserLocked(name, email, pass)})

	case r.Method == http.MethodGet && r.URL.Path == "/users":
		if b.failUsers {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "database offline"})
			return
		}
		list := make([]domain.User, 0, len(b.users))
		for id := int64(1); id < b.nextID; id++ {
			if u, ok := b.users[id]; ok {
				list = append(list, u)
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": list})
		if b.expireOnList {
			clear(b.sessions)
		}

	case strings.HasPrefix(r.URL.Path, "/users/"):
		id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/users/"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": "bad id"})
			return
		}
		u, ok := b.users[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "User not found"})
			return
		}
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]any{"data": u})
		case http.MethodPut:
			b.lastPut = body
			if v, ok := body["name"].(string); ok {
				u.Name = v
			}
			if v, ok := body["email"].(string); ok {
				u.Email = v
			}
			if v, ok := body["password"].(string); ok {
				b.password[u.Email] = v
			}
			u.UpdatedAt = u.UpdatedAt.Add(time.Hour)
			b.users[id] = u
			writeJSON(w, http.StatusOK, map[string]any{"data": u})
		case http.MethodDelete:
			delete(b.users, id)
			writeJSON(w, http.StatusOK, map[string]any{"data": u})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}

	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "no route"})
	}
}

// sessionUser must be called with b.mu held.
func (b *fakeBackend) sessionUser(r *http.Request) (int64, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return 0, false
	}
	id, ok := b.sessions[c.Value]
	if !ok {
		return 0, false
	}
	_, exists := b.users[id]
	return id, exists
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// testClock is the fixed time commands see.
var testClock = time.Date(2024, 3, 11, 9, 30, 0, 0, time.UTC)

// cliEnv runs the CLI against a fake backend with isolated state.
type cliEnv struct {
	t       *testing.T
	backend *fakeBackend
	url     string
	dir     string

	// passwords are returned by the password prompt in order.
	passwords []string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	backend, srv := newFakeBackend(t)
	return &cliEnv{
		t:       t,
		backend: backend,
		url:     srv.URL + "/api",
		dir:     t.TempDir(),
	}
}

func (e *cliEnv) configPath() string {
	return filepath.Join(e.dir, "cli.yaml")
}

func (e *cliEnv) baseArgs() []string {
	return []string{
		AppName,
		"--config", e.configPath(),
		"--session-dir", e.dir,
		"--backend", e.url,
	}
}

// run executes one CLI invocation, feeding stdin to prompts.
func (e *cliEnv) run(stdin string, args ...string) (string, string, error) {
	e.t.Helper()
	var stdout, stderr bytes.Buffer

	err := Run(context.Background(), append(e.baseArgs(), args...),
		WithIO(strings.NewReader(stdin), &stdout, &stderr),
		WithClock(func() time.Time { return testClock }),
		WithPasswordReader(func(string) (string, error) {
			if len(e.passwords) == 0 {
				return "", errors.New("no password queued")
			}
			p := e.passwords[0]
			e.passwords = e.passwords[1:]
			return p, nil
		}),
	)
	return stdout.String(), stderr.String(), err
}

// mustRun runs args and fails the test on error.
func (e *cliEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, errOut, err := e.run("", args...)
	if err != nil {
		e.t.Fatalf("%v: %v\nstderr: %s", args, err, errOut)
	}
	return out
}

// login seeds Ann Lee and signs her in.
func (e *cliEnv) login() domain.User {
	e.t.Helper()
	u := e.backend.addUser("Ann Lee", "ann@example.com", "secret")
	e.mustRun("login", "--email", "ann@example.com", "--password", "secret")
	return u
}
