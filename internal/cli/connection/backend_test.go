package connection

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/rentdash-go/internal/core/domain"
)

const sessionCookie = "rd_session"

// fakeBackend is a minimal in-memory RentDash backend.
type fakeBackend struct {
	mu       sync.Mutex
	users    map[int64]domain.User
	password map[string]string
	sessions map[string]int64
	nextID   int64

	lastBody   map[string]any
	lastHeader http.Header
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

func (b *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastHeader = r.Header.Clone()
	b.lastBody = nil
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&b.lastBody)
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/auth/login":
		email, _ := b.lastBody["email"].(string)
		pass, _ := b.lastBody["password"].(string)
		want, ok := b.password[email]
		if !ok || want != pass {
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
		c, err := r.Cookie(sessionCookie)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Not authenticated"})
			return
		}
		id, ok := b.sessions[c.Value]
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Session expired"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": b.users[id]})

	case r.Method == http.MethodPost && r.URL.Path == "/users":
		name, _ := b.lastBody["name"].(string)
		email, _ := b.lastBody["email"].(string)
		pass, _ := b.lastBody["password"].(string)
		if _, exists := b.password[email]; exists {
			writeJSON(w, http.StatusConflict, map[string]any{"message": "Email already in use"})
			return
		}
		u := b.addUserLocked(name, email, pass)
		writeJSON(w, http.StatusCreated, map[string]any{"data": u})

	case r.Method == http.MethodGet && r.URL.Path == "/users":
		list := make([]domain.User, 0, len(b.users))
		for id := int64(1); id < b.nextID; id++ {
			if u, ok := b.users[id]; ok {
				list = append(list, u)
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": list})

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
			if v, ok := b.lastBody["name"].(string); ok {
				u.Name = v
			}
			if v, ok := b.lastBody["email"].(string); ok {
				u.Email = v
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

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestAPI(t *testing.T, srv *httptest.Server) (*API, *Jar) {
	t.Helper()
	jar, err := NewJar()
	if err != nil {
		t.Fatalf("NewJar: %v", err)
	}
	client := NewHTTPClient(srv.URL+"/api", WithCookieJar(jar), WithRateLimit(0))
	return NewAPI(client, jar), jar
}
