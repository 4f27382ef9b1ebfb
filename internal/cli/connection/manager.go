package connection

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/yndnr/rentdash-go/internal/telemetry/metric"
)

// Connection describes the backend a Manager talks to.
type Connection struct {
	// BaseURL is the API root, e.g. http://localhost:3000/api.
	BaseURL string
	// Timeout is the per-request timeout.
	Timeout time.Duration
	// RateLimit caps requests per second; zero disables limiting.
	RateLimit float64
	// UserAgent overrides the User-Agent header.
	UserAgent string
	// SessionDir holds the persisted session jar.
	SessionDir string
	// Persist keeps the session cookie between invocations.
	Persist bool
}

// Validate checks the connection settings.
func (c *Connection) Validate() error {
	if c.BaseURL == "" {
		return errors.New("backend url is required")
	}
	u, err := url.Parse(NormalizeBaseURL(c.BaseURL))
	if err != nil {
		return fmt.Errorf("invalid backend url: %w", err)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid backend url %q: missing host", c.BaseURL)
	}
	if c.Persist && c.SessionDir == "" {
		return errors.New("session dir is required when persisting sessions")
	}
	return nil
}

// Manager owns the transport for one backend: client, cookie jar and the
// persisted session.
type Manager struct {
	current *Connection
	metrics *metric.Registry

	client  *HTTPClient
	jar     *Jar
	session *SessionFile
	api     *API
}

// NewManager creates a connection manager. metrics may be nil.
func NewManager(metrics *metric.Registry) *Manager {
	return &Manager{metrics: metrics}
}

// Connect builds the transport for conn and restores a persisted session.
// It does not contact the backend.
func (m *Manager) Connect(ctx context.Context, conn *Connection) error {
	if err := conn.Validate(); err != nil {
		return err
	}
	if m.IsConnected() {
		if err := m.Disconnect(ctx); err != nil {
			return err
		}
	}

	jar, err := NewJar()
	if err != nil {
		return fmt.Errorf("create cookie jar: %w", err)
	}

	opts := []Option{
		WithTimeout(conn.Timeout),
		WithRateLimit(conn.RateLimit),
		WithCookieJar(jar),
		WithUserAgent(conn.UserAgent),
	}
	if m.metrics != nil {
		opts = append(opts, WithMetrics(m.metrics))
	}
	client := NewHTTPClient(conn.BaseURL, opts...)

	var session *SessionFile
	if conn.Persist {
		session = NewSessionFile(conn.SessionDir, client.BaseURL())
		if err := session.Load(ctx, jar); err != nil {
			return err
		}
	}

	m.current = conn
	m.client = client
	m.jar = jar
	m.session = session
	m.api = NewAPI(client, jar)
	return nil
}

// Disconnect saves the session if it changed and drops the transport.
func (m *Manager) Disconnect(ctx context.Context) error {
	var err error
	if err = m.Flush(ctx); err != nil {
		err = fmt.Errorf("save session: %w", err)
	}

	m.current = nil
	m.client = nil
	m.jar = nil
	m.session = nil
	m.api = nil
	return err
}

// Flush writes the session jar if persistence is on and it changed.
func (m *Manager) Flush(ctx context.Context) error {
	if m.session == nil || m.jar == nil || !m.jar.Dirty() {
		return nil
	}
	return m.session.Save(ctx, m.jar)
}

// Current returns the current connection.
func (m *Manager) Current() *Connection {
	return m.current
}

// IsConnected returns true if a transport is set up.
func (m *Manager) IsConnected() bool {
	return m.current != nil
}

// API returns the typed backend API, nil when not connected.
func (m *Manager) API() *API {
	return m.api
}

// Client returns the HTTP client, nil when not connected.
func (m *Manager) Client() *HTTPClient {
	return m.client
}

// HasSession reports whether the jar holds any cookie.
func (m *Manager) HasSession() bool {
	return m.jar != nil && m.jar.Len() > 0
}
