package service

import (
	"context"
	"sync"

	"github.com/yndnr/rentdash-go/internal/core/domain"
	"github.com/yndnr/rentdash-go/internal/telemetry/logger"
)

// Fallback messages used when the backend supplies none.
const (
	MsgLoginFailed        = "Error during login"
	MsgRegistrationFailed = "Error during registration"
)

// SessionState is the logical state of the session.
type SessionState int

const (
	// SessionUnknown means an authentication call is in flight, including
	// the initial hydration.
	SessionUnknown SessionState = iota
	// SessionAuthenticated means a user is signed in.
	SessionAuthenticated
	// SessionAnonymous means nobody is signed in.
	SessionAnonymous
)

// String returns the state name.
func (s SessionState) String() string {
	switch s {
	case SessionUnknown:
		return "unknown"
	case SessionAuthenticated:
		return "authenticated"
	case SessionAnonymous:
		return "anonymous"
	default:
		return "invalid"
	}
}

// SessionSnapshot is a point-in-time copy of the session.
type SessionSnapshot struct {
	// User is the signed-in user, nil when anonymous.
	User *domain.User
	// Loading is true while hydration or a login/registration is in flight.
	Loading bool
	// LastError is the message of the last failed login or registration.
	LastError string
}

// State derives the logical state from the snapshot.
func (s SessionSnapshot) State() SessionState {
	switch {
	case s.Loading:
		return SessionUnknown
	case s.User != nil:
		return SessionAuthenticated
	default:
		return SessionAnonymous
	}
}

// GateOption configures a SessionGate.
type GateOption func(*SessionGate)

// WithTransitionHook registers fn to be called with the new state each time
// an operation changes the session. fn runs outside the gate lock.
func WithTransitionHook(fn func(SessionState)) GateOption {
	return func(g *SessionGate) {
		g.onTransition = fn
	}
}

// SessionGate owns the process-wide session state.
//
// A new gate starts in SessionUnknown and stays there until the first
// FetchUser resolves. Network calls run outside the lock; each operation
// takes a sequence number and a response older than the newest applied one
// is discarded.
type SessionGate struct {
	api AuthAPI

	mu      sync.RWMutex
	state   SessionSnapshot
	seq     uint64
	applied uint64

	onTransition func(SessionState)
}

// NewSessionGate creates a gate in the SessionUnknown state.
func NewSessionGate(api AuthAPI, opts ...GateOption) *SessionGate {
	g := &SessionGate{
		api:   api,
		state: SessionSnapshot{Loading: true},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Snapshot returns a copy of the current session.
func (g *SessionGate) Snapshot() SessionSnapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.copyState()
}

// FetchUser resolves the session from the ambient cookie.
//
// It never fails: any error leaves the session anonymous. Repeated calls
// converge on the backend's view of the cookie.
func (g *SessionGate) FetchUser(ctx context.Context) {
	seq := g.begin(false)

	user, err := g.api.Me(ctx)
	if err != nil {
		logger.L(ctx).Debug("session hydration failed", "error", err)
		user = nil
	}

	g.finish(seq, func(s *SessionSnapshot) {
		s.User = user.Clone()
	})
}

// Login signs in with email and password.
//
// On failure the session is anonymous and LastError holds the backend
// message or MsgLoginFailed. The returned error is informational; the
// snapshot is authoritative.
func (g *SessionGate) Login(ctx context.Context, email, password string) error {
	seq := g.begin(true)
	return g.login(ctx, seq, email, password)
}

// Register creates an account and then signs in with the same credentials.
//
// The session becomes authenticated only when the follow-up login
// succeeds. A creation failure aborts before login with LastError set to
// the backend message or MsgRegistrationFailed. A login failure after a
// successful creation fails the whole operation with
// domain.ErrRegisteredNotSignedIn.
func (g *SessionGate) Register(ctx context.Context, name, email, password string) error {
	seq := g.begin(true)

	if _, err := g.api.CreateUser(ctx, domain.UserInput{Name: name, Email: email, Password: password}); err != nil {
		msg := MessageOf(err, MsgRegistrationFailed)
		g.finish(seq, func(s *SessionSnapshot) {
			s.User = nil
			s.LastError = msg
		})
		return domain.ErrRegistrationFailed.WithDetails(msg).WithCause(err)
	}

	if err := g.login(ctx, seq, email, password); err != nil {
		return domain.ErrRegisteredNotSignedIn.WithCause(err)
	}
	return nil
}

// Logout signs out.
//
// The local session is cleared before the backend is called, so the gate
// is anonymous after Logout returns whatever the transport outcome. The
// returned error only reports the backend call.
func (g *SessionGate) Logout(ctx context.Context) error {
	g.mu.Lock()
	g.seq++
	seq := g.seq
	g.applied = seq
	g.state = SessionSnapshot{LastError: g.state.LastError}
	g.mu.Unlock()
	g.notify()

	err := g.api.Logout(ctx)
	if err != nil {
		logger.L(ctx).Debug("logout request failed", "error", err)
	}

	g.finish(seq, func(s *SessionSnapshot) {
		s.User = nil
	})
	return err
}

// ClearError clears LastError.
func (g *SessionGate) ClearError() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state.LastError = ""
}

// ============================================================================
// Internal
// ============================================================================

func (g *SessionGate) login(ctx context.Context, seq uint64, email, password string) error {
	user, err := g.api.Login(ctx, email, password)
	if err != nil {
		msg := MessageOf(err, MsgLoginFailed)
		g.finish(seq, func(s *SessionSnapshot) {
			s.User = nil
			s.LastError = msg
		})
		return domain.ErrLoginFailed.WithDetails(msg).WithCause(err)
	}
	if user == nil {
		g.finish(seq, func(s *SessionSnapshot) {
			s.User = nil
			s.LastError = MsgLoginFailed
		})
		return domain.ErrLoginFailed.WithDetails("empty login response")
	}

	g.finish(seq, func(s *SessionSnapshot) {
		s.User = user.Clone()
		s.LastError = ""
	})
	return nil
}

// begin reserves a sequence number. Interactive operations also raise
// Loading and clear LastError.
func (g *SessionGate) begin(interactive bool) uint64 {
	g.mu.Lock()
	g.seq++
	seq := g.seq
	if interactive {
		next := g.copyState()
		next.Loading = true
		next.LastError = ""
		g.state = next
	}
	g.mu.Unlock()

	if interactive {
		g.notify()
	}
	return seq
}

// finish applies fn to a copy of the state unless a newer operation has
// already been applied. Loading is always cleared.
func (g *SessionGate) finish(seq uint64, fn func(s *SessionSnapshot)) {
	g.mu.Lock()
	next := g.copyState()
	if seq >= g.applied {
		fn(&next)
		g.applied = seq
	}
	next.Loading = false
	g.state = next
	g.mu.Unlock()

	g.notify()
}

func (g *SessionGate) notify() {
	if g.onTransition == nil {
		return
	}
	g.onTransition(g.Snapshot().State())
}

// copyState must be called with g.mu held.
func (g *SessionGate) copyState() SessionSnapshot {
	return SessionSnapshot{
		User:      g.state.User.Clone(),
		Loading:   g.state.Loading,
		LastError: g.state.LastError,
	}
}
