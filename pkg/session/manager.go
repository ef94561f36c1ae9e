package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dcastellanos/gestion_distribuidora/pkg/authclient"
	"github.com/dcastellanos/gestion_distribuidora/pkg/identity"
)

// State is a snapshot of the session. IsAuthenticated implies a non-nil User
// and an unexpired token at the time the snapshot was taken.
type State struct {
	User            *identity.User
	IsAuthenticated bool
	Loading         bool
}

// LoginResult is the outcome handed back to the login form: either Success
// with the user, or a human-readable Error. Login never returns a Go error.
type LoginResult struct {
	Success bool
	User    *identity.User
	Error   string
}

// Manager owns the in-memory session state for one operator. It is created
// by the application root and injected into the guard and the views; state
// changes are fanned out to subscribers.
type Manager struct {
	client *authclient.Client
	log    *slog.Logger

	mu           sync.Mutex
	state        State
	bootstrapped bool
	subs         map[int]func(State)
	nextSub      int
}

func NewManager(client *authclient.Client, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		client: client,
		log:    log,
		// Loading until Bootstrap has decided the initial state, so the
		// guard never redirects before persisted data was checked.
		state: State{Loading: true},
		subs:  map[int]func(State){},
	}
}

// State returns the current snapshot.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers fn to be called with every state change and returns an
// unsubscribe func.
func (m *Manager) Subscribe(fn func(State)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *Manager) set(user *identity.User, authenticated, loading bool) {
	m.mu.Lock()
	m.state = State{User: user, IsAuthenticated: authenticated, Loading: loading}
	st := m.state
	subs := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()
	for _, fn := range subs {
		fn(st)
	}
}

// Bootstrap decides the initial session state from persisted data, once.
// A cached user plus a valid token is re-validated against the backend; any
// failure or stale artifact clears the session silently (soft expiry) — the
// operator just lands on the login page with no error.
func (m *Manager) Bootstrap(ctx context.Context) {
	m.mu.Lock()
	if m.bootstrapped {
		m.mu.Unlock()
		return
	}
	m.bootstrapped = true
	m.mu.Unlock()

	m.set(nil, false, true)

	cached := m.client.CachedUser()
	if cached == nil || !m.client.TokenValid() {
		if m.client.Token() != "" || cached != nil {
			m.log.Info("clearing stale session artifacts")
			m.client.ClearSession()
		}
		m.set(nil, false, false)
		return
	}

	user, err := m.client.CurrentUser(ctx)
	if err != nil {
		m.log.Info("session rejected by server, clearing", "error", err)
		m.client.ClearSession()
		m.set(nil, false, false)
		return
	}
	if err := m.client.SaveUser(user); err != nil {
		m.log.Warn("cannot persist user record", "error", err)
	}
	m.set(user, true, false)
}

// Login authenticates against the backend and re-fetches the profile. All
// failures come back as a result value, never as an error or panic.
func (m *Manager) Login(ctx context.Context, creds identity.Credentials) LoginResult {
	m.set(nil, false, true)

	if _, err := m.client.Login(ctx, creds); err != nil {
		m.set(nil, false, false)
		return LoginResult{Error: loginError(err)}
	}

	user, err := m.client.CurrentUser(ctx)
	if err != nil {
		m.client.ClearSession()
		m.set(nil, false, false)
		return LoginResult{Error: loginError(err)}
	}
	if err := m.client.SaveUser(user); err != nil {
		m.log.Warn("cannot persist user record", "error", err)
	}
	m.set(user, true, false)
	return LoginResult{Success: true, User: user}
}

// Logout clears the session locally no matter what the server said.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.client.Logout(ctx); err != nil {
		m.log.Warn("server logout failed, session cleared locally", "error", err)
	}
	m.set(nil, false, false)
}

// HasRole reports whether the current user's role is one of roles. False
// when no user is loaded.
func (m *Manager) HasRole(roles ...string) bool {
	m.mu.Lock()
	user := m.state.User
	m.mu.Unlock()
	return user.HasRole(roles...)
}

func (m *Manager) IsGerente() bool      { return m.HasRole(identity.RoleGerente) }
func (m *Manager) IsVendedor() bool     { return m.HasRole(identity.RoleVendedor) }
func (m *Manager) IsDistribuidor() bool { return m.HasRole(identity.RoleDistribuidor) }

func loginError(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
