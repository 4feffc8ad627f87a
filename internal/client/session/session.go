// Package session is the single source of truth for "am I signed in, and as
// whom". It reconciles durable storage with in-memory state exactly once at
// process start (Hydrate) and notifies subscribers on every transition.
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"vaultpass/internal/client/models"
	"vaultpass/internal/client/tokenstore"
	"vaultpass/internal/logging"

	"github.com/golang-jwt/jwt/v5"
)

// Status is the tri-state session status. Before Hydrate runs the status is
// StatusUnknown, which UI code must treat as "loading", not as a confirmed
// signed-out state.
type Status int

const (
	StatusUnknown Status = iota
	StatusSignedOut
	StatusSignedIn
)

func (s Status) String() string {
	switch s {
	case StatusSignedOut:
		return "signed out"
	case StatusSignedIn:
		return "signed in"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent copy of the session state.
//
// Invariant: Status == StatusSignedIn iff User is non-nil and Token is
// non-empty. ExpiresAt is advisory only (derived from the token's exp claim
// when one is readable); expiry is enforced by the server, never locally.
type Snapshot struct {
	Status    Status
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

func (s Snapshot) SignedIn() bool {
	return s.Status == StatusSignedIn
}

// Manager owns the session state. It is constructed once at process start
// and passed by reference to every consumer; writes go through SetAuth,
// SetUser, ClearAuth and Hydrate only.
type Manager struct {
	store tokenstore.Store
	log   logging.Logger

	mu       sync.RWMutex
	status   Status
	user     *models.User
	token    string
	hydrated bool
	subs     []func(Snapshot)
}

func NewManager(store tokenstore.Store, log logging.Logger) *Manager {
	return &Manager{
		store:  store,
		log:    log.With("component", "session"),
		status: StatusUnknown,
	}
}

// Subscribe registers fn to be called after every state transition with the
// new snapshot. Callbacks run synchronously on the mutating goroutine and
// must not call back into the Manager.
func (m *Manager) Subscribe(fn func(Snapshot)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	s := Snapshot{Status: m.status, Token: m.token}
	if m.user != nil {
		u := *m.user
		s.User = &u
	}
	if m.token != "" {
		s.ExpiresAt = tokenExpiry(m.token)
	}
	return s
}

// SetAuth transitions to fully authenticated: the token and the user snapshot
// are written through to the store first, then the in-memory state flips and
// subscribers are notified. A failed write leaves the state untouched.
func (m *Manager) SetAuth(ctx context.Context, user *models.User, token string) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := m.store.SaveToken(ctx, token); err != nil {
		return err
	}
	if err := m.store.SaveUser(ctx, data); err != nil {
		return err
	}

	m.mu.Lock()
	m.status = StatusSignedIn
	m.user = user
	m.token = token
	snap, subs := m.snapshotLocked(), m.subs
	m.mu.Unlock()

	m.log.Info(ctx, "session established", "email", user.Email)
	notify(subs, snap)
	return nil
}

// SetUser refreshes the cached profile without touching the credential.
// Only valid while signed in.
func (m *Manager) SetUser(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := m.store.SaveUser(ctx, data); err != nil {
		return err
	}

	m.mu.Lock()
	m.user = user
	snap, subs := m.snapshotLocked(), m.subs
	m.mu.Unlock()

	notify(subs, snap)
	return nil
}

// ClearAuth transitions to fully unauthenticated and wipes the store.
// Idempotent.
func (m *Manager) ClearAuth(ctx context.Context) error {
	if err := m.store.Clear(ctx); err != nil {
		m.log.Error(ctx, "failed to clear token store", "error", err)
	}

	m.mu.Lock()
	m.status = StatusSignedOut
	m.user = nil
	m.token = ""
	snap, subs := m.snapshotLocked(), m.subs
	m.mu.Unlock()

	notify(subs, snap)
	return nil
}

// Hydrate restores the session from the store. It runs at most once per
// process; later calls are no-ops. If the store holds both a token and a
// parseable user snapshot the session becomes signed in. Anything else leaves
// it signed out, and any partial or malformed record (token without user,
// user without token, unparseable user data) is wiped so storage never holds
// half a session. An empty store stays untouched.
func (m *Manager) Hydrate(ctx context.Context) error {
	m.mu.Lock()
	if m.hydrated {
		m.mu.Unlock()
		m.log.Warn(ctx, "hydrate called more than once, ignoring")
		return nil
	}
	m.hydrated = true
	m.mu.Unlock()

	if !m.store.HasToken(ctx) {
		return m.toSignedOut(ctx, len(m.store.User(ctx)) > 0)
	}

	token := m.store.Token(ctx)
	raw := m.store.User(ctx)

	if token == "" || len(raw) == 0 {
		m.log.Warn(ctx, "discarding partial persisted session")
		return m.toSignedOut(ctx, true)
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		m.log.Warn(ctx, "discarding malformed persisted user data", "error", err)
		return m.toSignedOut(ctx, true)
	}

	m.mu.Lock()
	m.status = StatusSignedIn
	m.user = &user
	m.token = token
	snap, subs := m.snapshotLocked(), m.subs
	m.mu.Unlock()

	m.log.Info(ctx, "session restored", "email", user.Email)
	notify(subs, snap)
	return nil
}

// SessionInvalidated implements the gateway's sign-out notifier
// (api.SessionInvalidator). The gateway has already wiped the store; this
// flips the in-memory state and lets subscribers react.
func (m *Manager) SessionInvalidated(ctx context.Context) {
	m.log.Warn(ctx, "session invalidated by gateway")
	_ = m.ClearAuth(ctx)
}

func (m *Manager) toSignedOut(ctx context.Context, wipe bool) error {
	if wipe {
		if err := m.store.Clear(ctx); err != nil {
			m.log.Error(ctx, "failed to clear token store", "error", err)
		}
	}

	m.mu.Lock()
	m.status = StatusSignedOut
	m.user = nil
	m.token = ""
	snap, subs := m.snapshotLocked(), m.subs
	m.mu.Unlock()

	notify(subs, snap)
	return nil
}

func notify(subs []func(Snapshot), snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}

// tokenExpiry reads the exp claim without verifying the signature. The token
// is opaque by contract, so a token that is not a parseable JWT simply has no
// known expiry.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
