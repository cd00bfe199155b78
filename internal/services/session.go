// Package services contains the account-level application services of the
// storefront: the single-slot session, profile and password operations, and
// the admin management view.
//
// This file defines the session manager: first-run seeding, restore of the
// persisted session, login/logout and the replay-latest session stream.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/models"
	"github.com/dmitrijs2005/storefront/internal/observable"
	"github.com/dmitrijs2005/storefront/internal/repositories/kv"
	"github.com/dmitrijs2005/storefront/internal/repositories/users"
)

// DefaultSessionKey is the storage key of the persisted session blob.
const DefaultSessionKey = "current_user"

// RestorePolicy decides what RestoreSession does with a persisted session.
type RestorePolicy string

const (
	// RestoreTrust publishes the persisted user as-is.
	RestoreTrust RestorePolicy = "trust"
	// RestoreValidate drops the persisted session when its email is no
	// longer in the store or the account is inactive.
	RestoreValidate RestorePolicy = "validate"
)

// UserFetcher returns the remote user snapshot used for first-run seeding.
type UserFetcher interface {
	FetchUsers(ctx context.Context) ([]models.User, error)
}

// SessionManager owns the "currently authenticated user" slot.
//
// The slot is persisted under its own key of the kv repository and mirrored
// into a replay-latest stream; a nil *models.User means no session.
type SessionManager struct {
	store   *users.Store
	repo    kv.Repository
	fetcher UserFetcher
	logger  logging.Logger

	key    string
	policy RestorePolicy
	probe  func() bool

	current *observable.Subject[*models.User]
}

type SessionOption func(*SessionManager)

func WithSessionKey(key string) SessionOption {
	return func(m *SessionManager) { m.key = key }
}

func WithRestorePolicy(p RestorePolicy) SessionOption {
	return func(m *SessionManager) { m.policy = p }
}

func WithSessionLogger(l logging.Logger) SessionOption {
	return func(m *SessionManager) { m.logger = l }
}

// WithSessionProbe makes the session blob inert while probe reports false,
// matching users.WithProbe.
func WithSessionProbe(probe func() bool) SessionOption {
	return func(m *SessionManager) { m.probe = probe }
}

// NewSessionManager builds a manager in the Uninitialized state: the stream
// holds nil until Initialize or Login publishes.
func NewSessionManager(store *users.Store, repo kv.Repository, fetcher UserFetcher, opts ...SessionOption) *SessionManager {
	m := &SessionManager{
		store:   store,
		repo:    repo,
		fetcher: fetcher,
		logger:  logging.Nop(),
		key:     DefaultSessionKey,
		policy:  RestoreTrust,
		probe:   func() bool { return true },
		current: observable.NewSubject[*models.User](nil),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Initialize seeds the store from the remote snapshot when it is empty and
// then restores the persisted session.
//
// A failed fetch or seed is logged and swallowed; the session is left empty
// and no retry is made. The fetcher is never called when the store already
// holds users. Only storage failures are returned.
func (m *SessionManager) Initialize(ctx context.Context) error {
	has, err := m.store.HasAny(ctx)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	if has {
		return m.RestoreSession(ctx)
	}

	if m.fetcher == nil {
		m.logger.Warn(ctx, "user store is empty and no snapshot source is configured")
		return nil
	}

	list, err := m.fetcher.FetchUsers(ctx)
	if err != nil {
		m.logger.Error(ctx, "failed to load remote users", "error", err)
		return nil
	}
	if err := m.store.Seed(ctx, list); err != nil {
		m.logger.Error(ctx, "failed to seed users", "error", err)
		return nil
	}
	m.logger.Info(ctx, "user store seeded", "count", len(list))

	return m.RestoreSession(ctx)
}

// RestoreSession publishes the persisted session, or nil when there is
// none. A blob that does not decode is treated as no session.
func (m *SessionManager) RestoreSession(ctx context.Context) error {
	u, err := m.readSession(ctx)
	if err != nil {
		return err
	}

	if u != nil && m.policy == RestoreValidate {
		stored, err := m.store.FindByEmail(ctx, u.Email)
		if err != nil {
			return fmt.Errorf("validate session: %w", err)
		}
		if stored == nil || !stored.IsActive() {
			m.logger.Info(ctx, "dropping stale session", "email", u.Email)
			return m.setSession(ctx, nil)
		}
	}

	m.current.Publish(u)
	return nil
}

func (m *SessionManager) readSession(ctx context.Context) (*models.User, error) {
	if !m.probe() {
		return nil, nil
	}
	raw, err := m.repo.Get(ctx, m.key)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var u *models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		m.logger.Warn(ctx, "ignoring unreadable session blob", "error", err)
		return nil, nil
	}
	return u, nil
}

// setSession persists u (or removes the blob when u is nil) and publishes
// it. The stream is updated even if the write fails.
func (m *SessionManager) setSession(ctx context.Context, u *models.User) error {
	var err error
	if m.probe() {
		if u == nil {
			err = m.repo.Delete(ctx, m.key)
		} else {
			var raw []byte
			raw, err = json.Marshal(u)
			if err == nil {
				err = m.repo.Set(ctx, m.key, raw)
			}
		}
	}
	if u != nil {
		c := *u
		u = &c
	}
	m.current.Publish(u)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Login trims both inputs and authenticates against the store. On success
// the user becomes the persisted, published session.
//
// The error is common.ErrInvalidCredentials on a miss and
// common.ErrUnexpected for anything else, including a panic below; the
// cause of the latter is logged, not returned.
func (m *SessionManager) Login(ctx context.Context, email, password string) (user models.User, err error) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error(ctx, "login panic", "panic", fmt.Sprint(r))
			user, err = models.User{}, common.ErrUnexpected
		}
	}()

	u, err := m.store.Authenticate(ctx, common.NormalizeEmail(email), strings.TrimSpace(password))
	if err != nil {
		m.logger.Error(ctx, "login failed", "error", err)
		return models.User{}, common.ErrUnexpected
	}
	if u == nil {
		return models.User{}, common.ErrInvalidCredentials
	}
	if err := m.setSession(ctx, u); err != nil {
		m.logger.Error(ctx, "login failed", "error", err)
		return models.User{}, common.ErrUnexpected
	}
	return *u, nil
}

// Logout clears the persisted session and publishes nil.
func (m *SessionManager) Logout(ctx context.Context) error {
	return m.setSession(ctx, nil)
}

// Current returns a copy of the last published session, or nil.
func (m *SessionManager) Current() *models.User {
	u := m.current.Value()
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// Subscribe registers fn on the session stream. fn receives the current
// value immediately and every later change. The returned func unsubscribes.
func (m *SessionManager) Subscribe(fn func(*models.User)) func() {
	return m.current.Subscribe(fn)
}
