// Package session keeps one store and form per owner, backed by a repository.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/labj86/calorie-tracker/internal/domain"
	"github.com/labj86/calorie-tracker/internal/form"
	"github.com/labj86/calorie-tracker/internal/logger"
	"github.com/labj86/calorie-tracker/internal/observability"
	"github.com/labj86/calorie-tracker/internal/store"
)

// Session is an owner's tracker state plus the form bound to it.
type Session struct {
	Owner domain.Owner
	Store *store.Store
	Form  *form.Form
}

// Option configures optional behaviour for the Manager.
type Option func(*Manager)

// WithFormOptions passes options to every form the manager builds.
func WithFormOptions(opts ...form.Option) Option {
	return func(m *Manager) {
		m.formOpts = append(m.formOpts, opts...)
	}
}

// Manager lazily creates sessions. Safe for concurrent use.
type Manager struct {
	repo     domain.Repository
	logger   *logger.Logger
	formOpts []form.Option

	mu       sync.Mutex
	sessions map[domain.Owner]*Session
}

// NewManager constructs a Manager.
func NewManager(repo domain.Repository, log *logger.Logger, opts ...Option) *Manager {
	m := &Manager{
		repo:     repo,
		logger:   log,
		sessions: make(map[domain.Owner]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the owner's session, loading saved activities on first use.
func (m *Manager) Get(ctx context.Context, owner domain.Owner) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[owner]; ok {
		return s, nil
	}

	activities, err := m.repo.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("load activities for %s: %w", owner, err)
	}

	log := m.logger.With("tenant_id", owner.TenantID, "user_id", owner.UserID)
	st := store.New(store.State{Activities: activities}, store.WithHooks(persistHook(m.repo, owner)))
	opts := append([]form.Option{form.WithLogger(log)}, m.formOpts...)

	s := &Session{Owner: owner, Store: st, Form: form.New(st, opts...)}
	m.sessions[owner] = s
	observability.SetActiveSessions(len(m.sessions))
	log.Debug("session created", "activities", len(activities))
	return s, nil
}

// Close detaches every form from its store and drops the sessions.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for owner, s := range m.sessions {
		s.Form.Close()
		delete(m.sessions, owner)
	}
	observability.SetActiveSessions(0)
}

// persistHook writes every state-changing action through to the repository.
func persistHook(repo domain.Repository, owner domain.Owner) store.Hook {
	return store.HookFunc(func(ctx context.Context, action store.Action, _ store.State) error {
		switch a := action.(type) {
		case store.SaveActivity:
			return repo.Save(ctx, owner, a.Activity)
		case store.DeleteActivity:
			return repo.Delete(ctx, owner, a.ID)
		case store.RestartApp:
			return repo.Clear(ctx, owner)
		}
		return nil
	})
}
