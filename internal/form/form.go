// Package form implements the activity draft: selection sync, field edits,
// validation and submit/reset against a store.
package form

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/labj86/calorie-tracker/internal/domain"
	"github.com/labj86/calorie-tracker/internal/logger"
	"github.com/labj86/calorie-tracker/internal/observability"
	"github.com/labj86/calorie-tracker/internal/store"
)

var (
	// ErrInvalidDraft is returned by Submit when the draft fails validation.
	ErrInvalidDraft = errors.New("activity draft is not valid")
	// ErrStaleSelection reports an active selection with no matching activity.
	ErrStaleSelection = errors.New("selected activity not found")
	// ErrUnknownField is returned by Edit for unrecognised field ids.
	ErrUnknownField = errors.New("unknown form field")
	// ErrUnknownCategory is returned when a category edit does not name a registry entry.
	ErrUnknownCategory = errors.New("unknown category")
)

// Store is the capability the form needs from the state container.
type Store interface {
	Snapshot() store.State
	Dispatch(ctx context.Context, action store.Action) error
	WatchActiveID(fn func(store.State)) (cancel func())
}

// Option configures optional behaviour for the Form.
type Option func(*Form)

// WithIDGenerator overrides the UUID generator used for new drafts.
func WithIDGenerator(gen func() string) Option {
	return func(f *Form) {
		f.newID = gen
	}
}

// WithLogger overrides the logger used to report stale selections.
func WithLogger(l *logger.Logger) Option {
	return func(f *Form) {
		f.logger = l
	}
}

// Form owns a single activity draft bound to a Store.
type Form struct {
	store  Store
	newID  func() string
	logger *logger.Logger
	cancel func()

	// opMu serializes Edit and Submit; mu guards the draft and is the only
	// lock taken by the selection watcher.
	opMu    sync.Mutex
	mu      sync.Mutex
	draft   domain.Activity
	syncErr error
	gen     uint64
}

// New builds a Form with a blank draft, then runs the selection sync once
// against the current snapshot and keeps watching the store.
func New(s Store, opts ...Option) *Form {
	f := &Form{
		store:  s,
		newID:  uuid.NewString,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = f.blank()
	f.cancel = s.WatchActiveID(f.sync)
	f.syncLocked(s.Snapshot())
	return f
}

// Close stops watching the store.
func (f *Form) Close() {
	if f.cancel != nil {
		f.cancel()
	}
}

func (f *Form) blank() domain.Activity {
	return domain.Activity{
		ID:       f.newID(),
		Category: domain.CategoryFood,
		Name:     "",
		Calories: 0,
	}
}

func (f *Form) sync(state store.State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.syncLocked(state)
}

func (f *Form) syncLocked(state store.State) {
	if state.ActiveID == "" {
		return
	}
	activity, ok := state.Find(state.ActiveID)
	if !ok {
		f.syncErr = fmt.Errorf("%w: %s", ErrStaleSelection, state.ActiveID)
		f.logger.Warn("active selection does not resolve, keeping draft", "active_id", state.ActiveID, "draft_id", f.draft.ID)
		observability.RecordSync(false)
		return
	}
	f.draft = activity
	f.syncErr = nil
	f.gen++
	observability.RecordSync(true)
}

// Draft returns the current draft.
func (f *Form) Draft() domain.Activity {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// SyncErr returns ErrStaleSelection (wrapped) when the last selection could not be resolved.
func (f *Form) SyncErr() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.syncErr
}

// Valid reports whether the current draft can be submitted.
func (f *Form) Valid() bool {
	return Valid(f.Draft())
}

// SubmitLabel is the caption for the submit control.
func (f *Form) SubmitLabel() string {
	return SubmitLabel(f.Draft())
}

// Edit coerces raw for field and replaces that field in the draft.
func (f *Form) Edit(field Field, raw string) (domain.Activity, error) {
	edit, ok := fieldEditors[field]
	if !ok {
		observability.RecordRejection("unknown_field")
		return f.Draft(), fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	f.opMu.Lock()
	defer f.opMu.Unlock()
	f.mu.Lock()
	defer f.mu.Unlock()

	next, err := edit(f.draft, raw)
	if err != nil {
		observability.RecordRejection("invalid_" + string(field))
		return f.draft, fmt.Errorf("%w: %q", err, raw)
	}
	f.draft = next
	observability.RecordEdit(string(field))
	return next, nil
}

// Submit forwards a valid draft to the store as SaveActivity and starts a fresh
// blank draft with a new id. An invalid draft is rejected with ErrInvalidDraft;
// a dispatch failure keeps the draft.
func (f *Form) Submit(ctx context.Context) (domain.Activity, error) {
	f.opMu.Lock()
	defer f.opMu.Unlock()

	f.mu.Lock()
	payload := f.draft
	gen := f.gen
	f.mu.Unlock()

	if !Valid(payload) {
		observability.RecordRejection("invalid_draft")
		return payload, ErrInvalidDraft
	}

	if err := f.store.Dispatch(ctx, store.SaveActivity{Activity: payload}); err != nil {
		observability.RecordRejection("dispatch_failed")
		return payload, err
	}

	f.mu.Lock()
	// A selection that landed while dispatching wins over the reset.
	if f.gen == gen {
		f.draft = f.blank()
		f.syncErr = nil
	}
	f.mu.Unlock()

	observability.RecordSubmission(time.Now())
	return payload, nil
}
