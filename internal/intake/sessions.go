package intake

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wolfman30/coaching-intake/internal/observability/metrics"
	"github.com/wolfman30/coaching-intake/pkg/logging"
)

// SessionOptions configures the registry and every form it creates.
type SessionOptions struct {
	Storage       Storage
	KeyPrefix     string
	Submitter     Submitter
	Hooks         []SubmitHook
	Metrics       *metrics.IntakeMetrics
	Logger        *logging.Logger
	IdleTimeout   time.Duration
	SubmitTimeout time.Duration
	HookTimeout   time.Duration
	Now           func() time.Time
}

// Sessions keeps live forms by session id. A form that is not in memory is
// rebuilt from its draft, which is how a visitor resumes after a reload, a
// restart or a request landing on another instance.
type Sessions struct {
	mu    sync.Mutex
	forms map[string]*Form
	opts  SessionOptions
	hooks sync.WaitGroup
}

// NewSessions builds a registry. Storage and Submitter are required.
func NewSessions(opts SessionOptions) *Sessions {
	if opts.Storage == nil {
		panic("intake: session storage cannot be nil")
	}
	if opts.Submitter == nil {
		panic("intake: submitter cannot be nil")
	}
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = DefaultDraftKey
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 2 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Sessions{forms: make(map[string]*Form), opts: opts}
}

// DraftKey is the storage key holding the draft of session id.
func (s *Sessions) DraftKey(id string) string {
	return fmt.Sprintf("%s:%s", s.opts.KeyPrefix, id)
}

// Create starts a fresh form under a new session id.
func (s *Sessions) Create(ctx context.Context) *Form {
	id := uuid.NewString()
	form := s.newForm(ctx, id)

	s.mu.Lock()
	s.forms[id] = form
	n := len(s.forms)
	s.mu.Unlock()

	s.opts.Metrics.SetActiveSessions(n)
	s.opts.Logger.Info("intake session created", "session_id", id)
	return form
}

// Get returns the live form for id, restoring it from its draft when needed.
func (s *Sessions) Get(ctx context.Context, id string) (*Form, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	s.mu.Lock()
	form, ok := s.forms[id]
	s.mu.Unlock()
	if ok {
		return form, nil
	}

	if _, err := s.opts.Storage.Get(ctx, s.DraftKey(id)); err != nil {
		if !errors.Is(err, ErrStorageMiss) {
			s.opts.Logger.Error("failed to look up draft", "session_id", id, "error", err)
		}
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	restored := s.newForm(ctx, id)
	s.mu.Lock()
	// Another request may have restored it first.
	if existing, ok := s.forms[id]; ok {
		s.mu.Unlock()
		return existing, nil
	}
	s.forms[id] = restored
	n := len(s.forms)
	s.mu.Unlock()

	s.opts.Metrics.SetActiveSessions(n)
	s.opts.Logger.Info("intake session restored from draft", "session_id", id)
	return restored, nil
}

// Evict drops forms idle for longer than the idle timeout. Their drafts stay
// in storage until they expire, so an evicted visitor can still resume.
func (s *Sessions) Evict() int {
	cutoff := s.opts.Now().Add(-s.opts.IdleTimeout)

	s.mu.Lock()
	evicted := 0
	for id, form := range s.forms {
		if form.Submitting() || !form.IdleSince().Before(cutoff) {
			continue
		}
		delete(s.forms, id)
		evicted++
	}
	n := len(s.forms)
	s.mu.Unlock()

	if evicted > 0 {
		s.opts.Metrics.SetActiveSessions(n)
		s.opts.Logger.Debug("evicted idle intake sessions", "count", evicted)
	}
	return evicted
}

// Run evicts idle forms every interval until ctx is done.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Evict()
		}
	}
}

// Wait blocks until the post-submit hooks of every form, evicted or not,
// have returned.
func (s *Sessions) Wait() {
	s.hooks.Wait()
}

// Len reports how many forms are live in memory.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.forms)
}

func (s *Sessions) newForm(ctx context.Context, id string) *Form {
	logger := s.opts.Logger
	return NewForm(ctx, FormOptions{
		ID:            id,
		Drafts:        NewDraftStore(s.opts.Storage, s.DraftKey(id), logger),
		Submitter:     s.opts.Submitter,
		Hooks:         s.opts.Hooks,
		Metrics:       s.opts.Metrics,
		Logger:        logger,
		SubmitTimeout: s.opts.SubmitTimeout,
		HookTimeout:   s.opts.HookTimeout,
		Background:    &s.hooks,
		Now:           s.opts.Now,
	})
}
