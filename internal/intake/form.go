package intake

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wolfman30/coaching-intake/internal/observability/metrics"
	"github.com/wolfman30/coaching-intake/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var formTracer = otel.Tracer("coaching.internal.intake.form")

// Submitter delivers a completed record to its destination.
type Submitter interface {
	Submit(ctx context.Context, rec Record) error
}

// Submission is a record that was accepted by the Submitter.
type Submission struct {
	SessionID   string
	Record      Record
	SubmittedAt time.Time
}

// SubmitHook runs after a successful submission. Errors are logged only.
type SubmitHook func(ctx context.Context, sub Submission) error

// DefaultHookTimeout bounds the post-submit hooks of one submission.
const DefaultHookTimeout = 30 * time.Second

// Transition reports the outcome of a navigation call.
type Transition struct {
	From        int      `json:"from"`
	To          int      `json:"to"`
	Advanced    bool     `json:"advanced"`
	ScrollToTop bool     `json:"scroll_to_top"`
	Errors      ErrorMap `json:"errors,omitempty"`
	Submitted   bool     `json:"submitted"`
	SubmitError string   `json:"submit_error,omitempty"`
}

// FormOptions wires a Form's collaborators. Submitter is required.
type FormOptions struct {
	ID            string
	Validator     *Validator
	Drafts        *DraftStore
	Submitter     Submitter
	Hooks         []SubmitHook
	Metrics       *metrics.IntakeMetrics
	Logger        *logging.Logger
	SubmitTimeout time.Duration
	HookTimeout   time.Duration
	// Background tracks post-submit hooks so the owner can wait for them.
	// A nil group gets a private one.
	Background    *sync.WaitGroup
	Now           func() time.Time
}

// Form is the page state machine for one visitor. All transitions are
// serialized; the submitter runs without the lock held while the submitting
// flag rejects every other transition.
type Form struct {
	mu            sync.Mutex
	id            string
	validator     *Validator
	drafts        *DraftStore
	submitter     Submitter
	hooks         []SubmitHook
	metrics       *metrics.IntakeMetrics
	logger        *logging.Logger
	submitTimeout time.Duration
	hookTimeout   time.Duration
	background    *sync.WaitGroup
	now           func() time.Time

	page        int
	record      Record
	errors      ErrorMap
	showSummary bool
	submitError string
	submitting  bool
	dirty       bool
	submitted   *Submission
	lastActive  time.Time
}

// NewForm starts a form on page 1 with the stored draft, or the defaults when
// there is none.
func NewForm(ctx context.Context, opts FormOptions) *Form {
	if opts.Submitter == nil {
		panic("intake: submitter cannot be nil")
	}
	if opts.Validator == nil {
		opts.Validator = defaultValidator
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	if opts.Drafts == nil {
		opts.Drafts = NewDraftStore(NewMemoryStorage(), DefaultDraftKey, opts.Logger)
	}
	if opts.SubmitTimeout <= 0 {
		opts.SubmitTimeout = 15 * time.Second
	}
	if opts.HookTimeout <= 0 {
		opts.HookTimeout = DefaultHookTimeout
	}
	if opts.Background == nil {
		opts.Background = &sync.WaitGroup{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	f := &Form{
		id:            opts.ID,
		validator:     opts.Validator,
		drafts:        opts.Drafts,
		submitter:     opts.Submitter,
		hooks:         opts.Hooks,
		metrics:       opts.Metrics,
		logger:        opts.Logger.With("session_id", opts.ID),
		submitTimeout: opts.SubmitTimeout,
		hookTimeout:   opts.HookTimeout,
		background:    opts.Background,
		now:           opts.Now,
		page:          1,
		record:        Defaults(),
		errors:        ErrorMap{},
	}
	if rec, ok := f.drafts.Load(ctx); ok {
		f.record = rec
		f.logger.Debug("draft restored")
	}
	f.lastActive = f.now()
	return f
}

// ID returns the session id the form was created for.
func (f *Form) ID() string {
	return f.id
}

// Page returns the current page.
func (f *Form) Page() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.page
}

// Record returns a copy of the current answers.
func (f *Form) Record() Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record.Clone()
}

// Errors returns a copy of the current error map.
func (f *Form) Errors() ErrorMap {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyErrors(f.errors)
}

// IdleSince reports the last time a transition touched the form.
func (f *Form) IdleSince() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastActive
}

// Submitting reports whether a submission is in flight.
func (f *Form) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// UpdateField stores value under name, clears that field's error without
// re-validating and saves the draft.
func (f *Form) UpdateField(ctx context.Context, name string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.submitting {
		return ErrSubmissionInFlight
	}
	field, ok := f.validator.schema.Field(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	if err := field.Assign(&f.record, value); err != nil {
		return err
	}
	delete(f.errors, name)
	f.dirty = true
	f.touch()
	f.drafts.Save(ctx, f.record)
	f.metrics.ObserveFieldUpdate(field.Page)
	return nil
}

// BlurField validates one field against the current record and sets or
// clears its error entry. It returns the message, "" when valid.
func (f *Form) BlurField(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	field, ok := f.validator.schema.Field(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	msg, err := f.validator.ValidateField(name, field.Value(&f.record), f.record)
	if err != nil {
		return "", err
	}
	if msg == "" {
		delete(f.errors, name)
	} else {
		f.errors[name] = msg
	}
	f.touch()
	return msg, nil
}

// Advance moves forward when the current page validates. On page 4 it
// submits the record and moves to the confirmation page on success. A
// failed page validation or submission leaves the page unchanged.
func (f *Form) Advance(ctx context.Context) (Transition, error) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return Transition{}, ErrSubmissionInFlight
	}
	f.touch()
	from := f.page
	if from == ConfirmationPage {
		f.mu.Unlock()
		return Transition{From: from, To: from}, nil
	}

	if errs := f.validator.ValidatePage(from, f.record); len(errs) > 0 {
		f.errors = errs
		f.showSummary = true
		f.mu.Unlock()
		f.metrics.ObserveAdvance(from, metrics.OutcomeBlocked)
		return Transition{From: from, To: from, Errors: copyErrors(errs)}, nil
	}

	if from < EntryPages {
		f.page++
		f.errors = ErrorMap{}
		f.showSummary = false
		f.mu.Unlock()
		f.metrics.ObserveAdvance(from, metrics.OutcomeAdvanced)
		return Transition{From: from, To: from + 1, Advanced: true, ScrollToTop: true}, nil
	}

	f.submitting = true
	f.errors = ErrorMap{}
	f.showSummary = false
	rec := f.record.Clone()
	f.mu.Unlock()

	return f.submit(ctx, rec), nil
}

func (f *Form) submit(ctx context.Context, rec Record) Transition {
	// The submission runs to completion even if the caller goes away.
	submitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.submitTimeout)
	defer cancel()
	submitCtx, span := formTracer.Start(submitCtx, "intake.form.submit")
	defer span.End()
	span.SetAttributes(attribute.String("intake.session_id", f.id))

	start := f.now()
	err := f.submitter.Submit(submitCtx, rec)
	elapsed := f.now().Sub(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission failed")
	}

	f.mu.Lock()
	f.submitting = false
	f.touch()
	if err != nil {
		f.submitError = err.Error()
		f.mu.Unlock()
		f.metrics.ObserveAdvance(EntryPages, metrics.OutcomeSubmitFailed)
		f.metrics.ObserveSubmission(metrics.StatusFailed, elapsed.Seconds())
		f.logger.Warn("submission failed", "error", err, "duration_ms", elapsed.Milliseconds())
		return Transition{From: EntryPages, To: EntryPages, SubmitError: err.Error()}
	}
	sub := Submission{SessionID: f.id, Record: rec, SubmittedAt: start.UTC()}
	f.page = ConfirmationPage
	f.submitError = ""
	f.submitted = &sub
	hooks := f.hooks
	f.mu.Unlock()

	f.metrics.ObserveAdvance(EntryPages, metrics.OutcomeSubmitted)
	f.metrics.ObserveSubmission(metrics.StatusSucceeded, elapsed.Seconds())
	f.logger.Info("submission accepted", "duration_ms", elapsed.Milliseconds())

	if len(hooks) > 0 {
		f.background.Add(1)
		go f.runHooks(context.WithoutCancel(ctx), hooks, sub)
	}
	return Transition{From: EntryPages, To: ConfirmationPage, Advanced: true, ScrollToTop: true, Submitted: true}
}

// runHooks runs hooks in order on a budget of their own, separate from the
// one the submission used.
func (f *Form) runHooks(ctx context.Context, hooks []SubmitHook, sub Submission) {
	defer f.background.Done()
	ctx, cancel := context.WithTimeout(ctx, f.hookTimeout)
	defer cancel()
	for _, hook := range hooks {
		if err := hook(ctx, sub); err != nil {
			f.logger.Error("post-submit hook failed", "error", err)
		}
	}
}

// WaitHooks blocks until post-submit hooks started so far have returned.
func (f *Form) WaitHooks() {
	f.background.Wait()
}

// Back returns to the previous entry page. It is a no-op on page 1 and on
// the confirmation page.
func (f *Form) Back() (Transition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.submitting {
		return Transition{}, ErrSubmissionInFlight
	}
	f.touch()
	from := f.page
	if from <= 1 || from > EntryPages {
		return Transition{From: from, To: from}, nil
	}
	f.page--
	f.errors = ErrorMap{}
	f.showSummary = false
	return Transition{From: from, To: f.page, ScrollToTop: true}, nil
}

// ReturnToForm leaves the confirmation page for page 1, keeping the answers.
func (f *Form) ReturnToForm() (Transition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.submitting {
		return Transition{}, ErrSubmissionInFlight
	}
	f.touch()
	from := f.page
	if from != ConfirmationPage {
		return Transition{From: from, To: from}, nil
	}
	f.page = 1
	f.submitError = ""
	f.errors = ErrorMap{}
	f.showSummary = false
	return Transition{From: from, To: 1, ScrollToTop: true}, nil
}

// Clear resets the answers to the defaults, removes the draft and returns to
// page 1. It refuses to run unless confirmed is true.
func (f *Form) Clear(ctx context.Context, confirmed bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.submitting {
		return ErrSubmissionInFlight
	}
	if !confirmed {
		return ErrClearNotConfirmed
	}
	f.record = Defaults()
	f.errors = ErrorMap{}
	f.showSummary = false
	f.submitError = ""
	f.submitted = nil
	f.dirty = false
	f.page = 1
	f.touch()
	f.drafts.Clear(ctx)
	f.logger.Info("form cleared")
	return nil
}

func (f *Form) touch() {
	f.lastActive = f.now()
}

func copyErrors(in ErrorMap) ErrorMap {
	out := make(ErrorMap, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
