package intake

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/coaching-intake/internal/observability/metrics"
	"github.com/wolfman30/coaching-intake/pkg/logging"
)

var testNow = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

type formFixture struct {
	form    *Form
	storage *MemoryStorage
	drafts  *DraftStore
}

func newFormFixture(t *testing.T, sub Submitter, draft *Record, hooks ...SubmitHook) formFixture {
	t.Helper()
	ctx := context.Background()
	mem := NewMemoryStorage()
	drafts := NewDraftStore(mem, "draft:test", logging.New("error"))
	if draft != nil {
		drafts.Save(ctx, *draft)
	}
	form := NewForm(ctx, FormOptions{
		ID:        "test",
		Drafts:    drafts,
		Submitter: sub,
		Hooks:     hooks,
		Logger:    logging.New("error"),
		Now:       func() time.Time { return testNow },
	})
	return formFixture{form: form, storage: mem, drafts: drafts}
}

func advanceTo(t *testing.T, form *Form, page int) {
	t.Helper()
	for form.Page() < page {
		tr, err := form.Advance(context.Background())
		require.NoError(t, err)
		require.True(t, tr.Advanced, "blocked on page %d: %v", tr.From, tr.Errors)
	}
}

func TestNewFormStartsOnFirstPage(t *testing.T) {
	fx := newFormFixture(t, &stubSubmitter{}, nil)

	assert.Equal(t, 1, fx.form.Page())
	assert.Equal(t, Defaults(), fx.form.Record())
	assert.Empty(t, fx.form.Errors())
	assert.Zero(t, fx.storage.Len(), "untouched form must not persist a draft")
}

func TestNewFormRestoresDraft(t *testing.T) {
	rec := validRecord()
	fx := newFormFixture(t, &stubSubmitter{}, &rec)

	assert.Equal(t, 1, fx.form.Page())
	assert.Equal(t, rec, fx.form.Record())
}

func TestShortNameBlocksFirstPage(t *testing.T) {
	ctx := context.Background()
	fx := newFormFixture(t, &stubSubmitter{}, nil)
	require.NoError(t, fx.form.UpdateField(ctx, "fullName", "J"))

	tr, err := fx.form.Advance(ctx)
	require.NoError(t, err)

	assert.False(t, tr.Advanced)
	assert.Equal(t, 1, tr.To)
	assert.Equal(t, 1, fx.form.Page())
	assert.Contains(t, fx.form.Errors()["fullName"], "at least 2 characters")
	assert.True(t, fx.form.View().ShowErrorSummary)
}

func TestValidFirstPageAdvances(t *testing.T) {
	ctx := context.Background()
	fx := newFormFixture(t, &stubSubmitter{}, nil)
	answers := map[string]any{
		"fullName":          "John Smith",
		"email":             "john@example.com",
		"age":               json.Number("28"),
		"height":            `5'10"`,
		"currentWeight":     "180 lbs",
		"timeZone":          "EST",
		"mainGoal":          "Lose weight and build muscle",
		"goalMotivation":    "I want to keep up with my kids",
		"triedBefore":       "yes",
		"whatHeldYouBack":   "Busy work schedule",
		"feeling3to6Months": "Frustrated and tired",
		"commitmentLevel":   "7",
	}
	for name, value := range answers {
		require.NoError(t, fx.form.UpdateField(ctx, name, value), name)
	}

	tr, err := fx.form.Advance(ctx)
	require.NoError(t, err)

	assert.True(t, tr.Advanced)
	assert.True(t, tr.ScrollToTop)
	assert.Equal(t, 2, fx.form.Page())
	assert.Empty(t, fx.form.Errors())
}

func TestSubmissionFailureStaysOnLastPage(t *testing.T) {
	ctx := context.Background()
	rec := validRecord()
	sub := &stubSubmitter{err: errEndpointDown}
	fx := newFormFixture(t, sub, &rec)
	advanceTo(t, fx.form, EntryPages)

	tr, err := fx.form.Advance(ctx)
	require.NoError(t, err)

	assert.False(t, tr.Advanced)
	assert.Equal(t, errEndpointDown.Error(), tr.SubmitError)
	assert.Equal(t, EntryPages, fx.form.Page())
	assert.Equal(t, rec, fx.form.Record())

	view := fx.form.View()
	assert.Equal(t, errEndpointDown.Error(), view.SubmitError)
	assert.False(t, view.NextDisabled)
	assert.Equal(t, "Submit", view.NextLabel)

	// A retry that succeeds clears the submission error.
	sub.err = nil
	tr, err = fx.form.Advance(ctx)
	require.NoError(t, err)
	assert.True(t, tr.Submitted)
	assert.Equal(t, 2, sub.calls())
}

func TestSuccessfulSubmissionShowsConfirmation(t *testing.T) {
	ctx := context.Background()
	rec := validRecord()
	sub := &stubSubmitter{}
	fx := newFormFixture(t, sub, &rec)
	advanceTo(t, fx.form, EntryPages)

	tr, err := fx.form.Advance(ctx)
	require.NoError(t, err)

	assert.True(t, tr.Submitted)
	assert.Equal(t, ConfirmationPage, tr.To)
	assert.Equal(t, ConfirmationPage, fx.form.Page())
	require.Len(t, sub.records, 1)
	assert.Equal(t, rec, sub.records[0])

	view := fx.form.View()
	require.NotNil(t, view.Confirmation)
	assert.Equal(t, Confirmation{FullName: "John Smith", Email: "john@example.com", MainGoal: rec.MainGoal}, *view.Confirmation)
	assert.Empty(t, view.Sections)
	assert.Empty(t, view.Step)
}

func TestClearWithConfirmationResetsEverything(t *testing.T) {
	ctx := context.Background()
	rec := validRecord()
	fx := newFormFixture(t, &stubSubmitter{}, &rec)
	advanceTo(t, fx.form, 3)
	require.NoError(t, fx.form.UpdateField(ctx, "medicalConditions", "x"))
	_, err := fx.form.Advance(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, fx.form.Errors())

	assert.ErrorIs(t, fx.form.Clear(ctx, false), ErrClearNotConfirmed)
	assert.Equal(t, 3, fx.form.Page())

	require.NoError(t, fx.form.Clear(ctx, true))
	assert.Equal(t, Defaults(), fx.form.Record())
	assert.Empty(t, fx.form.Errors())
	assert.Equal(t, 1, fx.form.Page())
	_, ok := fx.drafts.Load(ctx)
	assert.False(t, ok)
	assert.False(t, fx.form.View().DraftInProgress)
}

func TestBlockedAdvanceIsIdempotent(t *testing.T) {
	ctx := context.Background()
	fx := newFormFixture(t, &stubSubmitter{}, nil)

	first, err := fx.form.Advance(ctx)
	require.NoError(t, err)
	firstErrs := fx.form.Errors()
	second, err := fx.form.Advance(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstErrs, fx.form.Errors())
	assert.Equal(t, 1, fx.form.Page())
}

func TestUpdateFieldClearsOnlyItsError(t *testing.T) {
	ctx := context.Background()
	fx := newFormFixture(t, &stubSubmitter{}, nil)
	_, err := fx.form.Advance(ctx)
	require.NoError(t, err)
	require.Contains(t, fx.form.Errors(), "fullName")

	require.NoError(t, fx.form.UpdateField(ctx, "fullName", "J"))

	errs := fx.form.Errors()
	assert.NotContains(t, errs, "fullName", "update must not re-validate")
	assert.Contains(t, errs, "email")
	assert.Equal(t, 1, fx.storage.Len())
}

func TestUpdateFieldRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	fx := newFormFixture(t, &stubSubmitter{}, nil)

	assert.ErrorIs(t, fx.form.UpdateField(ctx, "favoriteColor", "teal"), ErrUnknownField)
	assert.ErrorIs(t, fx.form.UpdateField(ctx, "throwsYouOffTrack", "other"), ErrInvalidValue)
	assert.Zero(t, fx.storage.Len())
}

func TestUpdateFieldSurvivesStorageFailure(t *testing.T) {
	ctx := context.Background()
	fx := newFormFixture(t, &stubSubmitter{}, nil)
	fx.storage.FailWrites(true)

	require.NoError(t, fx.form.UpdateField(ctx, "fullName", "Ana Lopez"))
	assert.Equal(t, "Ana Lopez", fx.form.Record().FullName)
	assert.Zero(t, fx.storage.Len())
}

func TestBlurFieldSetsAndClearsError(t *testing.T) {
	ctx := context.Background()
	fx := newFormFixture(t, &stubSubmitter{}, nil)

	msg, err := fx.form.BlurField("email")
	require.NoError(t, err)
	assert.Equal(t, "Please enter a valid email address", msg)
	assert.Equal(t, msg, fx.form.Errors()["email"])

	require.NoError(t, fx.form.UpdateField(ctx, "email", "ana@example.com"))
	msg, err = fx.form.BlurField("email")
	require.NoError(t, err)
	assert.Empty(t, msg)
	assert.NotContains(t, fx.form.Errors(), "email")

	_, err = fx.form.BlurField("favoriteColor")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestBackAndBoundaries(t *testing.T) {
	ctx := context.Background()
	rec := validRecord()
	fx := newFormFixture(t, &stubSubmitter{}, &rec)

	tr, err := fx.form.Back()
	require.NoError(t, err)
	assert.Equal(t, Transition{From: 1, To: 1}, tr)

	advanceTo(t, fx.form, 3)
	tr, err = fx.form.Back()
	require.NoError(t, err)
	assert.Equal(t, 2, tr.To)
	assert.True(t, tr.ScrollToTop)
	assert.Equal(t, 2, fx.form.Page())

	advanceTo(t, fx.form, EntryPages)
	_, err = fx.form.Advance(ctx)
	require.NoError(t, err)
	require.Equal(t, ConfirmationPage, fx.form.Page())

	tr, err = fx.form.Back()
	require.NoError(t, err)
	assert.Equal(t, ConfirmationPage, tr.To)
	tr, err = fx.form.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, Transition{From: ConfirmationPage, To: ConfirmationPage}, tr)
	assert.Equal(t, ConfirmationPage, fx.form.Page())
}

func TestReturnToFormKeepsAnswers(t *testing.T) {
	ctx := context.Background()
	rec := validRecord()
	fx := newFormFixture(t, &stubSubmitter{}, &rec)

	tr, err := fx.form.ReturnToForm()
	require.NoError(t, err)
	assert.Equal(t, Transition{From: 1, To: 1}, tr)

	advanceTo(t, fx.form, EntryPages)
	_, err = fx.form.Advance(ctx)
	require.NoError(t, err)

	tr, err = fx.form.ReturnToForm()
	require.NoError(t, err)
	assert.Equal(t, 1, tr.To)
	assert.Equal(t, 1, fx.form.Page())
	assert.Equal(t, rec, fx.form.Record())
	assert.Empty(t, fx.form.View().SubmitError)
}

func TestSubmissionInFlightBlocksTransitions(t *testing.T) {
	ctx := context.Background()
	rec := validRecord()
	sub := newBlockingSubmitter()
	fx := newFormFixture(t, sub, &rec)
	advanceTo(t, fx.form, EntryPages)

	type result struct {
		tr  Transition
		err error
	}
	done := make(chan result, 1)
	go func() {
		tr, err := fx.form.Advance(ctx)
		done <- result{tr, err}
	}()
	<-sub.started

	assert.True(t, fx.form.Submitting())
	view := fx.form.View()
	assert.True(t, view.NextDisabled)
	assert.False(t, view.CanGoBack)
	assert.Equal(t, "Submitting...", view.NextLabel)

	_, err := fx.form.Advance(ctx)
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
	_, err = fx.form.Back()
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
	assert.ErrorIs(t, fx.form.UpdateField(ctx, "fullName", "Other"), ErrSubmissionInFlight)
	assert.ErrorIs(t, fx.form.Clear(ctx, true), ErrSubmissionInFlight)
	_, err = fx.form.BlurField("fullName")
	assert.NoError(t, err)

	close(sub.release)
	res := <-done
	require.NoError(t, res.err)
	assert.True(t, res.tr.Submitted)
	assert.False(t, fx.form.Submitting())
	assert.Equal(t, ConfirmationPage, fx.form.Page())
}

func TestSubmissionOutlivesCallerContext(t *testing.T) {
	rec := validRecord()
	sub := newBlockingSubmitter()
	fx := newFormFixture(t, sub, &rec)
	advanceTo(t, fx.form, EntryPages)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan Transition, 1)
	go func() {
		tr, _ := fx.form.Advance(ctx)
		done <- tr
	}()
	<-sub.started
	cancel()
	close(sub.release)

	assert.True(t, (<-done).Submitted)
}

func TestSubmitHooksRunAfterSuccess(t *testing.T) {
	ctx := context.Background()
	rec := validRecord()
	var got []Submission
	record := func(_ context.Context, sub Submission) error {
		got = append(got, sub)
		return nil
	}
	failing := func(context.Context, Submission) error { return errors.New("smtp down") }
	fx := newFormFixture(t, &stubSubmitter{}, &rec, failing, record)
	advanceTo(t, fx.form, EntryPages)

	tr, err := fx.form.Advance(ctx)
	require.NoError(t, err)
	fx.form.WaitHooks()

	assert.True(t, tr.Submitted)
	require.Len(t, got, 1)
	assert.Equal(t, "test", got[0].SessionID)
	assert.Equal(t, rec, got[0].Record)
	assert.Equal(t, testNow, got[0].SubmittedAt)
}

func TestSubmitHooksSkippedOnFailure(t *testing.T) {
	ctx := context.Background()
	rec := validRecord()
	called := false
	hook := func(context.Context, Submission) error { called = true; return nil }
	fx := newFormFixture(t, &stubSubmitter{err: errEndpointDown}, &rec, hook)
	advanceTo(t, fx.form, EntryPages)

	_, err := fx.form.Advance(ctx)
	require.NoError(t, err)
	fx.form.WaitHooks()
	assert.False(t, called)
}

type slowSubmitter struct{ delay time.Duration }

func (s slowSubmitter) Submit(context.Context, Record) error {
	time.Sleep(s.delay)
	return nil
}

func TestSubmitHooksGetTheirOwnDeadline(t *testing.T) {
	ctx := context.Background()
	rec := validRecord()
	drafts := NewDraftStore(NewMemoryStorage(), "draft:slow", logging.New("error"))
	drafts.Save(ctx, rec)

	hookErr := make(chan error, 1)
	var remaining time.Duration
	form := NewForm(ctx, FormOptions{
		ID:            "slow",
		Drafts:        drafts,
		Submitter:     slowSubmitter{delay: 120 * time.Millisecond},
		SubmitTimeout: 100 * time.Millisecond,
		HookTimeout:   5 * time.Second,
		Hooks: []SubmitHook{func(hookCtx context.Context, _ Submission) error {
			if deadline, ok := hookCtx.Deadline(); ok {
				remaining = time.Until(deadline)
			}
			hookErr <- hookCtx.Err()
			return nil
		}},
		Logger: logging.New("error"),
	})
	advanceTo(t, form, EntryPages)

	tr, err := form.Advance(ctx)
	require.NoError(t, err)
	require.True(t, tr.Submitted)
	form.WaitHooks()

	assert.NoError(t, <-hookErr)
	assert.Greater(t, remaining, time.Second)
}

func TestSubmitReturnsBeforeHooksFinish(t *testing.T) {
	ctx := context.Background()
	rec := validRecord()
	release := make(chan struct{})
	finished := make(chan struct{})
	hook := func(context.Context, Submission) error {
		<-release
		close(finished)
		return nil
	}
	fx := newFormFixture(t, &stubSubmitter{}, &rec, hook)
	advanceTo(t, fx.form, EntryPages)

	reqCtx, cancel := context.WithCancel(ctx)
	tr, err := fx.form.Advance(reqCtx)
	require.NoError(t, err)
	cancel()

	assert.True(t, tr.Submitted)
	assert.Equal(t, ConfirmationPage, fx.form.Page())
	select {
	case <-finished:
		t.Fatal("hook finished before it was released")
	default:
	}

	close(release)
	fx.form.WaitHooks()
	<-finished
}

func TestFormRecordsFunnelMetrics(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m := metrics.NewIntakeMetrics(reg)
	form := NewForm(ctx, FormOptions{
		ID:        "metrics",
		Submitter: &stubSubmitter{},
		Metrics:   m,
		Logger:    logging.New("error"),
	})

	_, err := form.Advance(ctx)
	require.NoError(t, err)
	for name, value := range map[string]any{
		"fullName": "John Smith", "email": "john@example.com", "age": 28, "height": "6ft",
		"currentWeight": "200 lbs", "timeZone": "CST", "mainGoal": "Run a half marathon",
		"goalMotivation": "Prove to myself I can", "whatHeldYouBack": "Injuries",
		"feeling3to6Months": "Disappointed",
	} {
		require.NoError(t, form.UpdateField(ctx, name, value))
	}
	_, err = form.Advance(ctx)
	require.NoError(t, err)

	snap := metrics.Snapshot(reg)
	require.Len(t, snap.Pages, 1)
	assert.Equal(t, 1, snap.Pages[0].Page)
	assert.Equal(t, int64(1), snap.Pages[0].Outcomes[metrics.OutcomeBlocked])
	assert.Equal(t, int64(1), snap.Pages[0].Outcomes[metrics.OutcomeAdvanced])
}

func TestViewDescribesEntryPage(t *testing.T) {
	ctx := context.Background()
	fx := newFormFixture(t, &stubSubmitter{}, nil)
	require.NoError(t, fx.form.UpdateField(ctx, "fullName", "Ana"))

	view := fx.form.View()
	assert.Equal(t, "Step 1 of 4", view.Step)
	assert.Equal(t, "Next", view.NextLabel)
	assert.False(t, view.CanGoBack)
	assert.True(t, view.DraftInProgress)
	require.Len(t, view.Sections, 2)
	assert.Equal(t, "Personal Information", view.Sections[0].Title)
	assert.Equal(t, "Goals & Motivation", view.Sections[1].Title)
	assert.Equal(t, "fullName", view.Sections[0].Fields[0].Name)
	assert.Equal(t, "Ana", view.Sections[0].Fields[0].Value)
	assert.True(t, view.Sections[0].Fields[0].Required)
}
