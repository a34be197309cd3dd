package submission

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/coaching-intake/internal/intake"
	"github.com/wolfman30/coaching-intake/pkg/logging"
)

var fixedNow = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }

func completedRecord() intake.Record {
	rec := intake.Defaults()
	rec.FullName = "John Smith"
	rec.Email = "john@example.com"
	rec.Age = intake.Int(28)
	rec.ThrowsYouOffTrack = []string{"emotional-eating", "lack-motivation"}
	rec.MainGoal = "Lose weight and build muscle"
	return rec
}

func TestSubmitWithoutURLFailsWithoutNetwork(t *testing.T) {
	var calls int32
	doer := doerFunc(func(*http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errors.New("unexpected call")
	})
	client := NewClient(Config{URL: "  ", HTTPClient: doer, Logger: logging.New("error")})

	err := client.Submit(context.Background(), completedRecord())

	var subErr *Error
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, KindConfig, subErr.Kind)
	assert.Equal(t, "Google Apps Script URL not configured", subErr.Error())
	assert.Equal(t, http.StatusInternalServerError, subErr.StatusCode)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Zero(t, atomic.LoadInt32(&calls))
	assert.False(t, client.Configured())
}

func TestSubmitPostsFlattenedPayload(t *testing.T) {
	var got map[string]any
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		contentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(Config{URL: srv.URL, Now: fixedNow, Logger: logging.New("error")})
	require.NoError(t, client.Submit(context.Background(), completedRecord()))

	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "emotional-eating, lack-motivation", got["throwsYouOffTrack"])
	assert.Equal(t, "2026-03-04T05:06:07.000Z", got["timestamp"])
	assert.Equal(t, "John Smith", got["fullName"])
	assert.Equal(t, float64(28), got["age"])
	assert.Equal(t, float64(5), got["commitmentLevel"])
	assert.Equal(t, "not-sure", got["startTimeline"])
	assert.Contains(t, got, "throwsYouOffTrackOther")
	assert.Contains(t, got, "additionalNotes")
}

func TestSubmitTreatsAnyResponseAsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"error":"sheet missing"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{URL: srv.URL, Logger: logging.New("error")})

	assert.NoError(t, client.Submit(context.Background(), completedRecord()))
}

func TestSubmitTransportFailure(t *testing.T) {
	doer := doerFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp: connection refused")
	})
	client := NewClient(Config{URL: "https://script.google.com/macros/s/x/exec", HTTPClient: doer, Logger: logging.New("error")})

	err := client.Submit(context.Background(), completedRecord())

	var subErr *Error
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, KindTransport, subErr.Kind)
	assert.Equal(t, "Failed to submit form: dial tcp: connection refused", err.Error())
}

func TestSubmitUnreachableEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(Config{URL: url, Timeout: time.Second, Logger: logging.New("error")})
	err := client.Submit(context.Background(), completedRecord())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to submit form: ")
}

func TestSheetRowMatchesHeaders(t *testing.T) {
	p := BuildPayload(completedRecord(), fixedNow())
	row := SheetRow(p)

	require.Len(t, row, len(SheetHeaders))
	assert.Equal(t, "2026-03-04T05:06:07.000Z", row[0])
	assert.Equal(t, "John Smith", row[1])
	assert.Equal(t, "28", row[3])
	assert.Equal(t, "emotional-eating, lack-motivation", row[14])
	assert.Equal(t, "Throws You Off Track", SheetHeaders[14])
	assert.Equal(t, "not-sure", row[33])
}

func TestBuildPayloadEmptyTriggers(t *testing.T) {
	rec := intake.Defaults()
	p := BuildPayload(rec, fixedNow())
	assert.Equal(t, "", p.ThrowsYouOffTrack)

	body, err := p.Encode()
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "", decoded["throwsYouOffTrack"])
}

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(r *http.Request) (*http.Response, error) { return f(r) }
