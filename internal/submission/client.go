package submission

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wolfman30/coaching-intake/internal/intake"
	"github.com/wolfman30/coaching-intake/pkg/logging"
)

const notConfiguredMessage = "Google Apps Script URL not configured"

// HTTPDoer is the subset of *http.Client used by Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds client configuration.
type Config struct {
	URL        string
	Timeout    time.Duration
	HTTPClient HTTPDoer
	Now        func() time.Time
	Logger     *logging.Logger
}

// Client posts completed records to a Google Apps Script web app.
//
// The endpoint is deployed so that its response cannot be relied on: the
// body is never read and the status code is never interpreted. Any request
// that completes a round trip counts as a success, so a rejection on the
// spreadsheet side is indistinguishable from an accepted row.
type Client struct {
	url    string
	http   HTTPDoer
	now    func() time.Time
	logger *logging.Logger
}

// NewClient creates a submission client. An empty URL yields a client whose
// every Submit fails with a configuration error without touching the network.
func NewClient(cfg Config) *Client {
	if cfg.HTTPClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		cfg.HTTPClient = &http.Client{Timeout: timeout}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Client{
		url:    strings.TrimSpace(cfg.URL),
		http:   cfg.HTTPClient,
		now:    cfg.Now,
		logger: cfg.Logger,
	}
}

// Configured reports whether a destination URL is set.
func (c *Client) Configured() bool {
	return c.url != ""
}

// Submit posts rec. Failures are always *Error.
func (c *Client) Submit(ctx context.Context, rec intake.Record) error {
	if !c.Configured() {
		return &Error{Kind: KindConfig, StatusCode: http.StatusInternalServerError, Message: notConfiguredMessage, Err: ErrNotConfigured}
	}

	body, err := BuildPayload(rec, c.now()).Encode()
	if err != nil {
		return failure(KindEncode, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return failure(KindTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("submission request failed", "error", err)
		return failure(KindTransport, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	c.logger.Info("submission delivered", "bytes", len(body))
	return nil
}

func failure(kind Kind, err error) *Error {
	return &Error{
		Kind:       kind,
		StatusCode: http.StatusInternalServerError,
		Message:    fmt.Sprintf("Failed to submit form: %s", err.Error()),
		Err:        err,
	}
}

var _ intake.Submitter = (*Client)(nil)
