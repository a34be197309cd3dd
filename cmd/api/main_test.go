package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appconfig "github.com/wolfman30/coaching-intake/internal/config"
	"github.com/wolfman30/coaching-intake/internal/observability/metrics"
	"github.com/wolfman30/coaching-intake/pkg/logging"
)

func TestSetupIntakeMetricsExposesMetrics(t *testing.T) {
	handler, intakeMetrics, gatherer := setupIntakeMetrics()
	if handler == nil || intakeMetrics == nil || gatherer == nil {
		t.Fatalf("expected non-nil handler, metrics and gatherer")
	}

	intakeMetrics.ObserveAdvance(2, metrics.OutcomeBlocked)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "coaching_intake_advance_total") {
		t.Fatalf("expected advance counter to be exported")
	}
	if snap := metrics.Snapshot(gatherer); len(snap.Pages) != 1 || snap.Pages[0].Outcomes[metrics.OutcomeBlocked] != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestNewServerWriteTimeoutCoversSubmission(t *testing.T) {
	srv := newServer(&appconfig.Config{Port: "9090", SubmitTimeout: 30 * time.Second}, http.NotFoundHandler())
	if srv.Addr != ":9090" {
		t.Fatalf("expected addr :9090, got %q", srv.Addr)
	}
	if srv.WriteTimeout != 35*time.Second {
		t.Fatalf("expected write timeout 35s, got %s", srv.WriteTimeout)
	}

	srv = newServer(&appconfig.Config{Port: "8080", SubmitTimeout: time.Second}, http.NotFoundHandler())
	if srv.WriteTimeout != 15*time.Second {
		t.Fatalf("expected default write timeout, got %s", srv.WriteTimeout)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	srv := newServer(&appconfig.Config{Port: "0"}, http.NotFoundHandler())
	srv.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv, logging.New("error")) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
