package observability_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/domain"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record samples so the vectors are exported
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.ObserveBooking("create", domain.ErrRoomNotAvailable)
	observability.ObserveSearch("search", 3*time.Millisecond)

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, want := range []string{
		"hotel_http_requests_total",
		`hotel_booking_events_total{op="create",outcome="room_not_available"}`,
		"hotel_search_duration_seconds",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output", want)
		}
	}
}

func TestOutcome(t *testing.T) {
	if got := observability.Outcome(nil); got != "ok" {
		t.Fatalf("nil: %s", got)
	}
	if got := observability.Outcome(domain.ErrCapacityExceeded.With("x")); got != "capacity_exceeded" {
		t.Fatalf("domain: %s", got)
	}
	if got := observability.Outcome(errors.New("boom")); got != "internal" {
		t.Fatalf("plain: %s", got)
	}
}
