package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/praxis-suite/praxis/internal/authz"
)

func TestMiddlewareRecordsRequests(t *testing.T) {
	metrics := NewMetrics()
	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected status passthrough, got %d", rec.Code)
	}

	body := scrape(t, metrics)
	if !strings.Contains(body, "praxis_http_requests_total") {
		t.Fatalf("expected request counter in exposition:\n%s", body)
	}
	if !strings.Contains(body, `code="418"`) {
		t.Fatalf("expected 418 label in exposition:\n%s", body)
	}
}

func TestObserveDecision(t *testing.T) {
	metrics := NewMetrics()
	metrics.ObserveDecision(authz.ResourceTasks, authz.ActionUpdate, authz.OutcomeDenied)
	metrics.ObserveDecision(authz.ResourceTasks, authz.ActionUpdate, authz.OutcomeDenied)

	body := scrape(t, metrics)
	if !strings.Contains(body, `praxis_authz_decisions_total{action="update",outcome="denied",resource="tasks"} 2`) {
		t.Fatalf("expected decision counter in exposition:\n%s", body)
	}
}

func TestNilMetricsAreInert(t *testing.T) {
	var metrics *Metrics
	metrics.ObserveDecision(authz.ResourceTasks, authz.ActionRead, authz.OutcomeAllowed)
	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected passthrough, got %d", rec.Code)
	}
}

func scrape(t *testing.T, metrics *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rec.Body.String()
}
