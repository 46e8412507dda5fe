package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", "200", time.Millisecond)
	m.ApiInflightInc()
	m.ApiInflightDec()
	m.IncQuizSubmission("mcq", "auto_graded")
	m.IncQuizGraded()
	m.IncClassJoin(true)
	m.IncAuthEvent("login", false)
	m.IncProgressUpsert("completed")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 from disabled handler, got %d", rec.Code)
	}
}

func TestMetricsCountAndExpose(t *testing.T) {
	m := newMetrics()
	m.ObserveAPI("PUT", "/api/v1/classes/:id/quiz/:itemId/attempt", "200", 20*time.Millisecond)
	m.IncQuizSubmission("mcq", "auto_graded")
	m.IncQuizSubmission("mcq", "auto_graded")
	m.IncClassJoin(false)

	if got := testutil.ToFloat64(m.quizSubmissions.WithLabelValues("mcq", "auto_graded")); got != 2 {
		t.Fatalf("quiz submissions = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.classJoins.WithLabelValues("existing")); got != 1 {
		t.Fatalf("class joins = %v, want 1", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{"classroom_api_requests_total", "classroom_quiz_submissions_total", "go_goroutines"} {
		if !strings.Contains(body, want) {
			t.Fatalf("exposition missing %q", want)
		}
	}
}

func TestInitDisabledReturnsNil(t *testing.T) {
	if m := Init(nil, false); m != nil {
		t.Fatalf("expected nil metrics when disabled")
	}
}
