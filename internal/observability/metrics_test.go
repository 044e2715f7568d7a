package observability

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", "200", time.Millisecond)
	m.IncResolution("matched")
	m.ObserveAttempt("quiz", "success", 50)
	m.IncDetailLoss()
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("nil write: %v", err)
	}
	rec := httptest.NewRecorder()
	m.WriteHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 503 {
		t.Fatalf("expected 503 for disabled metrics, got %d", rec.Code)
	}
}

func TestWritePrometheus(t *testing.T) {
	m := New()
	m.ObserveAPI("POST", "/api/sections/:id/attempts", "201", 30*time.Millisecond)
	m.IncResolution("fallback")
	m.IncResolution("fallback")
	m.ObserveAttempt("test", "success", 67)
	m.IncProgressSyncFailure()

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`sp_api_requests_total{method="POST",route="/api/sections/:id/attempts",status="201"} 1.000000`,
		`sp_content_resolutions_total{status="fallback"} 2.000000`,
		`sp_attempt_score_bucket{kind="test",le="60"} 0`,
		`sp_attempt_score_bucket{kind="test",le="70"} 1`,
		`sp_attempt_score_count{kind="test"} 1`,
		`sp_progress_sync_failures_total 1.000000`,
		"# TYPE sp_api_request_duration_seconds histogram",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output:\n%s", want, out)
		}
	}
}

func TestLabelString(t *testing.T) {
	tests := []struct {
		names  []string
		values []string
		want   string
	}{
		{nil, nil, ""},
		{[]string{"a"}, nil, `{a="unknown"}`},
		{[]string{"a", "b"}, []string{"x", `q"uote`}, `{a="x",b="q\"uote"}`},
	}
	for _, tt := range tests {
		if got := labelString(tt.names, tt.values); got != tt.want {
			t.Fatalf("labelString(%v,%v): want %s got %s", tt.names, tt.values, tt.want, got)
		}
	}
	if got := withLe("", "1"); got != `{le="1"}` {
		t.Fatalf("withLe empty: %s", got)
	}
	if got := withLe(`{a="x"}`, "+Inf"); got != `{a="x",le="+Inf"}` {
		t.Fatalf("withLe: %s", got)
	}
}
