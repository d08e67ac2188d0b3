package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"netattend/internal/models"
)

func testSubject() models.Subject {
	return models.Subject{
		ID:               "s1",
		Name:             "Maths",
		ExpectedCheckIn:  "09:00",
		ExpectedCheckOut: "10:30",
		DayOfWeek:        1,
	}
}

func TestClassifyAttendanceSuccess(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/classify" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(Verdict{IsAnomaly: true, Reason: "check-out far past expected window"})
	}))
	defer srv.Close()

	c := New(srv.URL, 2*time.Second, false)

	in := time.Date(2026, 8, 31, 9, 5, 0, 0, time.UTC)
	out := time.Date(2026, 8, 31, 12, 45, 0, 0, time.UTC)
	v := c.ClassifyAttendance(context.Background(), in, out, testSubject(), nil)

	if !v.IsAnomaly {
		t.Fatalf("expected anomaly verdict, got %+v", v)
	}
	if v.Reason != "check-out far past expected window" {
		t.Errorf("unexpected reason %q", v.Reason)
	}
	if gotBody["history"] != NoHistory {
		t.Errorf("history = %q, want %q", gotBody["history"], NoHistory)
	}
	if gotBody["expected_check_in"] != "09:00" {
		t.Errorf("expected_check_in = %q", gotBody["expected_check_in"])
	}
}

func TestClassifyAttendanceFallback(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("{not json"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := New(srv.URL, 2*time.Second, false)
			v := c.ClassifyAttendance(context.Background(), time.Now(), time.Now().Add(time.Hour), testSubject(), nil)

			if v.IsAnomaly {
				t.Errorf("fallback verdict must not be anomalous")
			}
			if v.Reason != FallbackReason {
				t.Errorf("reason = %q, want %q", v.Reason, FallbackReason)
			}
		})
	}
}

func TestClassifyAttendanceUnreachable(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL, time.Second, false)
	v := c.ClassifyAttendance(context.Background(), time.Now(), time.Now().Add(time.Hour), testSubject(), nil)

	if v.IsAnomaly || v.Reason != FallbackReason {
		t.Errorf("got %+v, want fallback verdict", v)
	}
}

func TestClassifyAttendanceSkip(t *testing.T) {
	c := New("http://unused", time.Second, true)
	v := c.ClassifyAttendance(context.Background(), time.Now(), time.Now().Add(time.Hour), testSubject(), nil)

	if v.IsAnomaly || v.Reason != "" {
		t.Errorf("skip mode verdict = %+v, want zero value", v)
	}
}

func TestRenderHistory(t *testing.T) {
	if got := RenderHistory(nil); got != NoHistory {
		t.Fatalf("RenderHistory(nil) = %q, want %q", got, NoHistory)
	}

	out := time.Date(2026, 8, 24, 10, 25, 0, 0, time.UTC)
	history := []models.AttendanceRecord{
		{
			Date:          time.Date(2026, 8, 24, 9, 2, 0, 0, time.UTC),
			CheckIn:       time.Date(2026, 8, 24, 9, 2, 0, 0, time.UTC),
			CheckOut:      &out,
			IsAnomaly:     true,
			AnomalyReason: "left early",
		},
	}

	got := RenderHistory(history)
	want := "2026-08-24: in 09:02, out 10:25 (anomaly: left early)\n"
	if got != want {
		t.Errorf("RenderHistory() = %q, want %q", got, want)
	}
}

func TestExtractTimetable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/extract" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"subjects": []SubjectDraft{
				{Name: "Maths", ExpectedCheckIn: "09:00", ExpectedCheckOut: "10:30", DayOfWeek: 1, TotalClasses: 40},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, 2*time.Second, false)
	drafts, err := c.ExtractTimetable(context.Background(), "aGVsbG8=")
	if err != nil {
		t.Fatalf("ExtractTimetable() error: %v", err)
	}
	if len(drafts) != 1 || drafts[0].Name != "Maths" {
		t.Errorf("unexpected drafts %+v", drafts)
	}

	if _, err := c.ExtractTimetable(context.Background(), ""); err == nil {
		t.Errorf("expected error for empty image data")
	}
}

func TestEstimateHeadcountSkip(t *testing.T) {
	c := New("http://unused", time.Second, true)
	n, err := c.EstimateHeadcount(context.Background(), 42)
	if err != nil {
		t.Fatalf("EstimateHeadcount() error: %v", err)
	}
	if n != 42 {
		t.Errorf("EstimateHeadcount() = %d, want 42", n)
	}
}
