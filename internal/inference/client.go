package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"netattend/internal/models"
)

// FallbackReason marks a record whose classification could not be obtained.
const FallbackReason = "Error analyzing attendance."

// NoHistory is sent when the student has no prior records for the subject.
const NoHistory = "No previous attendance history."

// Verdict is the normalized classifier output.
type Verdict struct {
	IsAnomaly bool   `json:"is_anomaly"`
	Reason    string `json:"reason"`
}

// SubjectDraft is one subject row extracted from a timetable image.
type SubjectDraft struct {
	Name             string `json:"name"`
	ExpectedCheckIn  string `json:"expected_check_in"`
	ExpectedCheckOut string `json:"expected_check_out"`
	DayOfWeek        int    `json:"day_of_week"`
	TotalClasses     int    `json:"total_classes"`
}

// Client calls the model inference service. With Skip set it short-circuits
// every call with canned results so the rest of the system runs without the
// service being up.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Skip    bool
}

// New creates a client with the given request timeout.
func New(baseURL string, timeout time.Duration, skip bool) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: baseURL,
		Skip:    skip,
		HTTP: &http.Client{
			Timeout: timeout,
		},
	}
}

// ClassifyAttendance asks the model whether a completed check-in/out pair
// looks anomalous against the subject's expected window and prior history.
// It is total: any failure of the boundary degrades to a non-anomalous
// verdict carrying FallbackReason, so checkout always completes.
func (c *Client) ClassifyAttendance(ctx context.Context, checkIn, checkOut time.Time, subject models.Subject, history []models.AttendanceRecord) Verdict {
	if c.Skip {
		return Verdict{}
	}

	payload := map[string]string{
		"subject":            subject.Name,
		"check_in":           checkIn.Format("Mon Jan 2 15:04"),
		"check_out":          checkOut.Format("Mon Jan 2 15:04"),
		"expected_check_in":  subject.ExpectedCheckIn,
		"expected_check_out": subject.ExpectedCheckOut,
		"history":            RenderHistory(history),
	}

	var out Verdict
	if err := c.post(ctx, "/classify", payload, &out); err != nil {
		return Verdict{IsAnomaly: false, Reason: FallbackReason}
	}

	return out
}

// RenderHistory flattens prior records into the text form the model expects.
func RenderHistory(history []models.AttendanceRecord) string {
	if len(history) == 0 {
		return NoHistory
	}

	var b strings.Builder
	for _, rec := range history {
		b.WriteString(rec.Date.Format("2006-01-02"))
		b.WriteString(": in ")
		b.WriteString(rec.CheckIn.Format("15:04"))
		if rec.CheckOut != nil {
			b.WriteString(", out ")
			b.WriteString(rec.CheckOut.Format("15:04"))
		}
		if rec.IsAnomaly {
			b.WriteString(" (anomaly: ")
			b.WriteString(rec.AnomalyReason)
			b.WriteString(")")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// ExtractTimetable sends a base64 timetable image and returns subject drafts.
// Unlike classification, failures here propagate; the import flow reports
// them to the caller instead of silently importing nothing.
func (c *Client) ExtractTimetable(ctx context.Context, imageData string) ([]SubjectDraft, error) {
	const op = "inference.ExtractTimetable"

	if c.Skip {
		return []SubjectDraft{}, nil
	}

	if imageData == "" {
		return nil, fmt.Errorf("%s: image data required", op)
	}

	var out struct {
		Subjects []SubjectDraft `json:"subjects"`
	}
	if err := c.post(ctx, "/extract", map[string]string{"image": imageData}, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out.Subjects, nil
}

// EstimateHeadcount returns the model's simulated headcount for a class of
// the expected size.
func (c *Client) EstimateHeadcount(ctx context.Context, expected int) (int, error) {
	const op = "inference.EstimateHeadcount"

	if c.Skip {
		return expected, nil
	}

	var out struct {
		Count int `json:"count"`
	}
	if err := c.post(ctx, "/headcount", map[string]int{"expected": expected}, &out); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return out.Count, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("inference error %s: %s", resp.Status, string(bodyBytes))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
