package schedule

import (
	"testing"
	"time"

	"netattend/internal/models"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "09:00", want: 540},
		{in: "00:00", want: 0},
		{in: "23:59", want: 1439},
		{in: "9:05", want: 545},
		{in: "24:00", wantErr: true},
		{in: "10:60", wantErr: true},
		{in: "0900", wantErr: true},
		{in: "ab:cd", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseClock(%q) expected error, got %d", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseClock(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFindActiveSubject(t *testing.T) {
	// 2026-08-31 is a Monday.
	monday := func(h, m int) time.Time {
		return time.Date(2026, 8, 31, h, m, 0, 0, time.UTC)
	}

	maths := models.Subject{ID: "s1", Name: "Maths", DayOfWeek: 1, ExpectedCheckIn: "09:00", ExpectedCheckOut: "10:30"}
	physics := models.Subject{ID: "s2", Name: "Physics", DayOfWeek: 1, ExpectedCheckIn: "10:00", ExpectedCheckOut: "11:30"}
	chemTue := models.Subject{ID: "s3", Name: "Chemistry", DayOfWeek: 2, ExpectedCheckIn: "09:00", ExpectedCheckOut: "10:30"}

	tests := []struct {
		name     string
		subjects []models.Subject
		now      time.Time
		wantID   string
	}{
		{
			name:     "inside window",
			subjects: []models.Subject{maths},
			now:      monday(9, 15),
			wantID:   "s1",
		},
		{
			name:     "start inclusive",
			subjects: []models.Subject{maths},
			now:      monday(9, 0),
			wantID:   "s1",
		},
		{
			name:     "end inclusive",
			subjects: []models.Subject{maths},
			now:      monday(10, 30),
			wantID:   "s1",
		},
		{
			name:     "one minute past end",
			subjects: []models.Subject{maths},
			now:      monday(10, 31),
			wantID:   "",
		},
		{
			name:     "wrong weekday",
			subjects: []models.Subject{chemTue},
			now:      monday(9, 15),
			wantID:   "",
		},
		{
			name:     "overlap resolves to first in list order",
			subjects: []models.Subject{maths, physics},
			now:      monday(10, 15),
			wantID:   "s1",
		},
		{
			name:     "overlap with reversed order",
			subjects: []models.Subject{physics, maths},
			now:      monday(10, 15),
			wantID:   "s2",
		},
		{
			name:     "empty list",
			subjects: nil,
			now:      monday(9, 15),
			wantID:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindActiveSubject(tt.subjects, tt.now)
			if tt.wantID == "" {
				if got != nil {
					t.Fatalf("FindActiveSubject() = %v, want nil", got.ID)
				}
				return
			}
			if got == nil {
				t.Fatalf("FindActiveSubject() = nil, want %s", tt.wantID)
			}
			if got.ID != tt.wantID {
				t.Errorf("FindActiveSubject() = %s, want %s", got.ID, tt.wantID)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		sub     models.Subject
		wantErr bool
	}{
		{name: "valid", sub: models.Subject{DayOfWeek: 1, ExpectedCheckIn: "09:00", ExpectedCheckOut: "10:30", TotalClasses: 20}},
		{name: "day out of range", sub: models.Subject{DayOfWeek: 7, ExpectedCheckIn: "09:00", ExpectedCheckOut: "10:30"}, wantErr: true},
		{name: "bad check in", sub: models.Subject{DayOfWeek: 1, ExpectedCheckIn: "x", ExpectedCheckOut: "10:30"}, wantErr: true},
		{name: "end before start", sub: models.Subject{DayOfWeek: 1, ExpectedCheckIn: "11:00", ExpectedCheckOut: "10:30"}, wantErr: true},
		{name: "negative total", sub: models.Subject{DayOfWeek: 1, ExpectedCheckIn: "09:00", ExpectedCheckOut: "10:30", TotalClasses: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.sub)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
