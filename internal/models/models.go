package models

import "time"

type Mode string

const (
	MODE_STUDENT Mode = "student"
	MODE_FACULTY Mode = "faculty"
	MODE_ADMIN   Mode = "admin"
)

type Subject struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ExpectedCheckIn  string `json:"expected_check_in"`
	ExpectedCheckOut string `json:"expected_check_out"`
	TotalClasses     int    `json:"total_classes"`
	DayOfWeek        int    `json:"day_of_week"`
}

type AttendanceRecord struct {
	ID            string     `json:"id"`
	Date          time.Time  `json:"date"`
	CheckIn       time.Time  `json:"check_in"`
	CheckOut      *time.Time `json:"check_out,omitempty"`
	IsAnomaly     bool       `json:"is_anomaly"`
	AnomalyReason string     `json:"anomaly_reason"`
	StudentID     string     `json:"student_id"`
}

type ActiveCheckIn struct {
	SubjectID   string    `json:"subject_id"`
	CheckInTime time.Time `json:"check_in_time"`
}

type WifiZone struct {
	ID   string `json:"id"`
	SSID string `json:"ssid"`
}

type UserDetails struct {
	Name       string `json:"name"`
	RollNo     string `json:"roll_no"`
	Program    string `json:"program"`
	Branch     string `json:"branch"`
	Department string `json:"department"`
	Section    string `json:"section"`
	Phone      string `json:"phone,omitempty"`
	ParentName string `json:"parent_name,omitempty"`
	Address    string `json:"address,omitempty"`
	DeviceID   string `json:"device_id"`
	Avatar     string `json:"avatar"`
}

// AppState is the whole in-memory application state. Attendance is keyed by
// subject id; each list keeps insertion order, which is chronological for
// entries of the same subject.
type AppState struct {
	Subjects   []Subject
	Attendance map[string][]AttendanceRecord
	Zones      []WifiZone
	Active     *ActiveCheckIn
	Profile    UserDetails
	Mode       Mode
}
