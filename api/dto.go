package api

import "time"

type SubjectRequest struct {
	Name             string `json:"name"`
	ExpectedCheckIn  string `json:"expected_check_in"`
	ExpectedCheckOut string `json:"expected_check_out"`
	TotalClasses     int    `json:"total_classes"`
	DayOfWeek        int    `json:"day_of_week"`
}

type SubjectResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ExpectedCheckIn  string `json:"expected_check_in"`
	ExpectedCheckOut string `json:"expected_check_out"`
	TotalClasses     int    `json:"total_classes"`
	DayOfWeek        int    `json:"day_of_week"`
}

type CheckInRequest struct {
	// SubjectID may be empty, in which case the subject currently in session
	// is used.
	SubjectID string `json:"subject_id"`
}

type CheckOutRequest struct {
	SubjectID string `json:"subject_id"`
}

type SessionResponse struct {
	CheckedIn   bool       `json:"checked_in"`
	SubjectID   string     `json:"subject_id,omitempty"`
	CheckInTime *time.Time `json:"check_in_time,omitempty"`
	// CurrentSubject is the subject whose expected window contains now,
	// independent of check-in state.
	CurrentSubject *SubjectResponse `json:"current_subject,omitempty"`
}

type RecordResponse struct {
	ID            string     `json:"id"`
	SubjectID     string     `json:"subject_id"`
	Date          time.Time  `json:"date"`
	CheckIn       time.Time  `json:"check_in"`
	CheckOut      *time.Time `json:"check_out,omitempty"`
	IsAnomaly     bool       `json:"is_anomaly"`
	AnomalyReason string     `json:"anomaly_reason"`
	StudentID     string     `json:"student_id"`
}

type SubjectStats struct {
	SubjectID    string `json:"subject_id"`
	Name         string `json:"name"`
	Attended     int    `json:"attended"`
	Missed       int    `json:"missed"`
	TotalClasses int    `json:"total_classes"`
	Percentage   int    `json:"percentage"`
	Tier         string `json:"tier"`
}

type StatsResponse struct {
	Subjects          []SubjectStats `json:"subjects"`
	OverallPercentage int            `json:"overall_percentage"`
	OverallTier       string         `json:"overall_tier"`
}

type ZoneRequest struct {
	SSID string `json:"ssid"`
}

type ZoneResponse struct {
	ID   string `json:"id"`
	SSID string `json:"ssid"`
}

type ProfileRequest struct {
	Name       string `json:"name"`
	RollNo     string `json:"roll_no"`
	Program    string `json:"program"`
	Branch     string `json:"branch"`
	Department string `json:"department"`
	Section    string `json:"section"`
	Phone      string `json:"phone"`
	ParentName string `json:"parent_name"`
	Address    string `json:"address"`
	Avatar     string `json:"avatar"`
	Mode       string `json:"mode"`
}

type ProfileResponse struct {
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
	Mode       string `json:"mode"`
}

type ExtractRequest struct {
	ImageData string `json:"image_data"`
}

type HeadcountResponse struct {
	Expected  int `json:"expected"`
	Estimated int `json:"estimated"`
}
