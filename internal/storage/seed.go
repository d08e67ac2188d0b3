package storage

import (
	"time"

	"netattend/internal/models"
)

const defaultAvatar = "https://api.dicebear.com/9.x/initials/svg?seed=Student"

// Seed data used when the store is empty or unreadable. Mirrors the bundled
// starter dataset: a small weekly timetable, one campus zone, and a little
// attendance history so dashboards are not blank on first run.

func SeedSubjects() []models.Subject {
	return []models.Subject{
		{ID: "sub-maths", Name: "Mathematics", ExpectedCheckIn: "09:00", ExpectedCheckOut: "10:30", TotalClasses: 40, DayOfWeek: 1},
		{ID: "sub-physics", Name: "Physics", ExpectedCheckIn: "11:00", ExpectedCheckOut: "12:30", TotalClasses: 36, DayOfWeek: 1},
		{ID: "sub-chem", Name: "Chemistry", ExpectedCheckIn: "09:00", ExpectedCheckOut: "10:30", TotalClasses: 36, DayOfWeek: 3},
		{ID: "sub-cs", Name: "Computer Science", ExpectedCheckIn: "14:00", ExpectedCheckOut: "15:30", TotalClasses: 42, DayOfWeek: 5},
	}
}

func SeedZones() []models.WifiZone {
	return []models.WifiZone{
		{ID: "zone-main", SSID: "Campus-WiFi"},
	}
}

func SeedAttendance() map[string][]models.AttendanceRecord {
	in := time.Date(2026, 8, 24, 9, 2, 0, 0, time.UTC)
	out := time.Date(2026, 8, 24, 10, 28, 0, 0, time.UTC)

	return map[string][]models.AttendanceRecord{
		"sub-maths": {
			{
				ID:        "rec-seed-1",
				Date:      in,
				CheckIn:   in,
				CheckOut:  &out,
				IsAnomaly: false,
				StudentID: "CS2026001",
			},
		},
	}
}

func SeedProfile() models.UserDetails {
	return models.UserDetails{
		Name:       "Student",
		RollNo:     "CS2026001",
		Program:    "B.Tech",
		Branch:     "CSE",
		Department: "Computer Science",
		Section:    "A",
	}
}
