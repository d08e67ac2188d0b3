package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"netattend/internal/models"
)

// ParseClock converts an "HH:mm" wall-clock string to minutes since midnight.
func ParseClock(s string) (int, error) {
	const op = "schedule.ParseClock"

	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%s: invalid clock %q", op, s)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%s: invalid clock %q: %w", op, s, err)
	}

	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%s: invalid clock %q: %w", op, s, err)
	}

	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%s: clock %q out of range", op, s)
	}

	return h*60 + m, nil
}

// Validate checks a subject's schedule fields.
func Validate(sub *models.Subject) error {
	const op = "schedule.Validate"

	if sub.DayOfWeek < 0 || sub.DayOfWeek > 6 {
		return fmt.Errorf("%s: day_of_week %d out of range", op, sub.DayOfWeek)
	}

	start, err := ParseClock(sub.ExpectedCheckIn)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	end, err := ParseClock(sub.ExpectedCheckOut)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if end < start {
		return fmt.Errorf("%s: expected_check_out before expected_check_in", op)
	}

	if sub.TotalClasses < 0 {
		return fmt.Errorf("%s: total_classes must be >= 0", op)
	}

	return nil
}

// FindActiveSubject returns the first subject whose weekday matches now and
// whose expected window contains now, both ends inclusive. Returns nil when
// no subject is in session. Ties between overlapping windows are resolved by
// list order on purpose.
func FindActiveSubject(subjects []models.Subject, now time.Time) *models.Subject {
	day := int(now.Weekday())
	minutes := now.Hour()*60 + now.Minute()

	for i := range subjects {
		if subjects[i].DayOfWeek != day {
			continue
		}

		start, err := ParseClock(subjects[i].ExpectedCheckIn)
		if err != nil {
			continue
		}

		end, err := ParseClock(subjects[i].ExpectedCheckOut)
		if err != nil {
			continue
		}

		if start <= minutes && minutes <= end {
			return &subjects[i]
		}
	}

	return nil
}
