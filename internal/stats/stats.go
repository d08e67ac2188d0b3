package stats

import "math"

type Tier string

const (
	TIER_RED    Tier = "red"
	TIER_ORANGE Tier = "orange"
	TIER_GREEN  Tier = "green"
)

// EffectiveTotal is the divisor used for percentage computation. A subject
// with no declared total classes is scored against its own attended count, so
// any attendance reads as 100% and none as 0%. Never returns zero.
func EffectiveTotal(attended, total int) int {
	if total > 0 {
		return total
	}
	if attended > 1 {
		return attended
	}
	return 1
}

// Percentage returns attended/total as an integer percent, rounded half up.
func Percentage(attended, total int) int {
	return int(math.Round(float64(attended) / float64(EffectiveTotal(attended, total)) * 100))
}

// TierFor bands a percentage: below 75 red, 75 up to but excluding 85 orange,
// 85 and above green.
func TierFor(percentage int) Tier {
	switch {
	case percentage < 75:
		return TIER_RED
	case percentage < 85:
		return TIER_ORANGE
	default:
		return TIER_GREEN
	}
}

// Missed returns the number of missed classes, never negative.
func Missed(attended, total int) int {
	if total > attended {
		return total - attended
	}
	return 0
}

type SubjectCount struct {
	Attended int
	Total    int
}

// Overall computes the combined percentage as sum of attended over sum of
// effective totals. This is not the average of per-subject percentages; the
// two differ whenever totals vary across subjects.
func Overall(counts []SubjectCount) int {
	if len(counts) == 0 {
		return 0
	}

	var attended, total int
	for _, c := range counts {
		attended += c.Attended
		total += EffectiveTotal(c.Attended, c.Total)
	}

	if total == 0 {
		return 0
	}

	return int(math.Round(float64(attended) / float64(total) * 100))
}
