package stats

import "testing"

func TestPercentage(t *testing.T) {
	tests := []struct {
		name     string
		attended int
		total    int
		want     int
	}{
		{name: "no classes no attendance", attended: 0, total: 0, want: 0},
		{name: "attendance without declared total", attended: 1, total: 0, want: 100},
		{name: "several attendances without declared total", attended: 7, total: 0, want: 100},
		{name: "exact red orange boundary", attended: 15, total: 20, want: 75},
		{name: "exact orange green boundary", attended: 17, total: 20, want: 85},
		{name: "rounds half up", attended: 1, total: 8, want: 13}, // 12.5
		{name: "rounds down below half", attended: 1, total: 3, want: 33},
		{name: "rounds up above half", attended: 2, total: 3, want: 67},
		{name: "full attendance", attended: 20, total: 20, want: 100},
		{name: "negative total treated as undeclared", attended: 3, total: -5, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentage(tt.attended, tt.total)
			if got != tt.want {
				t.Errorf("Percentage(%d, %d) = %d, want %d", tt.attended, tt.total, got, tt.want)
			}
		})
	}
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		percentage int
		want       Tier
	}{
		{0, TIER_RED},
		{74, TIER_RED},
		{75, TIER_ORANGE},
		{84, TIER_ORANGE},
		{85, TIER_GREEN},
		{100, TIER_GREEN},
	}

	for _, tt := range tests {
		if got := TierFor(tt.percentage); got != tt.want {
			t.Errorf("TierFor(%d) = %s, want %s", tt.percentage, got, tt.want)
		}
	}
}

func TestMissed(t *testing.T) {
	if got := Missed(5, 20); got != 15 {
		t.Errorf("Missed(5, 20) = %d, want 15", got)
	}
	if got := Missed(5, 0); got != 0 {
		t.Errorf("Missed(5, 0) = %d, want 0", got)
	}
	if got := Missed(25, 20); got != 0 {
		t.Errorf("Missed(25, 20) = %d, want 0", got)
	}
}

func TestOverall(t *testing.T) {
	tests := []struct {
		name   string
		counts []SubjectCount
		want   int
	}{
		{name: "empty", counts: nil, want: 0},
		{
			// 15/20 and 5/10 is 20/30 = 67, not the average of 75 and 50.
			name:   "sum of counts not average of percentages",
			counts: []SubjectCount{{Attended: 15, Total: 20}, {Attended: 5, Total: 10}},
			want:   67,
		},
		{
			name:   "undeclared total uses effective denominator",
			counts: []SubjectCount{{Attended: 3, Total: 0}, {Attended: 0, Total: 10}},
			want:   23, // 3/13
		},
		{
			name:   "single subject matches per subject percentage",
			counts: []SubjectCount{{Attended: 17, Total: 20}},
			want:   85,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overall(tt.counts); got != tt.want {
				t.Errorf("Overall() = %d, want %d", got, tt.want)
			}
		})
	}
}
