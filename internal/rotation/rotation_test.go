package rotation

import (
	"testing"
	"time"
)

func TestDayOfYear(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want int
	}{
		{"jan 1 midnight", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 0},
		{"jan 1 late", time.Date(2026, 1, 1, 23, 59, 59, 0, time.UTC), 0},
		{"jan 6", time.Date(2026, 1, 6, 9, 0, 0, 0, time.UTC), 5},
		{"dec 31 common year", time.Date(2026, 12, 31, 12, 0, 0, 0, time.UTC), 364},
		{"dec 31 leap year", time.Date(2028, 12, 31, 12, 0, 0, 0, time.UTC), 365},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayOfYear(tt.t); got != tt.want {
				t.Errorf("DayOfYear(%v) = %d, want %d", tt.t, got, tt.want)
			}
		})
	}
}

func TestDayOfYear_UsesLocation(t *testing.T) {
	// 23:30 UTC on Jan 1 is already Jan 2 in UTC+3.
	utc := time.Date(2026, 1, 1, 23, 30, 0, 0, time.UTC)
	plus3 := utc.In(time.FixedZone("UTC+3", 3*60*60))

	if got := DayOfYear(utc); got != 0 {
		t.Errorf("DayOfYear(utc) = %d, want 0", got)
	}
	if got := DayOfYear(plus3); got != 1 {
		t.Errorf("DayOfYear(plus3) = %d, want 1", got)
	}
}

func TestDailyIndex_InRangeAndStable(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for size := 1; size <= 9; size++ {
		for day := 0; day < 400; day++ {
			morning := start.AddDate(0, 0, day).Add(time.Hour)
			evening := morning.Add(20 * time.Hour)

			got := DailyIndex(size, morning)
			if got < 0 || got >= size {
				t.Fatalf("DailyIndex(%d, %v) = %d, out of range", size, morning, got)
			}
			if again := DailyIndex(size, evening); again != got {
				t.Fatalf("DailyIndex(%d) changed within a day: %d then %d", size, got, again)
			}
		}
	}
}

func TestDailyIndex_EmptyCollection(t *testing.T) {
	today := time.Date(2026, 5, 17, 10, 0, 0, 0, time.UTC)
	if got := DailyIndex(0, today); got != 0 {
		t.Errorf("DailyIndex(0) = %d, want 0", got)
	}
	if got := DailyIndex(-3, today); got != 0 {
		t.Errorf("DailyIndex(-3) = %d, want 0", got)
	}
}

func TestDailyIndex_Scenario(t *testing.T) {
	// Day-of-year 5 with three items selects the third item.
	today := time.Date(2026, 1, 6, 8, 0, 0, 0, time.UTC)
	idx := DailyIndex(3, today)
	if idx != 2 {
		t.Fatalf("DailyIndex(3, day 5) = %d, want 2", idx)
	}
	if next := Advance(idx, 3); next != 0 {
		t.Errorf("Advance(2, 3) = %d, want 0", next)
	}
}

func TestAdvance(t *testing.T) {
	for n := 2; n <= 7; n++ {
		for i := 0; i < n; i++ {
			want := (i + 1) % n
			if got := Advance(i, n); got != want {
				t.Errorf("Advance(%d, %d) = %d, want %d", i, n, got, want)
			}
		}
	}
}

func TestAdvance_NothingToCycle(t *testing.T) {
	if got := Advance(0, 1); got != 0 {
		t.Errorf("Advance(0, 1) = %d, want 0", got)
	}
	if got := Advance(0, 0); got != 0 {
		t.Errorf("Advance(0, 0) = %d, want 0", got)
	}
	if got := Advance(4, 0); got != 4 {
		t.Errorf("Advance(4, 0) = %d, want 4", got)
	}
}
