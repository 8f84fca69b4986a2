package requests

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculateDays(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		duration string
		want     float64
		wantErr  bool
	}{
		{"single full day", date(2024, time.March, 4), date(2024, time.March, 4), DurationFull, 1, false},
		{"inclusive span", date(2024, time.March, 4), date(2024, time.March, 8), DurationFull, 5, false},
		{"default duration is full", date(2024, time.March, 4), date(2024, time.March, 5), "", 2, false},
		{"half day morning", date(2024, time.March, 4), date(2024, time.March, 4), DurationHalfAM, 0.5, false},
		{"half day afternoon", date(2024, time.March, 4), date(2024, time.March, 4), DurationHalfPM, 0.5, false},
		{"half day over a span", date(2024, time.March, 4), date(2024, time.March, 5), DurationHalfAM, 0, true},
		{"end before start", date(2024, time.March, 8), date(2024, time.March, 4), DurationFull, 0, true},
		{"unknown duration", date(2024, time.March, 4), date(2024, time.March, 4), "weekend", 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CalculateDays(tc.start, tc.end, tc.duration)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPermissionMinutes(t *testing.T) {
	got, err := PermissionMinutes("09:30", "11:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 90 {
		t.Fatalf("got %d minutes, want 90", got)
	}

	if _, err := PermissionMinutes("11:00", "09:30"); err == nil {
		t.Fatal("expected error for inverted range")
	}
	if _, err := PermissionMinutes("9am", "11:00"); err == nil {
		t.Fatal("expected error for malformed clock value")
	}
}
