package service

import (
	"testing"
	"time"
)

func TestResolveLocalDate_GraceHourBoundary(t *testing.T) {
	tests := []struct {
		name      string
		at        time.Time
		graceHour int
		want      string
	}{
		{
			name:      "just before grace hour belongs to previous day",
			at:        time.Date(2024, 3, 14, 2, 59, 0, 0, time.UTC),
			graceHour: 3,
			want:      "2024-03-13",
		},
		{
			name:      "exactly at grace hour belongs to same day",
			at:        time.Date(2024, 3, 14, 3, 0, 0, 0, time.UTC),
			graceHour: 3,
			want:      "2024-03-14",
		},
		{
			name:      "midday is unaffected",
			at:        time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC),
			graceHour: 3,
			want:      "2024-03-14",
		},
		{
			name:      "grace hour zero never shifts",
			at:        time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
			graceHour: 0,
			want:      "2024-03-14",
		},
		{
			name:      "month boundary rolls back correctly",
			at:        time.Date(2024, 3, 1, 1, 30, 0, 0, time.UTC),
			graceHour: 3,
			want:      "2024-02-29",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveLocalDate("UTC", tt.at, tt.graceHour)
			if got != tt.want {
				t.Errorf("ResolveLocalDate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveLocalDate_Timezone(t *testing.T) {
	// 01:00 UTC is 20:00 the previous day in New York (EST), well past any
	// grace hour, so the date is the New York calendar day.
	at := time.Date(2024, 1, 15, 1, 0, 0, 0, time.UTC)
	got := ResolveLocalDate("America/New_York", at, 3)
	if got != "2024-01-14" {
		t.Errorf("ResolveLocalDate(America/New_York) = %q, want %q", got, "2024-01-14")
	}
}

func TestResolveLocalDate_UnknownTimezoneFallsBackToUTC(t *testing.T) {
	at := time.Date(2024, 6, 1, 23, 30, 0, 0, time.UTC)
	got := ResolveLocalDate("Not/AZone", at, 3)
	if got != "2024-06-01" {
		t.Errorf("ResolveLocalDate(unknown zone) = %q, want UTC date %q", got, "2024-06-01")
	}
}

func TestResolveLocalDate_OutOfRangeGraceHourUsesDefault(t *testing.T) {
	at := time.Date(2024, 6, 1, 2, 0, 0, 0, time.UTC)
	got := ResolveLocalDate("UTC", at, 99)
	if got != "2024-05-31" {
		t.Errorf("ResolveLocalDate(grace 99) = %q, want %q (default grace hour)", got, "2024-05-31")
	}
}
