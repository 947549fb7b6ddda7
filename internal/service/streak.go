package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/z3st/habits-api/internal/models"
)

// ErrInvalidLocalDate indicates an entry carried a date string that is not a
// valid YYYY-MM-DD calendar day.
var ErrInvalidLocalDate = errors.New("invalid local date")

func parseLocalDate(s string) (time.Time, error) {
	t, err := time.Parse(LocalDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidLocalDate, s)
	}
	return t, nil
}

// dayCounts sums entries by resolved local date, dropping non-positive counts
// and anything dated strictly after today. Keys are YYYY-MM-DD strings.
func dayCounts(timezone string, entries []models.CheckinEntry, today string, graceHour int) (map[string]int, error) {
	counts := make(map[string]int)
	for _, e := range entries {
		if e.Count <= 0 {
			continue
		}

		date := e.LocalDate
		if date == "" {
			if e.OccurredAt == nil {
				continue
			}
			date = ResolveLocalDate(timezone, *e.OccurredAt, graceHour)
		} else if _, err := parseLocalDate(date); err != nil {
			return nil, err
		}

		// Future entries are invalid and dropped, not clamped.
		if date > today {
			continue
		}

		counts[date] += e.Count
	}
	return counts, nil
}

// isoWeekStart truncates a UTC midnight to the Monday starting its ISO week.
func isoWeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// ComputeStreak calculates the current and longest continuity runs for one
// habit. Continuity is keyed on activity (any positive check-in), not on the
// numeric target; target only gates the result as a whole. One unit of slack
// is allowed before the current run is considered broken, so a habit last
// served yesterday (or last week, for weekly cadence) is still live.
func ComputeStreak(cadence models.Cadence, target int, timezone string, entries []models.CheckinEntry, now time.Time, graceHour int) (models.StreakResult, error) {
	if target <= 0 {
		return models.StreakResult{}, nil
	}

	today := ResolveLocalDate(timezone, now, graceHour)
	counts, err := dayCounts(timezone, entries, today, graceHour)
	if err != nil {
		return models.StreakResult{}, err
	}
	if len(counts) == 0 {
		return models.StreakResult{}, nil
	}

	unit := 1
	anchor, _ := parseLocalDate(today)
	active := make(map[string]bool, len(counts))

	switch cadence {
	case models.CadenceWeekly:
		unit = 7
		anchor = isoWeekStart(anchor)
		for date := range counts {
			d, err := parseLocalDate(date)
			if err != nil {
				return models.StreakResult{}, err
			}
			active[isoWeekStart(d).Format(LocalDateLayout)] = true
		}
	default:
		for date := range counts {
			active[date] = true
		}
	}

	days := make([]time.Time, 0, len(active))
	for date := range active {
		d, err := parseLocalDate(date)
		if err != nil {
			return models.StreakResult{}, err
		}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	gap := time.Duration(unit) * 24 * time.Hour

	longest := 1
	run := 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == gap {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	latest := days[len(days)-1]
	if anchor.Sub(latest) > gap {
		return models.StreakResult{Current: 0, Longest: longest}, nil
	}

	current := 1
	for prev := latest.AddDate(0, 0, -unit); active[prev.Format(LocalDateLayout)]; prev = prev.AddDate(0, 0, -unit) {
		current++
	}

	return models.StreakResult{Current: current, Longest: longest}, nil
}

// PeriodCount returns the count accumulated in the active period: today's
// summed count for daily cadence, the current ISO week's for weekly.
func PeriodCount(cadence models.Cadence, timezone string, entries []models.CheckinEntry, now time.Time, graceHour int) (int, error) {
	today := ResolveLocalDate(timezone, now, graceHour)
	counts, err := dayCounts(timezone, entries, today, graceHour)
	if err != nil {
		return 0, err
	}

	if cadence != models.CadenceWeekly {
		return counts[today], nil
	}

	anchor, _ := parseLocalDate(today)
	weekStart := isoWeekStart(anchor)
	total := 0
	for date, count := range counts {
		d, err := parseLocalDate(date)
		if err != nil {
			return 0, err
		}
		if isoWeekStart(d).Equal(weekStart) {
			total += count
		}
	}
	return total, nil
}

// ComputeAccountStreak merges every habit's entries into one activity
// calendar and runs the daily-cadence engine over it: any positive combined
// count marks the day active.
func ComputeAccountStreak(timezone string, allHabitEntries [][]models.CheckinEntry, now time.Time, graceHour int) (models.StreakResult, error) {
	var combined []models.CheckinEntry
	for _, entries := range allHabitEntries {
		combined = append(combined, entries...)
	}
	return ComputeStreak(models.CadenceDaily, 1, timezone, combined, now, graceHour)
}
