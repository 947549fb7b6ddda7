package service

import (
	"math"
	"sort"
	"time"

	"github.com/z3st/habits-api/internal/models"
)

const (
	// MinDaysForCorrelation is the minimum overlap between two habits'
	// observed dates before a correlation is computable.
	MinDaysForCorrelation = 7

	// Correlation strength thresholds on |r|
	CorrelationStrong   = 0.7
	CorrelationModerate = 0.4

	// Correlation sign threshold; |r| at or below this reads as no relationship
	CorrelationSignEpsilon = 0.1

	// Trend slope thresholds, in completion-rate percentage points per month
	TrendSlopeImproving = 2.0
	TrendSlopeDeclining = -2.0

	// Number of most recent monthly rates the trend slope is fitted over
	trendWindowMonths = 3
)

var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// observedDayTotals sums entries by resolved local date, keeping zero-count
// entries: for analytics a zero check-in is an observation ("attempted, not
// done"), unlike streak continuity where it is ignored.
func observedDayTotals(timezone string, entries []models.CheckinEntry, graceHour int) (map[string]int, error) {
	totals := make(map[string]int)
	for _, e := range entries {
		date := e.LocalDate
		if date == "" {
			if e.OccurredAt == nil {
				continue
			}
			date = ResolveLocalDate(timezone, *e.OccurredAt, graceHour)
		} else if _, err := parseLocalDate(date); err != nil {
			return nil, err
		}
		if e.Count > 0 {
			totals[date] += e.Count
		} else if _, seen := totals[date]; !seen {
			totals[date] = 0
		}
	}
	return totals, nil
}

// BestWorstDays buckets observed dates by weekday and reports completion
// rates per bucket. A date completes when its summed count meets the target.
// Returns nil when there is no dated data at all.
func BestWorstDays(timezone string, entries []models.CheckinEntry, target, graceHour int) (*models.BestWorstDays, error) {
	totals, err := observedDayTotals(timezone, entries, graceHour)
	if err != nil {
		return nil, err
	}
	if len(totals) == 0 {
		return nil, nil
	}

	var result models.BestWorstDays
	for i := range result.Days {
		result.Days[i].Weekday = time.Weekday(i)
		result.Days[i].DayName = dayNames[i]
	}

	for date, total := range totals {
		d, err := parseLocalDate(date)
		if err != nil {
			return nil, err
		}
		wd := int(d.Weekday())
		result.Days[wd].Attempts++
		if total >= target {
			result.Days[wd].Completions++
		}
	}

	bestIdx, worstIdx := -1, -1
	for i := range result.Days {
		day := &result.Days[i]
		if day.Attempts == 0 {
			continue
		}
		day.CompletionRate = float64(day.Completions) / float64(day.Attempts) * 100
		if bestIdx < 0 || day.CompletionRate > result.Days[bestIdx].CompletionRate {
			bestIdx = i
		}
		if worstIdx < 0 || day.CompletionRate < result.Days[worstIdx].CompletionRate {
			worstIdx = i
		}
	}

	result.Best = result.Days[bestIdx]
	result.Worst = result.Days[worstIdx]
	return &result, nil
}

// PredictStreakSurvival scores the chance the current streak survives, as a
// weighted sum: 40% recent completion rate, 30% proportion of historical
// streaks that reached seven days, 20% momentum, 10% day-of-week factor.
// This is a product heuristic, not a statistically validated model; the
// weights are intentional and must not be rebalanced casually.
func PredictStreakSurvival(currentStreak int, historicalStreakLengths []int, recentCompletionRatePercent, dayOfWeekFactor float64) models.SurvivalPrediction {
	histProportion := 0.0
	if len(historicalStreakLengths) > 0 {
		survived := 0
		for _, length := range historicalStreakLengths {
			if length >= 7 {
				survived++
			}
		}
		histProportion = float64(survived) / float64(len(historicalStreakLengths))
	}

	momentum := math.Min(float64(currentStreak)/30, 1) * 100

	score := 0.4*recentCompletionRatePercent +
		0.3*histProportion*100 +
		0.2*momentum +
		0.1*dayOfWeekFactor*100
	score = math.Max(0, math.Min(100, score))

	risk := models.RiskHigh
	switch {
	case score >= 70:
		risk = models.RiskLow
	case score >= 40:
		risk = models.RiskMedium
	}

	historyPoints := math.Min(float64(len(historicalStreakLengths)), 30)
	confidence := math.Min(100, historyPoints/30*100)

	return models.SurvivalPrediction{
		Probability: score,
		Risk:        risk,
		Confidence:  confidence,
	}
}

var correlationInsights = map[models.CorrelationType]map[models.CorrelationStrength]string{
	models.CorrelationPositive: {
		models.StrengthStrong:   "These habits strongly reinforce each other: completing one makes the other far more likely.",
		models.StrengthModerate: "These habits tend to succeed together. Pairing them in one routine could help both.",
		models.StrengthWeak:     "There is a slight tendency for these habits to succeed on the same days.",
	},
	models.CorrelationNegative: {
		models.StrengthStrong:   "These habits strongly compete: on days you complete one, you rarely complete the other.",
		models.StrengthModerate: "These habits often trade off against each other. Scheduling them apart may help.",
		models.StrengthWeak:     "There is a slight tendency for these habits to crowd each other out.",
	},
}

const correlationInsightNone = "No meaningful relationship detected between these habits."

// CalculateHabitCorrelation computes Pearson's r over the binary "completed
// that day" signal of two habits, restricted to their common observed dates.
// Returns nil when fewer than MinDaysForCorrelation dates overlap, signaling
// "not yet computable" rather than an error.
// Each habit's entries are resolved against its own timezone and grace hour.
func CalculateHabitCorrelation(timezoneA string, habitA []models.CheckinEntry, graceHourA int, timezoneB string, habitB []models.CheckinEntry, graceHourB int) (*models.HabitCorrelation, error) {
	totalsA, err := observedDayTotals(timezoneA, habitA, graceHourA)
	if err != nil {
		return nil, err
	}
	totalsB, err := observedDayTotals(timezoneB, habitB, graceHourB)
	if err != nil {
		return nil, err
	}

	common := make([]string, 0, len(totalsA))
	for date := range totalsA {
		if _, ok := totalsB[date]; ok {
			common = append(common, date)
		}
	}
	if len(common) < MinDaysForCorrelation {
		return nil, nil
	}
	sort.Strings(common)

	xs := make([]float64, len(common))
	ys := make([]float64, len(common))
	for i, date := range common {
		if totalsA[date] > 0 {
			xs[i] = 1
		}
		if totalsB[date] > 0 {
			ys[i] = 1
		}
	}

	r := pearson(xs, ys)

	ctype := models.CorrelationNone
	if r > CorrelationSignEpsilon {
		ctype = models.CorrelationPositive
	} else if r < -CorrelationSignEpsilon {
		ctype = models.CorrelationNegative
	}

	strength := models.StrengthWeak
	switch {
	case math.Abs(r) >= CorrelationStrong:
		strength = models.StrengthStrong
	case math.Abs(r) >= CorrelationModerate:
		strength = models.StrengthModerate
	}

	insight := correlationInsightNone
	if byStrength, ok := correlationInsights[ctype]; ok {
		insight = byStrength[strength]
	}

	return &models.HabitCorrelation{
		CorrelationCoefficient: r,
		CorrelationType:        ctype,
		Strength:               strength,
		SampleSize:             len(common),
		Insight:                insight,
	}, nil
}

// pearson computes the correlation coefficient of two equal-length series.
// Zero variance in either series yields 0.
func pearson(xs, ys []float64) float64 {
	n := float64(len(xs))
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / n
	meanY := sumY / n

	var numerator, denomX, denomY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		numerator += dx * dy
		denomX += dx * dx
		denomY += dy * dy
	}

	if denomX == 0 || denomY == 0 {
		return 0
	}
	return numerator / math.Sqrt(denomX*denomY)
}

// CalculateMonthlyYearlyTrends rolls completion rates up by calendar month
// and year, then labels the trajectory using a linear-regression slope over
// the most recent monthly rates.
func CalculateMonthlyYearlyTrends(timezone string, entries []models.CheckinEntry, target, graceHour int) (*models.HabitTrends, error) {
	totals, err := observedDayTotals(timezone, entries, graceHour)
	if err != nil {
		return nil, err
	}
	if len(totals) == 0 {
		return nil, nil
	}

	type bucket struct{ completions, attempts int }
	monthly := make(map[string]*bucket)
	yearly := make(map[string]*bucket)

	for date, total := range totals {
		month := date[:7]
		year := date[:4]
		for _, key := range []string{month, year} {
			groups := monthly
			if key == year {
				groups = yearly
			}
			b, ok := groups[key]
			if !ok {
				b = &bucket{}
				groups[key] = b
			}
			b.attempts++
			if total >= target {
				b.completions++
			}
		}
	}

	build := func(groups map[string]*bucket) []models.PeriodRate {
		rates := make([]models.PeriodRate, 0, len(groups))
		for period, b := range groups {
			rates = append(rates, models.PeriodRate{
				Period:         period,
				Completions:    b.completions,
				Attempts:       b.attempts,
				CompletionRate: float64(b.completions) / float64(b.attempts) * 100,
			})
		}
		sort.Slice(rates, func(i, j int) bool { return rates[i].Period < rates[j].Period })
		return rates
	}

	monthlyRates := build(monthly)
	yearlyRates := build(yearly)

	return &models.HabitTrends{
		Monthly:   monthlyRates,
		Yearly:    yearlyRates,
		Direction: trendDirection(monthlyRates),
	}, nil
}

// trendDirection fits a least-squares slope over the last trendWindowMonths
// monthly completion rates.
func trendDirection(monthly []models.PeriodRate) models.TrendDirection {
	window := monthly
	if len(window) > trendWindowMonths {
		window = window[len(window)-trendWindowMonths:]
	}
	if len(window) < 2 {
		return models.TrendStable
	}

	n := float64(len(window))
	var sumX, sumY, sumXY, sumXX float64
	for i, rate := range window {
		x := float64(i)
		y := rate.CompletionRate
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	slope := (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)

	switch {
	case slope > TrendSlopeImproving:
		return models.TrendImproving
	case slope < TrendSlopeDeclining:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

// ExtractHistoricalStreaks returns the lengths of every consecutive-day run
// over dates whose summed count met the target, oldest run first. Feeds the
// survival prediction heuristic.
func ExtractHistoricalStreaks(timezone string, entries []models.CheckinEntry, target, graceHour int) ([]int, error) {
	totals, err := observedDayTotals(timezone, entries, graceHour)
	if err != nil {
		return nil, err
	}

	var completed []time.Time
	for date, total := range totals {
		if total < target {
			continue
		}
		d, err := parseLocalDate(date)
		if err != nil {
			return nil, err
		}
		completed = append(completed, d)
	}
	if len(completed) == 0 {
		return nil, nil
	}
	sort.Slice(completed, func(i, j int) bool { return completed[i].Before(completed[j]) })

	var lengths []int
	run := 1
	for i := 1; i < len(completed); i++ {
		if completed[i].Sub(completed[i-1]) == 24*time.Hour {
			run++
			continue
		}
		lengths = append(lengths, run)
		run = 1
	}
	lengths = append(lengths, run)
	return lengths, nil
}

// DayOfWeekFactor is the ratio of a weekday's completion rate to the average
// across all seven weekdays. Returns 1.0 when data is absent or the average
// is zero, so the survival heuristic stays neutral.
func DayOfWeekFactor(weekday time.Weekday, stats *models.BestWorstDays) float64 {
	if stats == nil {
		return 1.0
	}

	var sum float64
	for _, day := range stats.Days {
		sum += day.CompletionRate
	}
	avg := sum / 7
	if avg == 0 {
		return 1.0
	}
	return stats.Days[int(weekday)].CompletionRate / avg
}
