// Package engagement derives how recently and consistently a client trains.
// Everything here is a pure function of its arguments; callers pass "now".
package engagement

import (
	"fmt"
	"time"

	"alcyxob/fitcoach/internal/domain"
)

// Label is the derived engagement status shown on dashboards.
type Label string

const (
	LabelActive         Label = "active"
	LabelFading         Label = "fading"
	LabelNeedsAttention Label = "needs-attention"
)

// Severity lets the UI colour a label without knowing the labels.
type Severity string

const (
	SeverityOK       Severity = "ok"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Thresholds in whole days since the last workout.
const (
	ActiveMaxDays = 3
	FadingMaxDays = 5
)

const day = 24 * time.Hour

// FutureSlack is how far ahead of now a workout date may lie and still count.
// Date-only records parse as UTC midnight, which is up to 14 hours ahead of
// now for a client at UTC+14 who logs just after local midnight.
const FutureSlack = 14 * time.Hour

// Status is the result of Classify. It is never stored.
type Status struct {
	Label    Label    `json:"label"`
	Severity Severity `json:"severity"`
}

func statusOf(l Label) Status {
	switch l {
	case LabelActive:
		return Status{Label: l, Severity: SeverityOK}
	case LabelFading:
		return Status{Label: l, Severity: SeverityWarning}
	default:
		return Status{Label: LabelNeedsAttention, Severity: SeverityCritical}
	}
}

// Classify applies the rules in order, first match wins:
// empty plan, no (valid) workouts, then days since the latest workout.
func Classify(c *domain.Client, now time.Time) Status {
	if c == nil || AssignedDays(c.WeeklyPlan) == 0 {
		return statusOf(LabelNeedsAttention)
	}
	last, ok := LastWorkout(c.CompletedWorkouts, now)
	if !ok {
		return statusOf(LabelNeedsAttention)
	}
	switch days := DaysSince(last, now); {
	case days <= ActiveMaxDays:
		return statusOf(LabelActive)
	case days <= FadingMaxDays:
		return statusOf(LabelFading)
	default:
		return statusOf(LabelNeedsAttention)
	}
}

// AssignedDays counts weekdays that have at least one exercise.
func AssignedDays(plan domain.WeeklyPlan) int {
	n := 0
	for _, exercises := range plan {
		if len(exercises) > 0 {
			n++
		}
	}
	return n
}

// EffectiveDate places a workout instant on the timeline seen at now. Dates
// up to FutureSlack ahead count as now; anything later does not count at all.
func EffectiveDate(t, now time.Time) (time.Time, bool) {
	if t.After(now.Add(FutureSlack)) {
		return time.Time{}, false
	}
	if t.After(now) {
		return now, true
	}
	return t, true
}

// LastWorkout returns the latest workout that counts at now. Records whose
// date does not parse, or lies beyond FutureSlack, are ignored.
func LastWorkout(records []domain.WorkoutRecord, now time.Time) (time.Time, bool) {
	var latest time.Time
	found := false
	for _, r := range records {
		t, ok := effective(r, now)
		if !ok {
			continue
		}
		if !found || t.After(latest) {
			latest = t
			found = true
		}
	}
	return latest, found
}

// DaysSince is the number of whole days from t to now, rounded down.
// A t in the future counts as zero.
func DaysSince(t, now time.Time) int {
	d := now.Sub(t)
	if d < 0 {
		return 0
	}
	return int(d / day)
}

// LastWorkoutPhrase says how long ago the client last trained, for example
// "last workout 1 day ago", or "no workouts yet" when nothing counts.
func LastWorkoutPhrase(records []domain.WorkoutRecord, now time.Time) string {
	last, ok := LastWorkout(records, now)
	if !ok {
		return "no workouts yet"
	}
	return "last workout " + DaysAgo(DaysSince(last, now))
}

// DaysAgo renders a day count as "today", "1 day ago" or "N days ago".
func DaysAgo(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

// CompletedSince counts workouts that count at now and are dated at or
// after since.
func CompletedSince(records []domain.WorkoutRecord, since, now time.Time) int {
	n := 0
	for _, r := range records {
		t, ok := effective(r, now)
		if !ok || t.Before(since) {
			continue
		}
		n++
	}
	return n
}

func effective(r domain.WorkoutRecord, now time.Time) (time.Time, bool) {
	t, ok := r.ParsedDate()
	if !ok {
		return time.Time{}, false
	}
	return EffectiveDate(t, now)
}
