// internal/domain/training_plan.go
package domain

import (
	"strings"
	"time"
)

// Weekday keys a WeeklyPlan. Lower-case English names keep the stored
// document readable.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays lists the week starting on Monday.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// WeekdayOf maps a time.Weekday onto the plan key.
func WeekdayOf(d time.Weekday) Weekday {
	if d == time.Sunday {
		return Sunday
	}
	return Weekdays[int(d)-1]
}

// ParseWeekday accepts full names and three-letter abbreviations in any case.
func ParseWeekday(s string) (Weekday, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, d := range Weekdays {
		if s == string(d) || (len(s) == 3 && strings.HasPrefix(string(d), s)) {
			return d, true
		}
	}
	return "", false
}

// WeeklyPlan maps a weekday to the exercises assigned for it in the current
// cycle. A trainer replaces the whole plan on reassignment.
type WeeklyPlan map[Weekday][]PlannedExercise
