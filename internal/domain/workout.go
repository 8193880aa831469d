package domain

import "time"

// Accepted layouts for WorkoutRecord.Date, most specific first.
var workoutDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// WorkoutRecord is a completed workout. It is never edited after it is logged.
// Date is kept as the raw string the client sent; older records imported from
// the previous store may not parse, and readers must skip those.
type WorkoutRecord struct {
	Date      string              `bson:"date" json:"date"`
	Exercises []PerformedExercise `bson:"exercises" json:"exercises"`
}

// ParsedDate returns the record's instant and whether Date could be parsed.
func (w WorkoutRecord) ParsedDate() (time.Time, bool) {
	return ParseWorkoutDate(w.Date)
}

// ParseWorkoutDate parses a workout date in any of the accepted layouts.
func ParseWorkoutDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range workoutDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
