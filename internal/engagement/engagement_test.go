package engagement

import (
	"testing"
	"time"

	"alcyxob/fitcoach/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 14, 18, 0, 0, 0, time.UTC)

func planWithMonday() domain.WeeklyPlan {
	return domain.WeeklyPlan{
		domain.Monday:    {{Name: "Squat", Sets: 3, Reps: "8"}},
		domain.Wednesday: {},
	}
}

func workoutAt(t time.Time) domain.WorkoutRecord {
	return domain.WorkoutRecord{Date: t.Format(time.RFC3339)}
}

func TestClassify_EmptyPlanAlwaysNeedsAttention(t *testing.T) {
	for _, count := range []int{0, 1, 5} {
		client := &domain.Client{WeeklyPlan: domain.WeeklyPlan{domain.Monday: {}}}
		for i := 0; i < count; i++ {
			client.CompletedWorkouts = append(client.CompletedWorkouts, workoutAt(now))
		}
		got := Classify(client, now)
		assert.Equal(t, LabelNeedsAttention, got.Label, "workouts=%d", count)
		assert.Equal(t, SeverityCritical, got.Severity)
	}

	assert.Equal(t, LabelNeedsAttention, Classify(&domain.Client{}, now).Label)
	assert.Equal(t, LabelNeedsAttention, Classify(nil, now).Label)
}

func TestClassify_NoWorkoutsNeedsAttention(t *testing.T) {
	client := &domain.Client{WeeklyPlan: planWithMonday()}
	assert.Equal(t, LabelNeedsAttention, Classify(client, now).Label)
}

func TestClassify_Thresholds(t *testing.T) {
	tests := []struct {
		name string
		ago  time.Duration
		want Label
	}{
		{"today", 0, LabelActive},
		{"exactly 3 days", 3 * day, LabelActive},
		{"3 days and 23 hours", 3*day + 23*time.Hour, LabelActive},
		{"exactly 4 days", 4 * day, LabelFading},
		{"exactly 5 days", 5 * day, LabelFading},
		{"exactly 6 days", 6 * day, LabelNeedsAttention},
		{"a month", 30 * day, LabelNeedsAttention},
		{"a few hours ahead", -3 * time.Hour, LabelActive},
		{"days ahead does not count", -2 * day, LabelNeedsAttention},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &domain.Client{
				WeeklyPlan:        planWithMonday(),
				CompletedWorkouts: []domain.WorkoutRecord{workoutAt(now.Add(-tt.ago))},
			}
			assert.Equal(t, tt.want, Classify(client, now).Label)
		})
	}
}

func TestClassify_UsesLatestWorkoutRegardlessOfOrder(t *testing.T) {
	client := &domain.Client{
		WeeklyPlan: planWithMonday(),
		CompletedWorkouts: []domain.WorkoutRecord{
			workoutAt(now.Add(-1 * day)),
			workoutAt(now.Add(-10 * day)),
		},
	}
	assert.Equal(t, LabelActive, Classify(client, now).Label)
}

func TestClassify_SkipsUnparsableDates(t *testing.T) {
	client := &domain.Client{
		WeeklyPlan: planWithMonday(),
		CompletedWorkouts: []domain.WorkoutRecord{
			{Date: "not a date"},
			workoutAt(now.Add(-4 * day)),
		},
	}
	assert.Equal(t, LabelFading, Classify(client, now).Label)

	client.CompletedWorkouts = []domain.WorkoutRecord{{Date: "??"}, {Date: ""}}
	assert.Equal(t, LabelNeedsAttention, Classify(client, now).Label)
}

func TestClassify_IsPure(t *testing.T) {
	client := &domain.Client{
		WeeklyPlan:        planWithMonday(),
		CompletedWorkouts: []domain.WorkoutRecord{workoutAt(now.Add(-2 * day))},
	}
	first := Classify(client, now)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, Classify(client, now))
	}
}

func TestCompletedSince(t *testing.T) {
	records := []domain.WorkoutRecord{
		workoutAt(now),
		workoutAt(now.Add(-6 * day)),
		workoutAt(now.Add(-8 * day)),
		{Date: "bad"},
		workoutAt(now.Add(day)),
	}
	assert.Equal(t, 2, CompletedSince(records, now.Add(-7*day), now))
}

func TestFutureDatesUseOneRule(t *testing.T) {
	client := &domain.Client{
		WeeklyPlan:        planWithMonday(),
		CompletedWorkouts: []domain.WorkoutRecord{{Date: "2099-01-01"}},
	}
	assert.Equal(t, LabelNeedsAttention, Classify(client, now).Label)
	_, ok := LastWorkout(client.CompletedWorkouts, now)
	assert.False(t, ok)
	assert.Zero(t, CompletedSince(client.CompletedWorkouts, now.Add(-7*day), now))
}

func TestDateOnlyTodayEastOfUTC(t *testing.T) {
	// 01:00 at UTC+3 is still the previous day in UTC.
	local := time.Date(2026, 10, 18, 1, 0, 0, 0, time.FixedZone("MSK", 3*60*60))
	records := []domain.WorkoutRecord{{Date: "2026-10-18"}}

	last, ok := LastWorkout(records, local)
	require.True(t, ok)
	assert.True(t, last.Equal(local))
	assert.Equal(t, 0, DaysSince(last, local))
	assert.Equal(t, 1, CompletedSince(records, local.Add(-7*day), local))

	client := &domain.Client{WeeklyPlan: planWithMonday(), CompletedWorkouts: records}
	assert.Equal(t, LabelActive, Classify(client, local).Label)
}

func TestLastWorkoutPhrase(t *testing.T) {
	tests := []struct {
		name    string
		records []domain.WorkoutRecord
		want    string
	}{
		{"none", nil, "no workouts yet"},
		{"today", []domain.WorkoutRecord{{Date: now.Add(-2 * time.Hour).Format(time.RFC3339)}}, "last workout today"},
		{"one day", []domain.WorkoutRecord{{Date: now.Add(-30 * time.Hour).Format(time.RFC3339)}}, "last workout 1 day ago"},
		{"several days", []domain.WorkoutRecord{{Date: now.Add(-5 * day).Format(time.RFC3339)}}, "last workout 5 days ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LastWorkoutPhrase(tt.records, now))
		})
	}
}

func TestAssignedDays(t *testing.T) {
	assert.Equal(t, 1, AssignedDays(planWithMonday()))
	assert.Equal(t, 0, AssignedDays(nil))
}
