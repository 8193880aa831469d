// Package assistant is the rule-based chat helper behind the dashboard widget
// and the Telegram bot. It matches keyword sets in a fixed priority order and
// answers from an explicit snapshot of store data.
package assistant

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/engagement"
)

// Mode selects which keyword chain applies.
type Mode string

const (
	ModeTrainer Mode = "trainer"
	ModeClient  Mode = "client"
)

// ModeFor maps a token role onto a responder mode.
func ModeFor(role domain.Role) Mode {
	if role == domain.RoleTrainer {
		return ModeTrainer
	}
	return ModeClient
}

// Snapshot is a read-only view of store data taken when the message arrives.
// Trainer mode reads Clients, client mode reads Client.
type Snapshot struct {
	Clients []domain.Client
	Client  *domain.Client
	Now     time.Time
}

// Ratios above which the weekly analysis praises the client.
const (
	greatPaceRatio    = 0.8
	goodProgressRatio = 0.5
)

const week = 7 * 24 * time.Hour

// Responder holds only its random source; it keeps no conversation state.
type Responder struct {
	pick func(n int) int
}

// NewResponder builds a responder. pick returns a value in [0, n); nil means
// math/rand.
func NewResponder(pick func(n int) int) *Responder {
	if pick == nil {
		pick = rand.Intn
	}
	return &Responder{pick: pick}
}

// Respond answers one message.
func (r *Responder) Respond(message string, mode Mode, snap Snapshot) string {
	msg := strings.ToLower(strings.TrimSpace(message))
	if snap.Now.IsZero() {
		snap.Now = time.Now()
	}

	if mode == ModeTrainer {
		if matchesAny(msg, clientAnalysisKeywords) {
			return analyzeClients(snap)
		}
		return trainerFallback
	}

	switch {
	case matchesAny(msg, progressKeywords):
		return progressReport(snap)
	case matchesAny(msg, planKeywords):
		return planReport(snap)
	case matchesAny(msg, motivationKeywords):
		return motivationLines[r.pick(len(motivationLines))]
	default:
		return tips[r.pick(len(tips))]
	}
}

func analyzeClients(snap Snapshot) string {
	if len(snap.Clients) == 0 {
		return noClientsReply
	}
	var b strings.Builder
	b.WriteString("Client analysis:")
	for i := range snap.Clients {
		c := &snap.Clients[i]
		fmt.Fprintf(&b, "\n• %s: %s", c.Name, ClientPhrase(c, snap.Now))
	}
	return b.String()
}

// ClientPhrase describes a client's week in a few words.
func ClientPhrase(c *domain.Client, now time.Time) string {
	assigned := engagement.AssignedDays(c.WeeklyPlan)
	recent := engagement.CompletedSince(c.CompletedWorkouts, now.Add(-week), now)

	if assigned > 0 {
		ratio := float64(recent) / float64(assigned)
		switch {
		case ratio >= greatPaceRatio:
			return fmt.Sprintf("great pace (%d of %d workouts this week)", recent, assigned)
		case ratio >= goodProgressRatio:
			return fmt.Sprintf("good progress (%d of %d workouts this week)", recent, assigned)
		}
	}

	return engagement.LastWorkoutPhrase(c.CompletedWorkouts, now)
}

func progressReport(snap Snapshot) string {
	c := snap.Client
	if c == nil {
		return noProfileReply
	}
	total := engagement.CompletedSince(c.CompletedWorkouts, time.Time{}, snap.Now)
	if total == 0 {
		return "You haven't logged any workouts yet. Log your first one and I'll start tracking your progress."
	}

	recent := engagement.CompletedSince(c.CompletedWorkouts, snap.Now.Add(-week), snap.Now)
	last, _ := engagement.LastWorkout(c.CompletedWorkouts, snap.Now)
	status := engagement.Classify(c, snap.Now)

	return fmt.Sprintf(
		"You've completed %d workouts in total, %d in the last 7 days. Your last workout was %s. Status: %s.",
		total, recent, engagement.DaysAgo(engagement.DaysSince(last, snap.Now)), status.Label,
	)
}

func planReport(snap Snapshot) string {
	c := snap.Client
	if c == nil {
		return noProfileReply
	}
	if engagement.AssignedDays(c.WeeklyPlan) == 0 {
		return "Your trainer hasn't assigned a plan yet."
	}

	today := domain.WeekdayOf(snap.Now.Weekday())
	var b strings.Builder
	exercises := c.WeeklyPlan[today]
	if len(exercises) == 0 {
		fmt.Fprintf(&b, "Today (%s) is a rest day.", today)
	} else {
		fmt.Fprintf(&b, "Today (%s):", today)
		for _, e := range exercises {
			b.WriteString("\n- " + FormatExercise(e))
		}
	}

	var days []string
	for _, d := range domain.Weekdays {
		if len(c.WeeklyPlan[d]) > 0 {
			days = append(days, string(d))
		}
	}
	b.WriteString("\n\nTraining days this week: " + strings.Join(days, ", ") + ".")
	return b.String()
}

// FormatExercise renders "Squat 3×8 (rest 90s)".
func FormatExercise(e domain.PlannedExercise) string {
	s := e.Name
	switch {
	case e.Sets > 0 && e.Reps != "":
		s += fmt.Sprintf(" %d×%s", e.Sets, e.Reps)
	case e.Sets > 0:
		s += fmt.Sprintf(" %d sets", e.Sets)
	case e.Reps != "":
		s += " " + e.Reps
	}
	if e.Rest != "" {
		s += " (rest " + e.Rest + ")"
	}
	return s
}
