// Package wizard holds the onboarding form: per-step completeness checks and
// the four-step navigation that gates them.
package wizard

import (
	"context"
	"errors"
	"strings"

	"alcyxob/fitcoach/internal/domain"
)

// Steps of the onboarding form.
const (
	StepName    = 1
	StepGoal    = 2
	StepReview  = 3
	StepContact = 4

	FirstStep = StepName
	LastStep  = StepContact
)

var (
	ErrStepIncomplete = errors.New("current step is incomplete")
	ErrFirstStep      = errors.New("already at the first step")
	ErrLastStep       = errors.New("already at the last step")
	ErrNotFinished    = errors.New("form can only be submitted from the last step")
)

// FormData is what the form accumulates. Goal and Equipment are pointers
// because "not chosen yet" differs from any valid value.
type FormData struct {
	Name           string            `json:"name"`
	Age            int               `json:"age,omitempty"`
	Gender         string            `json:"gender,omitempty"`
	HeightCm       float64           `json:"heightCm,omitempty"`
	WeightKg       float64           `json:"weightKg,omitempty"`
	Goal           *domain.Goal      `json:"goal"`
	Equipment      *domain.Equipment `json:"equipment"`
	TelegramHandle string            `json:"telegramHandle"`
}

// CanAdvance reports whether the required fields of step are filled in.
// Goal and equipment count only when they hold a known value.
func CanAdvance(step int, form FormData) bool {
	switch step {
	case StepName:
		return strings.TrimSpace(form.Name) != ""
	case StepGoal:
		return form.Goal != nil && form.Goal.Valid() &&
			form.Equipment != nil && form.Equipment.Valid()
	case StepReview:
		return true
	case StepContact:
		return strings.TrimSpace(form.TelegramHandle) != ""
	default:
		return false
	}
}

// Submitter receives a finished form.
type Submitter interface {
	Submit(ctx context.Context, form FormData) (*Result, error)
}

// Result of a submission. Warnings carry best-effort failures, such as a
// notification that could not be delivered, that did not stop the submit.
type Result struct {
	Client   *domain.Client
	Warnings []string
}

// Wizard walks FormData through the steps. It is not safe for concurrent use;
// each form owns its own Wizard.
type Wizard struct {
	step int
	Form FormData
}

func New(form FormData) *Wizard {
	return &Wizard{step: FirstStep, Form: form}
}

func (w *Wizard) Step() int { return w.step }

// Next moves forward when the current step is complete.
func (w *Wizard) Next() error {
	if w.step >= LastStep {
		return ErrLastStep
	}
	if !CanAdvance(w.step, w.Form) {
		return ErrStepIncomplete
	}
	w.step++
	return nil
}

// Back moves one step back from anywhere but the first step.
func (w *Wizard) Back() error {
	if w.step <= FirstStep {
		return ErrFirstStep
	}
	w.step--
	return nil
}

// Submit hands the form to s once the last step is reached and complete.
func (w *Wizard) Submit(ctx context.Context, s Submitter) (*Result, error) {
	if w.step != LastStep {
		return nil, ErrNotFinished
	}
	if !CanAdvance(w.step, w.Form) {
		return nil, ErrStepIncomplete
	}
	return s.Submit(ctx, w.Form)
}

// StepError names the step that blocked Complete.
type StepError struct {
	Step int
}

func (e *StepError) Error() string {
	return "onboarding step " + stepNames[e.Step] + " is incomplete"
}

func (e *StepError) Unwrap() error { return ErrStepIncomplete }

var stepNames = map[int]string{
	StepName:    "name",
	StepGoal:    "goal",
	StepReview:  "review",
	StepContact: "contact",
}

// Complete drives a form that arrives in one piece (an API call rather than
// a browser session) through every step and submits it.
func Complete(ctx context.Context, form FormData, s Submitter) (*Result, error) {
	w := New(form)
	for w.Step() < LastStep {
		if err := w.Next(); err != nil {
			return nil, &StepError{Step: w.Step()}
		}
	}
	if !CanAdvance(w.Step(), w.Form) {
		return nil, &StepError{Step: w.Step()}
	}
	return w.Submit(ctx, s)
}
