package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/engagement"
	"alcyxob/fitcoach/internal/repository"
	"alcyxob/fitcoach/internal/storage"
	"alcyxob/fitcoach/internal/telegram"
	"alcyxob/fitcoach/internal/wizard"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrClientNotFound     = errors.New("client not found")
	ErrHandleTaken        = errors.New("this telegram username is already registered")
	ErrInvalidWorkoutDate = errors.New("workout date must be RFC3339 or YYYY-MM-DD")
	ErrFutureWorkoutDate  = fmt.Errorf("%w and not in the future", ErrInvalidWorkoutDate)
	ErrInvalidExercise    = errors.New("every exercise needs a name")
	ErrTrainerNotFound    = errors.New("trainer not found")
)

const welcomeText = "Welcome aboard, %s! Your profile is set up. " +
	"Your coach will share your weekly plan here."

// ClientView is a client together with its engagement status, computed at
// read time.
type ClientView struct {
	domain.Client
	Status engagement.Status `json:"status"`
}

// PlanExercise is a planned exercise as the client sees it.
type PlanExercise struct {
	domain.PlannedExercise
	VideoURL string `json:"videoUrl,omitempty"`
}

// PlanView is the client's weekly plan, weekdays in calendar order.
type PlanView struct {
	Today domain.Weekday                    `json:"today"`
	Days  map[domain.Weekday][]PlanExercise `json:"days"`
}

type ClientService interface {
	// Onboard runs the onboarding wizard over form and saves the client.
	// trainerID is nil for self-registration.
	Onboard(ctx context.Context, form wizard.FormData, trainerID *primitive.ObjectID) (*wizard.Result, error)
	GetMe(ctx context.Context, clientID primitive.ObjectID) (*ClientView, error)
	GetPlan(ctx context.Context, clientID primitive.ObjectID) (*PlanView, error)
	LogWorkout(ctx context.Context, clientID primitive.ObjectID, workout domain.WorkoutRecord) (*domain.WorkoutRecord, error)
}

type clientService struct {
	userRepo    repository.UserRepository
	clientRepo  repository.ClientRepository
	fileStorage storage.FileStorage
	notifier    notifier
	now         func() time.Time
}

func NewClientService(
	userRepo repository.UserRepository,
	clientRepo repository.ClientRepository,
	chatRepo repository.ChatRepository,
	fileStorage storage.FileStorage,
	messenger telegram.Messenger,
) ClientService {
	return &clientService{
		userRepo:    userRepo,
		clientRepo:  clientRepo,
		fileStorage: fileStorage,
		notifier:    notifier{chatRepo: chatRepo, messenger: messenger},
		now:         time.Now,
	}
}

func (s *clientService) Onboard(ctx context.Context, form wizard.FormData, trainerID *primitive.ObjectID) (*wizard.Result, error) {
	return wizard.Complete(ctx, form, &onboardingSubmitter{svc: s, trainerID: trainerID})
}

// onboardingSubmitter is the wizard's terminal step: persist, then notify.
type onboardingSubmitter struct {
	svc       *clientService
	trainerID *primitive.ObjectID
}

func (o *onboardingSubmitter) Submit(ctx context.Context, form wizard.FormData) (*wizard.Result, error) {
	s := o.svc

	// 1. Normalize the handle; "@" alone passes the wizard but names nobody
	handle := domain.NormalizeHandle(form.TelegramHandle)
	if handle == "" {
		return nil, &wizard.StepError{Step: wizard.StepContact}
	}

	// A trainer's handle is reserved for that trainer's Telegram login
	if _, err := s.userRepo.GetByTelegramHandle(ctx, handle); err == nil {
		return nil, ErrHandleTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if o.trainerID != nil {
		if _, err := s.userRepo.GetByID(ctx, *o.trainerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrTrainerNotFound
			}
			return nil, err
		}
	}

	// 2. Save the client
	client := &domain.Client{
		Name:           strings.TrimSpace(form.Name),
		Age:            form.Age,
		Gender:         form.Gender,
		HeightCm:       form.HeightCm,
		WeightKg:       form.WeightKg,
		Goal:           *form.Goal,
		Equipment:      *form.Equipment,
		TelegramHandle: handle,
		TrainerID:      o.trainerID,
		WeeklyPlan:     domain.WeeklyPlan{},
	}
	if err := s.clientRepo.Save(ctx, client); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrHandleTaken
		}
		return nil, fmt.Errorf("saving client: %w", err)
	}
	log.Printf("INFO: Client %s (@%s) onboarded", client.ID.Hex(), handle)

	result := &wizard.Result{Client: client}
	if o.trainerID != nil {
		if err := s.userRepo.AddClientIDToTrainer(ctx, *o.trainerID, client.ID); err != nil {
			log.Printf("ERROR: Client %s saved but not added to trainer %s: %v", client.ID.Hex(), o.trainerID.Hex(), err)
			result.Warnings = append(result.Warnings, "client saved but not yet listed on the trainer roster")
		}
	}

	// 3. Best-effort welcome message
	result.Warnings = append(result.Warnings, s.notifier.notify(ctx, handle, telegram.Message{
		Text: fmt.Sprintf(welcomeText, client.Name),
	})...)
	return result, nil
}

func (s *clientService) GetMe(ctx context.Context, clientID primitive.ObjectID) (*ClientView, error) {
	client, err := s.getClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return &ClientView{Client: *client, Status: engagement.Classify(client, s.now())}, nil
}

// GetPlan returns the plan with a presigned download URL for every exercise
// that has a demo video. A URL that cannot be signed is left out.
func (s *clientService) GetPlan(ctx context.Context, clientID primitive.ObjectID) (*PlanView, error) {
	client, err := s.getClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	view := &PlanView{
		Today: domain.WeekdayOf(s.now().Weekday()),
		Days:  make(map[domain.Weekday][]PlanExercise, len(client.WeeklyPlan)),
	}
	for day, exercises := range client.WeeklyPlan {
		out := make([]PlanExercise, len(exercises))
		for i, e := range exercises {
			out[i] = PlanExercise{PlannedExercise: e}
			if e.VideoKey == "" || s.fileStorage == nil {
				continue
			}
			url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, e.VideoKey, storage.DefaultPresignedURLExpiry)
			if err != nil {
				log.Printf("WARN: Could not sign video %s for client %s: %v", e.VideoKey, clientID.Hex(), err)
				continue
			}
			out[i].VideoURL = url
		}
		view.Days[day] = out
	}
	return view, nil
}

func (s *clientService) LogWorkout(ctx context.Context, clientID primitive.ObjectID, workout domain.WorkoutRecord) (*domain.WorkoutRecord, error) {
	workout.Date = strings.TrimSpace(workout.Date)
	if workout.Date == "" {
		workout.Date = s.now().UTC().Format(time.RFC3339)
	} else if t, ok := domain.ParseWorkoutDate(workout.Date); !ok {
		return nil, ErrInvalidWorkoutDate
	} else if _, counts := engagement.EffectiveDate(t, s.now()); !counts {
		return nil, ErrFutureWorkoutDate
	}
	for _, e := range workout.Exercises {
		if strings.TrimSpace(e.Name) == "" {
			return nil, ErrInvalidExercise
		}
	}

	if err := s.clientRepo.AppendWorkout(ctx, clientID, workout); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return &workout, nil
}

func (s *clientService) getClient(ctx context.Context, clientID primitive.ObjectID) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}
