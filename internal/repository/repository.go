package repository

import (
	"alcyxob/fitcoach/internal/domain"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository stores trainer accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByTelegramHandle(ctx context.Context, handle string) (*domain.User, error)
	ListTrainers(ctx context.Context) ([]domain.User, error)
	AddClientIDToTrainer(ctx context.Context, trainerID, clientID primitive.ObjectID) error
}

// ClientRepository stores clients together with their workouts and plan.
type ClientRepository interface {
	// Save inserts the client when ID is nil, otherwise replaces it.
	Save(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error)
	GetByHandle(ctx context.Context, handle string) (*domain.Client, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Client, error)
	SetTrainer(ctx context.Context, clientID, trainerID primitive.ObjectID) error
	ReplacePlan(ctx context.Context, clientID primitive.ObjectID, plan domain.WeeklyPlan) error
	AppendWorkout(ctx context.Context, clientID primitive.ObjectID, workout domain.WorkoutRecord) error
}

// ProfileRepository stores Telegram login profiles.
type ProfileRepository interface {
	Insert(ctx context.Context, profile *domain.Profile) (primitive.ObjectID, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*domain.Profile, error)
}

// ChatRepository maps Telegram handles to chat IDs.
type ChatRepository interface {
	SaveChatID(ctx context.Context, handle string, chatID int64) error
	GetChatIDByHandle(ctx context.Context, handle string) (int64, error)
}
