package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/engagement"
	"alcyxob/fitcoach/internal/export"
	"alcyxob/fitcoach/internal/repository"
	"alcyxob/fitcoach/internal/storage"
	"alcyxob/fitcoach/internal/telegram"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrClientAlreadyAssigned = errors.New("client is already assigned to a trainer")
	ErrClientNotManaged      = errors.New("client is not managed by this trainer")
	ErrInvalidContentType    = errors.New("only video uploads are allowed")
	ErrStorageUnavailable    = errors.New("file storage is not configured")
)

const planUpdatedText = "Your coach updated your weekly plan. Training days: %s."

// UploadURL is handed to the dashboard so the browser can PUT the video
// straight to the bucket and then reference ObjectKey from a plan.
type UploadURL struct {
	UploadURL string    `json:"uploadUrl"`
	ObjectKey string    `json:"objectKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type TrainerService interface {
	GetManagedClients(ctx context.Context, trainerID primitive.ObjectID) ([]ClientView, error)
	ClaimClient(ctx context.Context, trainerID primitive.ObjectID, handle string) (*ClientView, error)
	AssignPlan(ctx context.Context, trainerID, clientID primitive.ObjectID, plan domain.WeeklyPlan) (*ClientView, []string, error)
	ExportPlan(ctx context.Context, trainerID, clientID primitive.ObjectID) (*excelize.File, *domain.Client, error)
	RequestVideoUploadURL(ctx context.Context, trainerID primitive.ObjectID, fileName, contentType string) (*UploadURL, error)
}

type trainerService struct {
	userRepo    repository.UserRepository
	clientRepo  repository.ClientRepository
	fileStorage storage.FileStorage
	notifier    notifier
	now         func() time.Time
}

func NewTrainerService(
	userRepo repository.UserRepository,
	clientRepo repository.ClientRepository,
	chatRepo repository.ChatRepository,
	fileStorage storage.FileStorage,
	messenger telegram.Messenger,
) TrainerService {
	return &trainerService{
		userRepo:    userRepo,
		clientRepo:  clientRepo,
		fileStorage: fileStorage,
		notifier:    notifier{chatRepo: chatRepo, messenger: messenger},
		now:         time.Now,
	}
}

// === Client Management ===

func (s *trainerService) GetManagedClients(ctx context.Context, trainerID primitive.ObjectID) ([]ClientView, error) {
	clients, err := s.clientRepo.GetByTrainerID(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	views := make([]ClientView, len(clients))
	for i := range clients {
		views[i] = ClientView{Client: clients[i], Status: engagement.Classify(&clients[i], now)}
	}
	return views, nil
}

// ClaimClient attaches a self-registered client, found by Telegram handle,
// to the trainer.
func (s *trainerService) ClaimClient(ctx context.Context, trainerID primitive.ObjectID, handle string) (*ClientView, error) {
	// 1. Find the client
	client, err := s.clientRepo.GetByHandle(ctx, domain.NormalizeHandle(handle))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	// 2. Check current assignment
	if client.HasTrainer() {
		if *client.TrainerID == trainerID {
			return &ClientView{Client: *client, Status: engagement.Classify(client, s.now())}, nil
		}
		return nil, ErrClientAlreadyAssigned
	}

	// 3. Link both sides
	if err := s.clientRepo.SetTrainer(ctx, client.ID, trainerID); err != nil {
		return nil, fmt.Errorf("setting trainer on client: %w", err)
	}
	if err := s.userRepo.AddClientIDToTrainer(ctx, trainerID, client.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, fmt.Errorf("adding client to trainer: %w", err)
	}
	client.TrainerID = &trainerID
	log.Printf("INFO: Trainer %s claimed client %s", trainerID.Hex(), client.ID.Hex())

	return &ClientView{Client: *client, Status: engagement.Classify(client, s.now())}, nil
}

// === Plans ===

// AssignPlan replaces the client's weekly plan and tells the client over
// Telegram. Notification problems come back as warnings.
func (s *trainerService) AssignPlan(ctx context.Context, trainerID, clientID primitive.ObjectID, plan domain.WeeklyPlan) (*ClientView, []string, error) {
	client, err := s.managedClient(ctx, trainerID, clientID)
	if err != nil {
		return nil, nil, err
	}
	for _, exercises := range plan {
		for _, e := range exercises {
			if strings.TrimSpace(e.Name) == "" {
				return nil, nil, ErrInvalidExercise
			}
		}
	}
	if plan == nil {
		plan = domain.WeeklyPlan{}
	}

	if err := s.clientRepo.ReplacePlan(ctx, clientID, plan); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrClientNotFound
		}
		return nil, nil, err
	}
	client.WeeklyPlan = plan

	warnings := s.notifier.notify(ctx, client.TelegramHandle, telegram.Message{
		Text: fmt.Sprintf(planUpdatedText, trainingDays(plan)),
	})
	return &ClientView{Client: *client, Status: engagement.Classify(client, s.now())}, warnings, nil
}

// ExportPlan renders the client's plan and workout log as a workbook. The
// caller closes the file.
func (s *trainerService) ExportPlan(ctx context.Context, trainerID, clientID primitive.ObjectID) (*excelize.File, *domain.Client, error) {
	client, err := s.managedClient(ctx, trainerID, clientID)
	if err != nil {
		return nil, nil, err
	}
	f, err := export.PlanWorkbook(client, s.now())
	if err != nil {
		return nil, nil, fmt.Errorf("building workbook: %w", err)
	}
	return f, client, nil
}

// === Videos ===

func (s *trainerService) RequestVideoUploadURL(ctx context.Context, trainerID primitive.ObjectID, fileName, contentType string) (*UploadURL, error) {
	if s.fileStorage == nil {
		return nil, ErrStorageUnavailable
	}
	if !strings.HasPrefix(contentType, "video/") {
		return nil, ErrInvalidContentType
	}

	objectKey := fmt.Sprintf("videos/%s/%s%s", trainerID.Hex(), uuid.NewString(), strings.ToLower(path.Ext(fileName)))
	url, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		log.Printf("ERROR: Failed to presign upload for trainer %s: %v", trainerID.Hex(), err)
		return nil, fmt.Errorf("could not prepare upload: %w", err)
	}
	return &UploadURL{
		UploadURL: url,
		ObjectKey: objectKey,
		ExpiresAt: s.now().Add(storage.DefaultPresignedURLExpiry),
	}, nil
}

// managedClient loads a client and checks it belongs to the trainer.
func (s *trainerService) managedClient(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if !client.HasTrainer() || *client.TrainerID != trainerID {
		return nil, ErrClientNotManaged
	}
	return client, nil
}

func trainingDays(plan domain.WeeklyPlan) string {
	var days []string
	for _, d := range domain.Weekdays {
		if len(plan[d]) > 0 {
			days = append(days, string(d))
		}
	}
	if len(days) == 0 {
		return "none yet"
	}
	return strings.Join(days, ", ")
}
