package service

import (
	"context"
	"errors"
	"time"

	"alcyxob/fitcoach/internal/assistant"
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const unknownHandleReply = "I don't know you yet. Ask your coach to add your Telegram username, " +
	"or finish onboarding on the website."

// AssistantService loads a snapshot for the caller and asks the responder.
type AssistantService interface {
	Chat(ctx context.Context, userID primitive.ObjectID, role domain.Role, message string) (string, error)
	// ReplyToHandle answers a Telegram message from a client.
	ReplyToHandle(ctx context.Context, handle, text string) (string, error)
}

type assistantService struct {
	clientRepo repository.ClientRepository
	responder  *assistant.Responder
	now        func() time.Time
}

func NewAssistantService(clientRepo repository.ClientRepository, responder *assistant.Responder) AssistantService {
	if responder == nil {
		responder = assistant.NewResponder(nil)
	}
	return &assistantService{clientRepo: clientRepo, responder: responder, now: time.Now}
}

func (s *assistantService) Chat(ctx context.Context, userID primitive.ObjectID, role domain.Role, message string) (string, error) {
	mode := assistant.ModeFor(role)
	snap := assistant.Snapshot{Now: s.now()}

	if mode == assistant.ModeTrainer {
		clients, err := s.clientRepo.GetByTrainerID(ctx, userID)
		if err != nil {
			return "", err
		}
		snap.Clients = clients
	} else {
		client, err := s.clientRepo.GetByID(ctx, userID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return "", err
		}
		snap.Client = client
	}

	return s.responder.Respond(message, mode, snap), nil
}

func (s *assistantService) ReplyToHandle(ctx context.Context, handle, text string) (string, error) {
	client, err := s.clientRepo.GetByHandle(ctx, domain.NormalizeHandle(handle))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return unknownHandleReply, nil
		}
		return "", err
	}
	return s.responder.Respond(text, assistant.ModeClient, assistant.Snapshot{Client: client, Now: s.now()}), nil
}
