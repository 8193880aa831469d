package service

import (
	"context"
	"sync"
	"time"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/repository"
	"alcyxob/fitcoach/internal/telegram"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memUsers struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
}

func newMemUsers() *memUsers { return &memUsers{users: map[primitive.ObjectID]*domain.User{}} }

func (m *memUsers) Create(_ context.Context, u *domain.User) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	cp := *u
	m.users[u.ID] = &cp
	return u.ID, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) GetByTelegramHandle(_ context.Context, handle string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.TelegramHandle == handle {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) ListTrainers(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memUsers) AddClientIDToTrainer(_ context.Context, trainerID, clientID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[trainerID]
	if !ok {
		return repository.ErrNotFound
	}
	u.ClientIDs = append(u.ClientIDs, clientID)
	return nil
}

type memClients struct {
	mu      sync.Mutex
	clients map[primitive.ObjectID]*domain.Client
	saveErr error
}

func newMemClients() *memClients { return &memClients{clients: map[primitive.ObjectID]*domain.Client{}} }

func (m *memClients) Save(_ context.Context, c *domain.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if c.ID.IsZero() {
		for _, existing := range m.clients {
			if c.TelegramHandle != "" && existing.TelegramHandle == c.TelegramHandle {
				return repository.ErrDuplicate
			}
		}
		c.ID = primitive.NewObjectID()
	}
	cp := *c
	m.clients[c.ID] = &cp
	return nil
}

func (m *memClients) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.clients[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memClients) GetByHandle(_ context.Context, handle string) (*domain.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.clients {
		if c.TelegramHandle == handle {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memClients) GetByTrainerID(_ context.Context, trainerID primitive.ObjectID) ([]domain.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Client
	for _, c := range m.clients {
		if c.TrainerID != nil && *c.TrainerID == trainerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memClients) SetTrainer(_ context.Context, clientID, trainerID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clients[clientID]
	if !ok {
		return repository.ErrNotFound
	}
	id := trainerID
	c.TrainerID = &id
	return nil
}

func (m *memClients) ReplacePlan(_ context.Context, clientID primitive.ObjectID, plan domain.WeeklyPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clients[clientID]
	if !ok {
		return repository.ErrNotFound
	}
	c.WeeklyPlan = plan
	return nil
}

func (m *memClients) AppendWorkout(_ context.Context, clientID primitive.ObjectID, w domain.WorkoutRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clients[clientID]
	if !ok {
		return repository.ErrNotFound
	}
	c.CompletedWorkouts = append(c.CompletedWorkouts, w)
	return nil
}

type memProfiles struct {
	mu       sync.Mutex
	profiles []domain.Profile
}

func (m *memProfiles) Insert(_ context.Context, p *domain.Profile) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = primitive.NewObjectID()
	m.profiles = append(m.profiles, *p)
	return p.ID, nil
}

func (m *memProfiles) GetByTelegramID(_ context.Context, telegramID int64) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if p.TelegramID == telegramID {
			cp := p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

type memChats struct {
	mu    sync.Mutex
	chats map[string]int64
}

func newMemChats() *memChats { return &memChats{chats: map[string]int64{}} }

func (m *memChats) SaveChatID(_ context.Context, handle string, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chats[handle] = chatID
	return nil
}

func (m *memChats) GetChatIDByHandle(_ context.Context, handle string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.chats[handle]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return id, nil
}

// fakeMessenger records sends and returns a canned result.
type fakeMessenger struct {
	mu     sync.Mutex
	sent   []telegram.Message
	result telegram.SendResult
	err    error
}

func (f *fakeMessenger) Send(_ context.Context, msg telegram.Message) (telegram.SendResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	if f.err != nil {
		return telegram.SendResult{}, f.err
	}
	return f.result, nil
}

// fakeStorage signs URLs by echoing the key.
type fakeStorage struct {
	err error
}

func (f fakeStorage) GeneratePresignedUploadURL(_ context.Context, key, contentType string, _ time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://bucket.test/put/" + key + "?ct=" + contentType, nil
}

func (f fakeStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://bucket.test/get/" + key, nil
}

func fixedNow() time.Time {
	return time.Date(2024, 10, 16, 12, 0, 0, 0, time.UTC) // a Wednesday
}
