package service

import (
	"context"
	"errors"
	"log"
	"time"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/repository"
	"alcyxob/fitcoach/internal/telegram"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrTelegramLogin        = errors.New("telegram login could not be verified")
	ErrTelegramNoHandle     = errors.New("telegram account has no username")
	ErrAccountNotFound      = errors.New("no trainer or client is registered for this telegram username")
)

// Session is what a successful login returns.
type Session struct {
	Token   string      `json:"token"`
	Role    domain.Role `json:"role"`
	Subject string      `json:"subject"` // trainer or client ID
	Name    string      `json:"name"`
}

type AuthService interface {
	Register(ctx context.Context, name, email, password, telegramHandle string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	TelegramLogin(ctx context.Context, data telegram.LoginData) (*Session, error)
}

type authService struct {
	userRepo      repository.UserRepository
	clientRepo    repository.ClientRepository
	profileRepo   repository.ProfileRepository
	chatRepo      repository.ChatRepository
	jwtSecret     string
	jwtExpiration time.Duration
	botToken      string
	loginMaxAge   time.Duration
	now           func() time.Time
}

// AuthConfig groups the secrets the auth service needs.
type AuthConfig struct {
	JWTSecret     string
	JWTExpiration time.Duration
	BotToken      string
	LoginMaxAge   time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	clientRepo repository.ClientRepository,
	profileRepo repository.ProfileRepository,
	chatRepo repository.ChatRepository,
	cfg AuthConfig,
) AuthService {
	if cfg.JWTSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if cfg.JWTExpiration <= 0 {
		cfg.JWTExpiration = 24 * time.Hour
	}
	return &authService{
		userRepo:      userRepo,
		clientRepo:    clientRepo,
		profileRepo:   profileRepo,
		chatRepo:      chatRepo,
		jwtSecret:     cfg.JWTSecret,
		jwtExpiration: cfg.JWTExpiration,
		botToken:      cfg.BotToken,
		loginMaxAge:   cfg.LoginMaxAge,
		now:           time.Now,
	}
}

// Register creates a trainer account.
func (s *authService) Register(ctx context.Context, name, email, password, telegramHandle string) (*domain.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, errors.New("name, email and password cannot be empty")
	}

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	handle := domain.NormalizeHandle(telegramHandle)
	if handle != "" {
		if err := s.checkHandleFree(ctx, handle); err != nil {
			return nil, err
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		Name:           name,
		Email:          email,
		PasswordHash:   string(hashedPassword),
		Role:           domain.RoleTrainer,
		TelegramHandle: handle,
	}
	if _, err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

// checkHandleFree fails with ErrHandleTaken when a trainer or a client already
// owns handle. Telegram login resolves a handle to exactly one account.
func (s *authService) checkHandleFree(ctx context.Context, handle string) error {
	if _, err := s.userRepo.GetByTelegramHandle(ctx, handle); err == nil {
		return ErrHandleTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if _, err := s.clientRepo.GetByHandle(ctx, handle); err == nil {
		return ErrHandleTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

// Login authenticates a trainer by email and password.
func (s *authService) Login(ctx context.Context, email, password string) (token string, user *domain.User, err error) {
	if email == "" || password == "" {
		return "", nil, ErrAuthenticationFailed
	}

	user, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err = s.generateJWT(user.ID, user.Role)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, nil
}

// TelegramLogin verifies a login widget payload and logs in whichever
// trainer or client owns the Telegram username.
func (s *authService) TelegramLogin(ctx context.Context, data telegram.LoginData) (*Session, error) {
	if s.botToken == "" {
		return nil, ErrTelegramLogin
	}
	if err := telegram.VerifyLogin(data, s.botToken, s.loginMaxAge, s.now()); err != nil {
		log.Printf("WARN: Rejected telegram login for id %d: %v", data.ID, err)
		return nil, ErrTelegramLogin
	}
	handle := domain.NormalizeHandle(data.Username)
	if handle == "" {
		return nil, ErrTelegramNoHandle
	}

	session, err := s.resolveHandle(ctx, handle)
	if err != nil {
		return nil, err
	}

	// Private chat ID equals the Telegram user ID, so login is enough to
	// reach the user even if they never sent /start.
	if err := s.chatRepo.SaveChatID(ctx, handle, data.ID); err != nil {
		log.Printf("WARN: Could not record chat for @%s: %v", handle, err)
	}
	s.ensureProfile(ctx, data, handle, session.Role)

	token, err := s.generateJWT(mustObjectID(session.Subject), session.Role)
	if err != nil {
		return nil, ErrTokenGeneration
	}
	session.Token = token
	return session, nil
}

func (s *authService) resolveHandle(ctx context.Context, handle string) (*Session, error) {
	trainer, err := s.userRepo.GetByTelegramHandle(ctx, handle)
	if err == nil {
		return &Session{Role: domain.RoleTrainer, Subject: trainer.ID.Hex(), Name: trainer.Name}, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	client, err := s.clientRepo.GetByHandle(ctx, handle)
	if err == nil {
		return &Session{Role: domain.RoleClient, Subject: client.ID.Hex(), Name: client.Name}, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	return nil, err
}

// ensureProfile inserts a profile on first login. Failures are logged only.
func (s *authService) ensureProfile(ctx context.Context, data telegram.LoginData, handle string, role domain.Role) {
	_, err := s.profileRepo.GetByTelegramID(ctx, data.ID)
	if err == nil {
		return
	}
	if !errors.Is(err, repository.ErrNotFound) {
		log.Printf("WARN: Profile lookup for telegram id %d failed: %v", data.ID, err)
		return
	}
	_, err = s.profileRepo.Insert(ctx, &domain.Profile{
		TelegramID:     data.ID,
		TelegramHandle: handle,
		FirstName:      data.FirstName,
		LastName:       data.LastName,
		PhotoURL:       data.PhotoURL,
		Role:           role,
	})
	if err != nil && !errors.Is(err, repository.ErrDuplicate) {
		log.Printf("WARN: Could not insert profile for @%s: %v", handle, err)
	}
}

// Claims carried by every token. The API middleware parses the same shape.
type Claims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

func (s *authService) generateJWT(id primitive.ObjectID, role domain.Role) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: id.Hex(),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "fitcoach",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
}

func mustObjectID(hex string) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		panic(err)
	}
	return id
}
