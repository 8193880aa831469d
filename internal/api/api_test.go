package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/engagement"
	"alcyxob/fitcoach/internal/service"
	"alcyxob/fitcoach/internal/telegram"
	"alcyxob/fitcoach/internal/wizard"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// --- stub services ---

type stubAuth struct {
	service.AuthService
	session *service.Session
	err     error
}

func (s stubAuth) TelegramLogin(context.Context, telegram.LoginData) (*service.Session, error) {
	return s.session, s.err
}

func (s stubAuth) Register(_ context.Context, name, email, _, handle string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.User{ID: primitive.NewObjectID(), Name: name, Email: email, Role: domain.RoleTrainer, TelegramHandle: handle}, nil
}

type stubClient struct {
	service.ClientService
	onboardTrainer *primitive.ObjectID
	onboardErr     error
	warnings       []string
	logged         domain.WorkoutRecord
}

func (s *stubClient) Onboard(_ context.Context, form wizard.FormData, trainerID *primitive.ObjectID) (*wizard.Result, error) {
	s.onboardTrainer = trainerID
	if s.onboardErr != nil {
		return nil, s.onboardErr
	}
	return &wizard.Result{Client: &domain.Client{ID: primitive.NewObjectID(), Name: form.Name}, Warnings: s.warnings}, nil
}

func (s *stubClient) LogWorkout(_ context.Context, _ primitive.ObjectID, w domain.WorkoutRecord) (*domain.WorkoutRecord, error) {
	if _, ok := domain.ParseWorkoutDate(w.Date); !ok {
		return nil, service.ErrInvalidWorkoutDate
	}
	s.logged = w
	return &w, nil
}

type stubTrainer struct {
	service.TrainerService
	plan    domain.WeeklyPlan
	planErr error
}

func (s *stubTrainer) AssignPlan(_ context.Context, _, clientID primitive.ObjectID, plan domain.WeeklyPlan) (*service.ClientView, []string, error) {
	if s.planErr != nil {
		return nil, nil, s.planErr
	}
	s.plan = plan
	return &service.ClientView{Client: domain.Client{ID: clientID, WeeklyPlan: plan}}, []string{"not delivered"}, nil
}

func (s *stubTrainer) GetManagedClients(context.Context, primitive.ObjectID) ([]service.ClientView, error) {
	return nil, nil
}

func (s *stubTrainer) ExportPlan(_ context.Context, _, clientID primitive.ObjectID) (*excelize.File, *domain.Client, error) {
	f := excelize.NewFile()
	if err := f.SetCellValue("Sheet1", "A1", "Anna"); err != nil {
		return nil, nil, err
	}
	return f, &domain.Client{ID: clientID, Name: "Anna Smith"}, nil
}

type stubAssistant struct {
	service.AssistantService
	role domain.Role
}

func (s *stubAssistant) Chat(_ context.Context, _ primitive.ObjectID, role domain.Role, message string) (string, error) {
	s.role = role
	return "echo: " + message, nil
}

// --- helpers ---

type testServer struct {
	router    *gin.Engine
	client    *stubClient
	trainer   *stubTrainer
	assistant *stubAssistant
}

func newTestServer(auth stubAuth) *testServer {
	ts := &testServer{
		router:    gin.New(),
		client:    &stubClient{},
		trainer:   &stubTrainer{},
		assistant: &stubAssistant{},
	}
	SetupRoutes(ts.router, testSecret, false, Services{
		Auth:      auth,
		Client:    ts.client,
		Trainer:   ts.trainer,
		Assistant: ts.assistant,
	})
	return ts
}

func token(t *testing.T, id primitive.ObjectID, role domain.Role) string {
	t.Helper()
	claims := &service.Claims{
		UserID: id.Hex(),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func (ts *testServer) do(method, path, bearer string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// --- tests ---

func TestAuthAndRoleMiddleware(t *testing.T) {
	ts := newTestServer(stubAuth{})
	clientToken := token(t, primitive.NewObjectID(), domain.RoleClient)

	tests := []struct {
		name   string
		bearer string
		path   string
		want   int
	}{
		{"no header", "", "/api/v1/me", http.StatusUnauthorized},
		{"garbage token", "nope", "/api/v1/me", http.StatusUnauthorized},
		{"valid token", clientToken, "/api/v1/me", http.StatusOK},
		{"client on trainer route", clientToken, "/api/v1/trainer/clients", http.StatusForbidden},
		{"trainer on trainer route", token(t, primitive.NewObjectID(), domain.RoleTrainer), "/api/v1/trainer/clients", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(http.MethodGet, tt.path, tt.bearer, nil)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestManagedClientsIsEmptyArray(t *testing.T) {
	ts := newTestServer(stubAuth{})
	w := ts.do(http.MethodGet, "/api/v1/trainer/clients", token(t, primitive.NewObjectID(), domain.RoleTrainer), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestValidateStep(t *testing.T) {
	ts := newTestServer(stubAuth{})
	goal := domain.GoalEndurance

	tests := []struct {
		name string
		step int
		form wizard.FormData
		want bool
	}{
		{"name present", wizard.StepName, wizard.FormData{Name: "Anna"}, true},
		{"name blank", wizard.StepName, wizard.FormData{Name: "  "}, false},
		{"goal without equipment", wizard.StepGoal, wizard.FormData{Goal: &goal}, false},
		{"review", wizard.StepReview, wizard.FormData{}, true},
		{"unknown step", 9, wizard.FormData{Name: "Anna"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(http.MethodPost, "/api/v1/onboarding/validate", "", ValidateStepRequest{Step: tt.step, Form: tt.form})
			require.Equal(t, http.StatusOK, w.Code)
			body := decode(t, w)
			assert.Equal(t, tt.want, body["canAdvance"])
			assert.EqualValues(t, tt.step, body["step"])
		})
	}
}

func TestOnboardingSubmit(t *testing.T) {
	ts := newTestServer(stubAuth{})
	ts.client.warnings = []string{"Telegram notifications are disabled"}

	w := ts.do(http.MethodPost, "/api/v1/onboarding", "", wizard.FormData{Name: "Anna"})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, []any{"Telegram notifications are disabled"}, body["warnings"])
	assert.Nil(t, ts.client.onboardTrainer)

	ts.client.onboardErr = &wizard.StepError{Step: wizard.StepGoal}
	w = ts.do(http.MethodPost, "/api/v1/onboarding", "", wizard.FormData{Name: "Anna"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.EqualValues(t, wizard.StepGoal, decode(t, w)["step"])

	ts.client.onboardErr = service.ErrHandleTaken
	w = ts.do(http.MethodPost, "/api/v1/onboarding", "", wizard.FormData{Name: "Anna"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTrainerCreateClientAssignsCaller(t *testing.T) {
	ts := newTestServer(stubAuth{})
	trainerID := primitive.NewObjectID()

	w := ts.do(http.MethodPost, "/api/v1/trainer/clients", token(t, trainerID, domain.RoleTrainer), wizard.FormData{Name: "Bob"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, ts.client.onboardTrainer)
	assert.Equal(t, trainerID, *ts.client.onboardTrainer)
}

func TestAssignPlan(t *testing.T) {
	ts := newTestServer(stubAuth{})
	bearer := token(t, primitive.NewObjectID(), domain.RoleTrainer)
	path := "/api/v1/trainer/clients/" + primitive.NewObjectID().Hex() + "/plan"

	w := ts.do(http.MethodPut, path, bearer, map[string]any{
		"Mon":    []domain.PlannedExercise{{Name: "Squat", Sets: 3, Reps: "8"}},
		"friday": []domain.PlannedExercise{{Name: "Deadlift"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, ts.trainer.plan[domain.Monday], 1)
	assert.Len(t, ts.trainer.plan[domain.Friday], 1)
	assert.Equal(t, []any{"not delivered"}, decode(t, w)["warnings"])

	w = ts.do(http.MethodPut, path, bearer, map[string]any{"someday": []any{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPut, "/api/v1/trainer/clients/not-an-id/plan", bearer, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	ts.trainer.planErr = service.ErrClientNotManaged
	w = ts.do(http.MethodPut, path, bearer, map[string]any{})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestExportPlan(t *testing.T) {
	ts := newTestServer(stubAuth{})
	path := "/api/v1/trainer/clients/" + primitive.NewObjectID().Hex() + "/plan/export"

	w := ts.do(http.MethodGet, path, token(t, primitive.NewObjectID(), domain.RoleTrainer), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Anna_Smith_plan.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Sheet1", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Anna", v)
}

func TestLogWorkout(t *testing.T) {
	ts := newTestServer(stubAuth{})
	bearer := token(t, primitive.NewObjectID(), domain.RoleClient)

	w := ts.do(http.MethodPost, "/api/v1/client/workouts", bearer, domain.WorkoutRecord{Date: "2024-10-15"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "2024-10-15", ts.client.logged.Date)

	w = ts.do(http.MethodPost, "/api/v1/client/workouts", bearer, domain.WorkoutRecord{Date: "yesterday"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssistantChatUsesTokenRole(t *testing.T) {
	ts := newTestServer(stubAuth{})

	w := ts.do(http.MethodPost, "/api/v1/assistant/chat", token(t, primitive.NewObjectID(), domain.RoleTrainer), ChatRequest{Message: "clients?"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "echo: clients?", decode(t, w)["reply"])
	assert.Equal(t, domain.RoleTrainer, ts.assistant.role)

	w = ts.do(http.MethodPost, "/api/v1/assistant/chat", token(t, primitive.NewObjectID(), domain.RoleClient), map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTelegramLoginErrors(t *testing.T) {
	login := telegram.LoginData{ID: 1, AuthDate: 1, Hash: "abc", Username: "anna"}

	ts := newTestServer(stubAuth{err: service.ErrTelegramLogin})
	assert.Equal(t, http.StatusUnauthorized, ts.do(http.MethodPost, "/api/v1/auth/telegram", "", login).Code)

	ts = newTestServer(stubAuth{err: service.ErrAccountNotFound})
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodPost, "/api/v1/auth/telegram", "", login).Code)

	ts = newTestServer(stubAuth{session: &service.Session{Token: "t", Role: domain.RoleClient}})
	w := ts.do(http.MethodPost, "/api/v1/auth/telegram", "", login)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "client", decode(t, w)["role"])

	w = ts.do(http.MethodPost, "/api/v1/auth/telegram", "", map[string]string{"username": "anna"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterTakenHandleIsConflict(t *testing.T) {
	req := map[string]string{
		"name": "Coach", "email": "coach@example.com", "password": "pa55word", "telegramHandle": "@Anna_Fit",
	}

	ts := newTestServer(stubAuth{err: service.ErrHandleTaken})
	w := ts.do(http.MethodPost, "/api/v1/auth/register", "", req)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, service.ErrHandleTaken.Error(), decode(t, w)["error"])

	ts = newTestServer(stubAuth{})
	w = ts.do(http.MethodPost, "/api/v1/auth/register", "", req)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "anna_fit", decode(t, w)["telegramHandle"])
}

func TestStatusIsSerialized(t *testing.T) {
	view := service.ClientView{
		Client: domain.Client{Name: "Anna"},
		Status: engagement.Status{Label: engagement.LabelFading, Severity: engagement.SeverityWarning},
	}
	raw, err := json.Marshal(view)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"status":{"label":"fading","severity":"warning"}`)
	assert.Contains(t, string(raw), `"name":"Anna"`)
}
