package api

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/service"
	"alcyxob/fitcoach/internal/wizard"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type TrainerHandler struct {
	trainerService service.TrainerService
	clientService  service.ClientService
}

func NewTrainerHandler(trainerService service.TrainerService, clientService service.ClientService) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService, clientService: clientService}
}

// --- DTOs ---

type ClaimClientRequest struct {
	Handle string `json:"handle" binding:"required"`
}

// PlanRequest maps weekday names (full or three-letter) to exercises.
type PlanRequest map[string][]domain.PlannedExercise

type AssignPlanResponse struct {
	Client   service.ClientView `json:"client"`
	Warnings []string           `json:"warnings,omitempty"`
}

type VideoUploadRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// --- Client Management ---

// GetManagedClients godoc
// @Summary List my clients with engagement status
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.ClientView
// @Router /trainer/clients [get]
func (h *TrainerHandler) GetManagedClients(c *gin.Context) {
	trainerID, ok := callerID(c)
	if !ok {
		return
	}
	clients, err := h.trainerService.GetManagedClients(c.Request.Context(), trainerID)
	if err != nil {
		respondError(c, err, "retrieve clients")
		return
	}
	if clients == nil {
		clients = []service.ClientView{}
	}
	c.JSON(http.StatusOK, clients)
}

// CreateClient runs the onboarding form on behalf of a client; the new client
// is assigned to the calling trainer.
func (h *TrainerHandler) CreateClient(c *gin.Context) {
	trainerID, ok := callerID(c)
	if !ok {
		return
	}
	var form wizard.FormData
	if err := c.ShouldBindJSON(&form); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	res, err := h.clientService.Onboard(c.Request.Context(), form, &trainerID)
	if err != nil {
		respondError(c, err, "create client")
		return
	}
	c.JSON(http.StatusCreated, OnboardingResponse{Client: res.Client, Warnings: res.Warnings})
}

// ClaimClient attaches a self-registered client by Telegram username.
func (h *TrainerHandler) ClaimClient(c *gin.Context) {
	trainerID, ok := callerID(c)
	if !ok {
		return
	}
	var req ClaimClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	client, err := h.trainerService.ClaimClient(c.Request.Context(), trainerID, req.Handle)
	if err != nil {
		respondError(c, err, "claim client")
		return
	}
	c.JSON(http.StatusOK, client)
}

// --- Plans ---

// AssignPlan godoc
// @Summary Replace a client's weekly plan
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Param plan body PlanRequest true "Weekday to exercises"
// @Success 200 {object} AssignPlanResponse
// @Failure 403 {object} gin.H "Client not managed by this trainer"
// @Router /trainer/clients/{clientId}/plan [put]
func (h *TrainerHandler) AssignPlan(c *gin.Context) {
	trainerID, ok := callerID(c)
	if !ok {
		return
	}
	clientID, ok := pathObjectID(c, "clientId")
	if !ok {
		return
	}
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	plan := make(domain.WeeklyPlan, len(req))
	for key, exercises := range req {
		day, ok := domain.ParseWeekday(key)
		if !ok {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Unknown weekday %q", key))
			return
		}
		plan[day] = append(plan[day], exercises...)
	}

	client, warnings, err := h.trainerService.AssignPlan(c.Request.Context(), trainerID, clientID, plan)
	if err != nil {
		respondError(c, err, "assign plan")
		return
	}
	c.JSON(http.StatusOK, AssignPlanResponse{Client: *client, Warnings: warnings})
}

// ExportPlan streams the client's plan as an .xlsx workbook.
func (h *TrainerHandler) ExportPlan(c *gin.Context) {
	trainerID, ok := callerID(c)
	if !ok {
		return
	}
	clientID, ok := pathObjectID(c, "clientId")
	if !ok {
		return
	}

	wb, client, err := h.trainerService.ExportPlan(c.Request.Context(), trainerID, clientID)
	if err != nil {
		respondError(c, err, "export plan")
		return
	}
	defer func() {
		if err := wb.Close(); err != nil {
			log.Printf("WARN: Closing workbook for client %s: %v", clientID.Hex(), err)
		}
	}()

	fileName := exportFileName(client.Name)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="plan.xlsx"; filename*=UTF-8''%s`, url.PathEscape(fileName)))
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	if err := wb.Write(c.Writer); err != nil {
		log.Printf("ERROR: Writing workbook for client %s: %v", clientID.Hex(), err)
	}
}

func exportFileName(clientName string) string {
	name := strings.Join(strings.Fields(clientName), "_")
	if name == "" {
		name = "client"
	}
	return name + "_plan.xlsx"
}

// --- Videos ---

// RequestVideoUploadURL returns a presigned PUT for an exercise demo video.
func (h *TrainerHandler) RequestVideoUploadURL(c *gin.Context) {
	trainerID, ok := callerID(c)
	if !ok {
		return
	}
	var req VideoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	up, err := h.trainerService.RequestVideoUploadURL(c.Request.Context(), trainerID, req.FileName, req.ContentType)
	if err != nil {
		respondError(c, err, "prepare video upload")
		return
	}
	c.JSON(http.StatusOK, up)
}
