package api

import (
	"fmt"
	"net/http"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/service"

	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	clientService service.ClientService
}

func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// GetMe godoc
// @Summary My profile with engagement status
// @Tags Client
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.ClientView
// @Router /client/me [get]
func (h *ClientHandler) GetMe(c *gin.Context) {
	clientID, ok := callerID(c)
	if !ok {
		return
	}
	me, err := h.clientService.GetMe(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, err, "retrieve profile")
		return
	}
	c.JSON(http.StatusOK, me)
}

// GetPlan godoc
// @Summary My weekly plan
// @Description Exercises with a demo video carry a short-lived download URL.
// @Tags Client
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.PlanView
// @Router /client/plan [get]
func (h *ClientHandler) GetPlan(c *gin.Context) {
	clientID, ok := callerID(c)
	if !ok {
		return
	}
	plan, err := h.clientService.GetPlan(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, err, "retrieve plan")
		return
	}
	c.JSON(http.StatusOK, plan)
}

// LogWorkout records a completed workout. An empty date means now.
func (h *ClientHandler) LogWorkout(c *gin.Context) {
	clientID, ok := callerID(c)
	if !ok {
		return
	}
	var req domain.WorkoutRecord
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	workout, err := h.clientService.LogWorkout(c.Request.Context(), clientID, req)
	if err != nil {
		respondError(c, err, "log workout")
		return
	}
	c.JSON(http.StatusCreated, workout)
}
