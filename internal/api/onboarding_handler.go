package api

import (
	"fmt"
	"net/http"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/service"
	"alcyxob/fitcoach/internal/wizard"

	"github.com/gin-gonic/gin"
)

type OnboardingHandler struct {
	clientService service.ClientService
}

func NewOnboardingHandler(clientService service.ClientService) *OnboardingHandler {
	return &OnboardingHandler{clientService: clientService}
}

type ValidateStepRequest struct {
	Step int             `json:"step"`
	Form wizard.FormData `json:"form"`
}

type ValidateStepResponse struct {
	Step       int  `json:"step"`
	CanAdvance bool `json:"canAdvance"`
}

// OnboardingResponse is returned after a successful submit. Warnings list
// best-effort steps, such as the welcome message, that did not go through.
type OnboardingResponse struct {
	Client   *domain.Client `json:"client"`
	Warnings []string       `json:"warnings,omitempty"`
}

// ValidateStep lets the form ask whether the user may move on.
func (h *OnboardingHandler) ValidateStep(c *gin.Context) {
	var req ValidateStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	c.JSON(http.StatusOK, ValidateStepResponse{Step: req.Step, CanAdvance: wizard.CanAdvance(req.Step, req.Form)})
}

// Submit godoc
// @Summary Self-registration through the onboarding form
// @Tags Onboarding
// @Accept json
// @Produce json
// @Param form body wizard.FormData true "Completed form"
// @Success 201 {object} OnboardingResponse
// @Failure 409 {object} gin.H "Telegram username already registered"
// @Failure 422 {object} gin.H "A step is incomplete"
// @Router /onboarding [post]
func (h *OnboardingHandler) Submit(c *gin.Context) {
	var form wizard.FormData
	if err := c.ShouldBindJSON(&form); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	res, err := h.clientService.Onboard(c.Request.Context(), form, nil)
	if err != nil {
		respondError(c, err, "complete onboarding")
		return
	}
	c.JSON(http.StatusCreated, OnboardingResponse{Client: res.Client, Warnings: res.Warnings})
}
