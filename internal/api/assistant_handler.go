package api

import (
	"fmt"
	"net/http"

	"alcyxob/fitcoach/internal/service"

	"github.com/gin-gonic/gin"
)

type AssistantHandler struct {
	assistantService service.AssistantService
}

func NewAssistantHandler(assistantService service.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistantService: assistantService}
}

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

// Chat answers a dashboard message. Trainers get the trainer keyword chain,
// clients the client one.
func (h *AssistantHandler) Chat(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	role, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	reply, err := h.assistantService.Chat(c.Request.Context(), userID, role, req.Message)
	if err != nil {
		respondError(c, err, "answer message")
		return
	}
	c.JSON(http.StatusOK, ChatResponse{Reply: reply})
}
