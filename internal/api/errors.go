package api

import (
	"errors"
	"log"
	"net/http"

	"alcyxob/fitcoach/internal/service"
	"alcyxob/fitcoach/internal/wizard"

	"github.com/gin-gonic/gin"
)

// errorStatus maps service errors onto HTTP codes. Anything unknown is a 500.
var errorStatus = []struct {
	err  error
	code int
}{
	{service.ErrUserAlreadyExists, http.StatusConflict},
	{service.ErrHandleTaken, http.StatusConflict},
	{service.ErrClientAlreadyAssigned, http.StatusConflict},
	{service.ErrAuthenticationFailed, http.StatusUnauthorized},
	{service.ErrTelegramLogin, http.StatusUnauthorized},
	{service.ErrTelegramNoHandle, http.StatusBadRequest},
	{service.ErrAccountNotFound, http.StatusNotFound},
	{service.ErrClientNotFound, http.StatusNotFound},
	{service.ErrTrainerNotFound, http.StatusNotFound},
	{service.ErrClientNotManaged, http.StatusForbidden},
	{service.ErrInvalidWorkoutDate, http.StatusBadRequest},
	{service.ErrInvalidExercise, http.StatusBadRequest},
	{service.ErrInvalidContentType, http.StatusBadRequest},
	{service.ErrStorageUnavailable, http.StatusServiceUnavailable},
}

// respondError writes the mapped status. Internal errors are logged with
// action and hidden from the client.
func respondError(c *gin.Context, err error, action string) {
	var stepErr *wizard.StepError
	if errors.As(err, &stepErr) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": stepErr.Error(), "step": stepErr.Step})
		return
	}
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			abortWithError(c, e.code, err.Error())
			return
		}
	}
	log.Printf("ERROR: %s: %v", action, err)
	abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred while trying to "+action)
}
