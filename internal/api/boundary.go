package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Recovery actions offered to the dashboard after a crash.
const (
	ActionRetry  = "retry"
	ActionReload = "reload"
)

// RecoveryPayload is the body of a 500 produced by Boundary.
type RecoveryPayload struct {
	Error      string   `json:"error"`
	IncidentID string   `json:"incidentId"`
	Actions    []string `json:"actions"`
	Detail     string   `json:"detail,omitempty"` // development only
}

// Boundary turns a panic anywhere below it into a recovery payload instead of
// a dropped connection. In production the diagnostics go to the log and the
// client only sees the incident ID; outside production the panic message is
// returned in Detail.
func Boundary(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if err, ok := r.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(r)
			}

			incident := uuid.NewString()
			msg := fmt.Sprint(r)
			if production {
				log.Printf("ERROR: incident=%s panic=%q url=%s user_agent=%q at=%s\n%s",
					incident, msg, c.Request.URL.String(), c.Request.UserAgent(),
					time.Now().UTC().Format(time.RFC3339), debug.Stack())
			}

			if c.Writer.Written() {
				c.Abort()
				return
			}
			payload := RecoveryPayload{
				Error:      "Something went wrong. You can retry the request or reload the page.",
				IncidentID: incident,
				Actions:    []string{ActionRetry, ActionReload},
			}
			if !production {
				payload.Detail = msg
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, payload)
		}()
		c.Next()
	}
}
