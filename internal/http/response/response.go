package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/classroom-backend/internal/platform/apierr"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
)

const internalMessage = "Internal server error"

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Envelope is the shape of every JSON body the API writes.
type Envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

func Respond(c *gin.Context, status int, payload any) {
	c.JSON(status, Envelope{Success: true, Data: payload})
}

func RespondOK(c *gin.Context, payload any) {
	Respond(c, http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	Respond(c, http.StatusCreated, payload)
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	if status >= http.StatusInternalServerError && code == apierr.CodeInternal {
		msg = internalMessage
	}
	c.AbortWithStatusJSON(status, Envelope{
		Success: false,
		Error:   &APIError{Message: msg, Code: code},
	})
}

// RespondErr renders a service error. *apierr.Error keeps its status and
// code; anything else is logged and reported as a bare 500.
func RespondErr(c *gin.Context, log *logger.Logger, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		if ae.Status >= http.StatusInternalServerError && log != nil {
			log.Error("request failed", "error", ae.Err, "path", c.FullPath())
		}
		RespondError(c, ae.Status, ae.Code, ae.Err)
		return
	}
	if log != nil {
		log.Error("request failed", "error", err, "path", c.FullPath())
	}
	RespondError(c, http.StatusInternalServerError, apierr.CodeInternal, err)
}
