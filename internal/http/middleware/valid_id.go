package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/classroom-backend/internal/http/response"
	"github.com/yungbote/classroom-backend/internal/platform/apierr"
)

var errInvalidID = errors.New("Invalid id")

func paramKey(name string) string { return "param_id:" + name }

// ValidIDs rejects the request with INVALID_ID unless every named path param
// is a UUID. Parsed values are stashed for PathID.
func ValidIDs(params ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, name := range params {
			id, err := uuid.Parse(c.Param(name))
			if err != nil || id == uuid.Nil {
				response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidID, errInvalidID)
				return
			}
			c.Set(paramKey(name), id)
		}
		c.Next()
	}
}

// PathID returns the id ValidIDs parsed, falling back to parsing the param.
func PathID(c *gin.Context, name string) (uuid.UUID, bool) {
	if v, ok := c.Get(paramKey(name)); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id, true
		}
	}
	id, err := uuid.Parse(c.Param(name))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// RespondInvalidID writes the INVALID_ID error.
func RespondInvalidID(c *gin.Context) {
	response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidID, errInvalidID)
}
