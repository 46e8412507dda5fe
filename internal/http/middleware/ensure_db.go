package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/classroom-backend/internal/http/response"
	"github.com/yungbote/classroom-backend/internal/platform/apierr"
)

// DBChecker reports whether the database answered recently.
type DBChecker interface {
	Healthy(ctx context.Context) bool
}

// EnsureDB fails fast with 503 instead of letting a request hang on a dead
// database.
func EnsureDB(checker DBChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if checker != nil && !checker.Healthy(c.Request.Context()) {
			ae := apierr.Unavailable("Database not connected")
			response.RespondError(c, http.StatusServiceUnavailable, ae.Code, ae.Err)
			return
		}
		c.Next()
	}
}
