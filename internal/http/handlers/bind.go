package handlers

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/classroom-backend/internal/http/middleware"
	"github.com/yungbote/classroom-backend/internal/pkg/pointers"
	"github.com/yungbote/classroom-backend/internal/platform/apierr"
	"github.com/yungbote/classroom-backend/internal/platform/ctxutil"
	"github.com/yungbote/classroom-backend/internal/services"
)

func callerOf(c *gin.Context) services.Caller {
	return services.CallerFromRequest(ctxutil.GetRequestData(c.Request.Context()))
}

// bindBody decodes the JSON body into dst. An empty body leaves dst at its
// zero value; every other decode or validation failure is VALIDATION_ERROR.
func bindBody(c *gin.Context, dst any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apierr.Validation(validateMessage(err))
	}
	return nil
}

// pathIDs resolves every named path param, writing INVALID_ID on the first
// that is not a UUID.
func pathIDs(c *gin.Context, names ...string) ([]uuid.UUID, bool) {
	out := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		id, ok := middleware.PathID(c, name)
		if !ok {
			middleware.RespondInvalidID(c)
			return nil, false
		}
		out = append(out, id)
	}
	return out, true
}

// textOf renders a loosely typed JSON scalar as text. Null and absent
// values are nil.
func textOf(v any) *string {
	var s string
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(t)
	default:
		s = fmt.Sprint(t)
	}
	return pointers.String(s)
}

// listOf returns the elements of a JSON array and whether v was one.
func listOf(v any) ([]any, bool) {
	arr, ok := v.([]any)
	return arr, ok
}

// stringsOf keeps the string elements of a JSON array, trimmed.
func stringsOf(v any) ([]string, bool) {
	arr, ok := listOf(v)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.(string); ok {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out, true
}
