package handlers

import (
	"math"
	"time"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/http/response"
	"github.com/yungbote/classroom-backend/internal/pkg/pointers"
	"github.com/yungbote/classroom-backend/internal/platform/apierr"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/services"
)

type ProgressHandler struct {
	log      *logger.Logger
	progress services.ProgressService
}

func NewProgressHandler(log *logger.Logger, progress services.ProgressService) *ProgressHandler {
	return &ProgressHandler{log: log.With("handler", "ProgressHandler"), progress: progress}
}

// GET /api/v1/progress
func (h *ProgressHandler) List(c *gin.Context) {
	records, err := h.progress.List(c.Request.Context(), callerOf(c))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": records})
}

// GET /api/v1/progress/:lessonId
func (h *ProgressHandler) Get(c *gin.Context) {
	ids, ok := pathIDs(c, "lessonId")
	if !ok {
		return
	}
	record, err := h.progress.Get(c.Request.Context(), callerOf(c), ids[0])
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": record})
}

// PUT /api/v1/progress/:lessonId
func (h *ProgressHandler) Upsert(c *gin.Context) {
	ids, ok := pathIDs(c, "lessonId")
	if !ok {
		return
	}
	var req struct {
		Status      *string `json:"status"`
		LastCode    *string `json:"lastCode"`
		LastAnswer  *string `json:"lastAnswer"`
		Attempts    any     `json:"attempts"`
		LastRunAt   any     `json:"lastRunAt"`
		CompletedAt any     `json:"completedAt"`
	}
	if err := bindBody(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	u := types.ProgressUpdate{
		Status:     req.Status,
		LastCode:   req.LastCode,
		LastAnswer: req.LastAnswer,
	}
	var err error
	if u.Attempts, err = attemptsOf(req.Attempts); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	if u.LastRunAt, err = timeOf(req.LastRunAt, "lastRunAt"); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	if u.CompletedAt, err = timeOf(req.CompletedAt, "completedAt"); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	record, err := h.progress.Upsert(c.Request.Context(), callerOf(c), ids[0], u)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": record})
}

// attemptsOf accepts a JSON number holding a non-negative integer. Values of
// any other JSON type are ignored.
func attemptsOf(v any) (*int, error) {
	f, ok := v.(float64)
	if !ok {
		return nil, nil
	}
	if f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return nil, apierr.Validation("attempts must be a non-negative integer")
	}
	return pointers.Int(int(f)), nil
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// timeOf reads a timestamp given as a date string or epoch milliseconds.
// Falsy values (absent, null, "", 0) are treated as not supplied.
func timeOf(v any, field string) (*time.Time, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		if t == "" {
			return nil, nil
		}
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, t); err == nil {
				ts = ts.UTC()
				return &ts, nil
			}
		}
	case float64:
		if t == 0 {
			return nil, nil
		}
		ts := time.UnixMilli(int64(t)).UTC()
		return &ts, nil
	case bool:
		if !t {
			return nil, nil
		}
	}
	return nil, apierr.Validation(field + " must be a valid date")
}
