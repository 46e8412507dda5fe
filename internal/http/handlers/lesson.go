package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/classroom-backend/internal/http/middleware"
	"github.com/yungbote/classroom-backend/internal/http/response"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/services"
)

type LessonHandler struct {
	log     *logger.Logger
	lessons services.LessonService
}

func NewLessonHandler(log *logger.Logger, lessons services.LessonService) *LessonHandler {
	return &LessonHandler{log: log.With("handler", "LessonHandler"), lessons: lessons}
}

type lessonRequest struct {
	ClassID      string `json:"classId"`
	Unit         string `json:"unit"`
	Heading      string `json:"heading"`
	Duration     string `json:"duration"`
	Body         string `json:"body"`
	Instructions string `json:"instructions"`
	Question     string `json:"question"`
	CodeStarter  string `json:"codeStarter"`
	Hints        any    `json:"hints"`
}

func (r lessonRequest) input(classID uuid.UUID) services.LessonInput {
	hints, _ := stringsOf(r.Hints)
	return services.LessonInput{
		ClassID:      classID,
		Unit:         r.Unit,
		Heading:      r.Heading,
		Duration:     r.Duration,
		Body:         r.Body,
		Instructions: r.Instructions,
		Question:     r.Question,
		CodeStarter:  r.CodeStarter,
		Hints:        hints,
	}
}

// optionalID parses a client supplied id. Blank is uuid.Nil so the service
// reports the missing field; anything else must be a UUID.
func optionalID(raw string) (uuid.UUID, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, true
	}
	id, err := uuid.Parse(raw)
	return id, err == nil
}

// GET /api/v1/lessons?classId=
func (h *LessonHandler) List(c *gin.Context) {
	classID, ok := optionalID(c.Query("classId"))
	if !ok {
		middleware.RespondInvalidID(c)
		return
	}
	lessons, err := h.lessons.List(c.Request.Context(), callerOf(c), classID)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"lessons": lessons})
}

// GET /api/v1/lessons/:id
func (h *LessonHandler) Get(c *gin.Context) {
	ids, ok := pathIDs(c, "id")
	if !ok {
		return
	}
	lesson, err := h.lessons.Get(c.Request.Context(), callerOf(c), ids[0])
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"lesson": lesson})
}

// POST /api/v1/lessons
func (h *LessonHandler) Create(c *gin.Context) {
	var req lessonRequest
	if err := bindBody(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	classID, ok := optionalID(req.ClassID)
	if !ok {
		middleware.RespondInvalidID(c)
		return
	}
	lesson, err := h.lessons.Create(c.Request.Context(), callerOf(c), req.input(classID))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"lesson": lesson})
}

// PUT /api/v1/lessons/:id
func (h *LessonHandler) Update(c *gin.Context) {
	ids, ok := pathIDs(c, "id")
	if !ok {
		return
	}
	var req lessonRequest
	if err := bindBody(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	lesson, err := h.lessons.Update(c.Request.Context(), callerOf(c), ids[0], req.input(uuid.Nil))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"lesson": lesson})
}

// DELETE /api/v1/lessons/:id
func (h *LessonHandler) Delete(c *gin.Context) {
	ids, ok := pathIDs(c, "id")
	if !ok {
		return
	}
	if err := h.lessons.Delete(c.Request.Context(), callerOf(c), ids[0]); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true})
}
