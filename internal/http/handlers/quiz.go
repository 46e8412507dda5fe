package handlers

import (
	"math"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/classroom-backend/internal/http/response"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/services"
)

type QuizHandler struct {
	log  *logger.Logger
	quiz services.QuizService
}

func NewQuizHandler(log *logger.Logger, quiz services.QuizService) *QuizHandler {
	return &QuizHandler{log: log.With("handler", "QuizHandler"), quiz: quiz}
}

// GET /api/v1/classes/:id/quiz/:itemId
func (h *QuizHandler) Get(c *gin.Context) {
	ids, ok := pathIDs(c, "id", "itemId")
	if !ok {
		return
	}
	item, attempt, err := h.quiz.Get(c.Request.Context(), callerOf(c), ids[0], ids[1])
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"item": item, "attempt": attempt})
}

// PUT /api/v1/classes/:id/quiz/:itemId/attempt
func (h *QuizHandler) Submit(c *gin.Context) {
	ids, ok := pathIDs(c, "id", "itemId")
	if !ok {
		return
	}
	var req struct {
		ResponseText any `json:"responseText"`
	}
	if err := bindBody(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	text := ""
	if s := textOf(req.ResponseText); s != nil {
		text = strings.TrimSpace(*s)
	}
	attempt, err := h.quiz.Submit(c.Request.Context(), callerOf(c), ids[0], ids[1], text)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"attempt": attempt})
}

// PUT /api/v1/classes/:id/students/:studentId/quiz-attempts/:attemptId/grade
func (h *QuizHandler) Grade(c *gin.Context) {
	ids, ok := pathIDs(c, "id", "studentId", "attemptId")
	if !ok {
		return
	}
	var req struct {
		IsCorrect any `json:"isCorrect"`
		Score     any `json:"score"`
		Feedback  any `json:"feedback"`
	}
	if err := bindBody(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	in := services.GradeInput{StudentID: ids[1], AttemptID: ids[2]}
	if b, ok := req.IsCorrect.(bool); ok {
		in.IsCorrect = &b
	}
	if f, ok := req.Score.(float64); ok && !math.IsInf(f, 0) && !math.IsNaN(f) {
		in.Score = &f
	}
	if s := textOf(req.Feedback); s != nil {
		in.Feedback = *s
	}
	attempt, err := h.quiz.Grade(c.Request.Context(), callerOf(c), ids[0], in)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"attempt": attempt})
}
