package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/classroom-backend/internal/http/response"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/services"
)

type ClassHandler struct {
	log     *logger.Logger
	classes services.ClassService
	reports services.ReportService
}

func NewClassHandler(log *logger.Logger, classes services.ClassService, reports services.ReportService) *ClassHandler {
	return &ClassHandler{log: log.With("handler", "ClassHandler"), classes: classes, reports: reports}
}

// GET /api/v1/classes
func (h *ClassHandler) List(c *gin.Context) {
	classes, err := h.classes.List(c.Request.Context(), callerOf(c))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"classes": classes})
}

// POST /api/v1/classes
func (h *ClassHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"max=200"`
	}
	if err := bindBody(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	class, err := h.classes.Create(c.Request.Context(), callerOf(c), req.Name)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"classroom": class})
}

// POST /api/v1/classes/join
func (h *ClassHandler) Join(c *gin.Context) {
	var req struct {
		JoinCode string `json:"joinCode"`
	}
	if err := bindBody(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	class, created, err := h.classes.Join(c.Request.Context(), callerOf(c), req.JoinCode)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.Respond(c, status, gin.H{"classroom": class})
}

// GET /api/v1/classes/:id
func (h *ClassHandler) Get(c *gin.Context) {
	ids, ok := pathIDs(c, "id")
	if !ok {
		return
	}
	class, err := h.classes.Get(c.Request.Context(), callerOf(c), ids[0])
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"classroom": class})
}

// DELETE /api/v1/classes/:id
func (h *ClassHandler) Delete(c *gin.Context) {
	ids, ok := pathIDs(c, "id")
	if !ok {
		return
	}
	if err := h.classes.Delete(c.Request.Context(), callerOf(c), ids[0]); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true})
}

// GET /api/v1/classes/:id/students
func (h *ClassHandler) ListStudents(c *gin.Context) {
	ids, ok := pathIDs(c, "id")
	if !ok {
		return
	}
	students, err := h.classes.ListStudents(c.Request.Context(), callerOf(c), ids[0])
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"students": students})
}

// GET /api/v1/classes/:id/students/:studentId/progress
func (h *ClassHandler) StudentProgress(c *gin.Context) {
	ids, ok := pathIDs(c, "id", "studentId")
	if !ok {
		return
	}
	report, err := h.reports.StudentProgress(c.Request.Context(), callerOf(c), ids[0], ids[1])
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, report)
}
