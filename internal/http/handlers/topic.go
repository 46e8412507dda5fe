package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/classroom-backend/internal/http/response"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/services"
)

type TopicHandler struct {
	log     *logger.Logger
	catalog services.CatalogService
}

func NewTopicHandler(log *logger.Logger, catalog services.CatalogService) *TopicHandler {
	return &TopicHandler{log: log.With("handler", "TopicHandler"), catalog: catalog}
}

type topicRequest struct {
	Title    *string `json:"title" binding:"omitempty,max=200"`
	Concepts any     `json:"concepts"`
}

func (r topicRequest) input() services.TopicInput {
	concepts, ok := stringsOf(r.Concepts)
	return services.TopicInput{Title: r.Title, Concepts: concepts, ConceptsSet: ok}
}

// Quiz fields are loosely typed: scalars are stringified and options may mix
// strings with numbers.
type itemRequest struct {
	Title        *string `json:"title" binding:"omitempty,max=200"`
	Type         *string `json:"type"`
	QuizSubtype  any     `json:"quizSubtype"`
	QuizQuestion any     `json:"quizQuestion"`
	QuizOptions  any     `json:"quizOptions"`
	QuizAnswer   any     `json:"quizAnswer"`
}

func (r itemRequest) input() services.ItemInput {
	options, set := listOf(r.QuizOptions)
	return services.ItemInput{
		Title: r.Title,
		Type:  r.Type,
		Quiz: services.QuizFieldsInput{
			Subtype:    textOf(r.QuizSubtype),
			Question:   textOf(r.QuizQuestion),
			Options:    options,
			OptionsSet: set,
			Answer:     textOf(r.QuizAnswer),
		},
	}
}

// GET /api/v1/classes/:id/topics
func (h *TopicHandler) ListTopics(c *gin.Context) {
	ids, ok := pathIDs(c, "id")
	if !ok {
		return
	}
	topics, err := h.catalog.ListTopics(c.Request.Context(), callerOf(c), ids[0])
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"topics": topics})
}

// POST /api/v1/classes/:id/topics
func (h *TopicHandler) CreateTopic(c *gin.Context) {
	ids, ok := pathIDs(c, "id")
	if !ok {
		return
	}
	var req topicRequest
	if err := bindBody(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	topic, err := h.catalog.CreateTopic(c.Request.Context(), callerOf(c), ids[0], req.input())
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"topic": topic})
}

// PUT /api/v1/classes/:id/topics/:topicId
func (h *TopicHandler) UpdateTopic(c *gin.Context) {
	ids, ok := pathIDs(c, "id", "topicId")
	if !ok {
		return
	}
	var req topicRequest
	if err := bindBody(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	topic, err := h.catalog.UpdateTopic(c.Request.Context(), callerOf(c), ids[0], ids[1], req.input())
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"topic": topic})
}

// DELETE /api/v1/classes/:id/topics/:topicId
func (h *TopicHandler) DeleteTopic(c *gin.Context) {
	ids, ok := pathIDs(c, "id", "topicId")
	if !ok {
		return
	}
	if err := h.catalog.DeleteTopic(c.Request.Context(), callerOf(c), ids[0], ids[1]); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true})
}

// POST /api/v1/classes/:id/topics/:topicId/items
func (h *TopicHandler) CreateItem(c *gin.Context) {
	ids, ok := pathIDs(c, "id", "topicId")
	if !ok {
		return
	}
	var req itemRequest
	if err := bindBody(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	item, err := h.catalog.CreateItem(c.Request.Context(), callerOf(c), ids[0], ids[1], req.input())
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"item": item})
}

// PUT /api/v1/classes/:id/topics/:topicId/items/:itemId
func (h *TopicHandler) UpdateItem(c *gin.Context) {
	ids, ok := pathIDs(c, "id", "topicId", "itemId")
	if !ok {
		return
	}
	var req itemRequest
	if err := bindBody(c, &req); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	item, err := h.catalog.UpdateItem(c.Request.Context(), callerOf(c), ids[0], ids[1], ids[2], req.input())
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"item": item})
}

// DELETE /api/v1/classes/:id/topics/:topicId/items/:itemId
func (h *TopicHandler) DeleteItem(c *gin.Context) {
	ids, ok := pathIDs(c, "id", "topicId", "itemId")
	if !ok {
		return
	}
	if err := h.catalog.DeleteItem(c.Request.Context(), callerOf(c), ids[0], ids[1], ids[2]); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true})
}

// GET /api/v1/classes/:id/practice/:itemId
func (h *TopicHandler) GetPractice(c *gin.Context) {
	ids, ok := pathIDs(c, "id", "itemId")
	if !ok {
		return
	}
	item, err := h.catalog.GetPracticeItem(c.Request.Context(), callerOf(c), ids[0], ids[1])
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"item": item})
}
