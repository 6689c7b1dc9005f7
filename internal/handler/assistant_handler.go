package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lucianodboretti/agentic-factory-backend/internal/logger"
	"github.com/lucianodboretti/agentic-factory-backend/internal/service"
	"github.com/lucianodboretti/agentic-factory-backend/internal/service/assistant"
)

// AssistantHandler 助手处理器
type AssistantHandler struct {
	svc *service.Services
	log *logger.Logger
}

// NewAssistantHandler 创建助手处理器
func NewAssistantHandler(svc *service.Services, log *logger.Logger) *AssistantHandler {
	return &AssistantHandler{svc: svc, log: log.Service("assistants")}
}

// List 列出所有助手
func (h *AssistantHandler) List(c *gin.Context) {
	h.log.Info("GetAllAssistantsRequest").Msg("GET /api/assistants hit")

	assistants, err := h.svc.Assistant.List(c.Request.Context())
	if err != nil {
		h.log.Error("AssistantsFetchError").Err(err).Msg("failed to fetch assistant prompts")
		writeError(c, err, "Assistant not found", "Failed to fetch assistants")
		return
	}

	h.log.Info("AssistantsFetched").Int("count", len(assistants)).Msg("fetched assistant prompts")
	c.JSON(http.StatusOK, assistants)
}

// Upsert 创建或更新助手
func (h *AssistantHandler) Upsert(c *gin.Context) {
	h.log.Info("UpsertAssistantRequest").Msg("POST /api/assistants hit")

	var req assistant.UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("ValidationError").Err(err).Msg("invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	stored, err := h.svc.Assistant.Upsert(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("UpsertError").Str("id", req.ID).Err(err).Msg("failed to upsert assistant")
		writeError(c, err, "Assistant not found", "Failed to save assistant")
		return
	}

	h.log.Info("AssistantUpserted").Str("id", stored.ID).Str("name", stored.Name).Msg("assistant prompt created or updated")
	c.JSON(http.StatusOK, stored)
}

// Get 获取助手
func (h *AssistantHandler) Get(c *gin.Context) {
	id := c.Param("id")
	h.log.Info("GetAssistantByIdRequest").Str("id", id).Msg("GET /api/assistants/:id hit")

	stored, err := h.svc.Assistant.Get(c.Request.Context(), id)
	if err != nil {
		h.log.Warn("AssistantNotFound").Str("id", id).Err(err).Msg("failed to fetch assistant")
		writeError(c, err, "Assistant not found", "Failed to fetch assistant")
		return
	}

	h.log.Info("AssistantFetchedById").Str("id", id).Msg("assistant retrieved")
	c.JSON(http.StatusOK, stored)
}

// Update 部分更新助手
func (h *AssistantHandler) Update(c *gin.Context) {
	id := c.Param("id")
	h.log.Info("UpdateAssistantRequest").Str("id", id).Msg("PATCH /api/assistants/:id hit")

	var req assistant.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated, err := h.svc.Assistant.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.log.Error("UpdateError").Str("id", id).Err(err).Msg("failed to update assistant")
		writeError(c, err, "Assistant not found", "Failed to update assistant")
		return
	}

	h.log.Info("AssistantUpdated").Str("id", id).Msg("assistant updated")
	c.JSON(http.StatusOK, updated)
}
