package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lucianodboretti/agentic-factory-backend/internal/logger"
	"github.com/lucianodboretti/agentic-factory-backend/internal/service"
)

// MessageHandler 消息处理器
type MessageHandler struct {
	svc *service.Services
	log *logger.Logger
}

// NewMessageHandler 创建消息处理器
func NewMessageHandler(svc *service.Services, log *logger.Logger) *MessageHandler {
	return &MessageHandler{svc: svc, log: log.Service("messages")}
}

// ListByThread 按创建时间升序列出线程消息
// 未知线程返回空数组而非 404
func (h *MessageHandler) ListByThread(c *gin.Context) {
	threadID := c.Param("threadId")
	h.log.Info("GetMessagesRequest").Str("threadId", threadID).Msg("GET /api/messages/:threadId hit")

	messages, err := h.svc.Chat.ListMessages(c.Request.Context(), threadID)
	if err != nil {
		h.log.Error("FetchMessagesError").Str("threadId", threadID).Err(err).Msg("failed to fetch messages")
		writeError(c, err, "Thread not found", "Failed to fetch messages")
		return
	}

	h.log.Info("MessagesFetched").Str("threadId", threadID).Int("count", len(messages)).Msg("retrieved messages for thread")
	c.JSON(http.StatusOK, messages)
}
