package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lucianodboretti/agentic-factory-backend/internal/logger"
	"github.com/lucianodboretti/agentic-factory-backend/internal/service"
	"github.com/lucianodboretti/agentic-factory-backend/internal/service/chat"
)

// ChatHandler 聊天处理器
type ChatHandler struct {
	svc *service.Services
	log *logger.Logger
}

// NewChatHandler 创建聊天处理器
func NewChatHandler(svc *service.Services, log *logger.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, log: log.Service("chat")}
}

// Chat 处理聊天请求并以 SSE 流式返回 token
func (h *ChatHandler) Chat(c *gin.Context) {
	h.log.Info("ChatRequest").Msg("POST /api/chat hit")

	var req chat.StreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing message, threadId, or assistantId"})
		return
	}

	sink := newSSESink(c)
	if err := h.svc.Chat.Stream(c.Request.Context(), &req, sink); err != nil {
		// 流已经开始则无法再回应状态码，只记录并断开
		if sink.started {
			h.log.Error("ChatStreamError").
				Str("threadId", req.ThreadID).
				Str("assistantId", req.AssistantID).
				Err(err).
				Msg("stream aborted after response began")
			return
		}

		h.log.Error("ChatError").
			Str("threadId", req.ThreadID).
			Str("assistantId", req.AssistantID).
			Err(err).
			Msg("chat request failed")
		writeError(c, err, "Assistant not found", "Internal server error")
	}
}

// tokenFrame 单个 token 的 SSE 负载
type tokenFrame struct {
	Content string `json:"content"`
}

// sseSink 把 token 以 data: 帧写入响应
// 首个 token 到达时才发送响应头，此前的错误仍可转为状态码
type sseSink struct {
	c       *gin.Context
	started bool
}

func newSSESink(c *gin.Context) *sseSink {
	return &sseSink{c: c}
}

// Token 写入一个 token 帧并立即刷出
func (s *sseSink) Token(token string) error {
	s.begin()

	data, err := json.Marshal(tokenFrame{Content: token})
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.c.Writer, "data: %s\n\n", data); err != nil {
		return err
	}
	s.c.Writer.Flush()
	return nil
}

// Done 写入终止哨兵帧
func (s *sseSink) Done() error {
	s.begin()

	if _, err := fmt.Fprint(s.c.Writer, "data: [DONE]\n\n"); err != nil {
		return err
	}
	s.c.Writer.Flush()
	return nil
}

// begin 发送 SSE 响应头，只执行一次
func (s *sseSink) begin() {
	if s.started {
		return
	}
	s.started = true
	s.c.Writer.Header().Set("Content-Type", "text/event-stream")
	s.c.Writer.Header().Set("Cache-Control", "no-cache")
	s.c.Writer.Header().Set("Connection", "keep-alive")
	s.c.Writer.WriteHeader(http.StatusOK)
}
