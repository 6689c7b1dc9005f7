package handler

import (
	"github.com/lucianodboretti/agentic-factory-backend/internal/logger"
	"github.com/lucianodboretti/agentic-factory-backend/internal/service"
)

// Handlers 处理器集合
type Handlers struct {
	Assistant *AssistantHandler
	Thread    *ThreadHandler
	Message   *MessageHandler
	Chat      *ChatHandler
}

// NewHandlers 创建所有处理器
func NewHandlers(svc *service.Services, log *logger.Logger) *Handlers {
	return &Handlers{
		Assistant: NewAssistantHandler(svc, log),
		Thread:    NewThreadHandler(svc, log),
		Message:   NewMessageHandler(svc, log),
		Chat:      NewChatHandler(svc, log),
	}
}
