package service

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	ecomodel "github.com/cloudwego/eino/components/model"
	"github.com/redis/go-redis/v9"

	"github.com/lucianodboretti/agentic-factory-backend/internal/config"
	"github.com/lucianodboretti/agentic-factory-backend/internal/logger"
	"github.com/lucianodboretti/agentic-factory-backend/internal/repository"
	"github.com/lucianodboretti/agentic-factory-backend/internal/service/assistant"
	"github.com/lucianodboretti/agentic-factory-backend/internal/service/chat"
	"github.com/lucianodboretti/agentic-factory-backend/internal/service/thread"
)

// Services 服务集合
type Services struct {
	Assistant *assistant.Service
	Thread    *thread.Service
	Chat      *chat.Service
}

// NewServices 创建所有服务
func NewServices(repos *repository.Repositories, cfg *config.Config, redisClient *redis.Client, log *logger.Logger) (*Services, error) {
	chatModel, err := newChatModel(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to init chat model: %w", err)
	}

	return &Services{
		Assistant: assistant.NewService(repos, redisClient, log),
		Thread:    thread.NewService(repos, log),
		Chat:      chat.NewService(repos, chatModel, log),
	}, nil
}

// newChatModel 创建补全服务的 ChatModel
func newChatModel(ctx context.Context, cfg *config.Config) (ecomodel.BaseChatModel, error) {
	aiCfg := cfg.AI.OpenAI

	if aiCfg.APIKey == "" {
		return nil, fmt.Errorf("ai.openai.apiKey is required")
	}

	modelName := aiCfg.Model
	if modelName == "" {
		modelName = "gpt-4"
	}

	return openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  aiCfg.APIKey,
		BaseURL: aiCfg.BaseURL,
		Model:   modelName,
	})
}
