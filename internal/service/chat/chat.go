// Package chat 实现聊天转发：校验请求、组装提示、
// 打开上游补全流并把 token 按到达顺序转发给调用方
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	ecomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lucianodboretti/agentic-factory-backend/internal/errs"
	"github.com/lucianodboretti/agentic-factory-backend/internal/logger"
	"github.com/lucianodboretti/agentic-factory-backend/internal/model"
	"github.com/lucianodboretti/agentic-factory-backend/internal/repository"
)

// AssistantStore 助手读取接口
type AssistantStore interface {
	GetByID(id string) (*model.AssistantPrompt, error)
}

// MessageStore 消息持久化接口
type MessageStore interface {
	Create(msg *model.Message) error
	ListByThread(threadID string) ([]*model.Message, error)
}

// TokenSink 接收转发 token 的出口
// 处理器基于 SSE 实现；测试用内存实现
type TokenSink interface {
	// Token 转发一个增量 token，出错视为客户端断开
	Token(token string) error
	// Done 发送终止哨兵并关闭输出
	Done() error
}

// Service 聊天转发服务
type Service struct {
	assistants AssistantStore
	messages   MessageStore
	model      ecomodel.BaseChatModel
	log        *logger.Logger
}

// NewService 创建聊天转发服务
func NewService(repos *repository.Repositories, chatModel ecomodel.BaseChatModel, log *logger.Logger) *Service {
	return &Service{
		assistants: repos.Assistant,
		messages:   repos.Message,
		model:      chatModel,
		log:        log.Service("chat"),
	}
}

// HistoryMessage 调用方提供的历史消息
type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// StreamRequest 聊天请求
type StreamRequest struct {
	Message     string           `json:"message"`
	History     []HistoryMessage `json:"history"`
	ThreadID    string           `json:"threadId"`
	AssistantID string           `json:"assistantId"`
}

// Stream 处理一次聊天请求
//
// 用户消息在调用上游之前落库；助手回复只在流完整结束后落库，
// 中途失败或客户端断开时丢弃已累积的部分输出。
// 流开始之前的错误（校验、助手不存在、用户消息落库、上游打开失败）
// 直接返回，调用方仍可回应状态码；流开始之后的错误只记录日志。
func (s *Service) Stream(ctx context.Context, req *StreamRequest, sink TokenSink) error {
	if req.Message == "" || req.ThreadID == "" || req.AssistantID == "" {
		return errs.Validationf("missing message, threadId, or assistantId")
	}

	assistant, err := s.assistants.GetByID(req.AssistantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NotFoundf("assistant %s", req.AssistantID)
		}
		return fmt.Errorf("failed to get assistant: %w", err)
	}

	// 用户消息先落库，上游失败也不会丢失
	userMsg := &model.Message{
		ID:          uuid.New().String(),
		ThreadID:    req.ThreadID,
		Role:        model.RoleUser,
		Name:        "User",
		Content:     req.Message,
		AssistantID: req.AssistantID,
	}
	if err := s.messages.Create(userMsg); err != nil {
		return fmt.Errorf("failed to save user message: %w", err)
	}

	s.log.Info("UserMessageSaved").
		Str("threadId", req.ThreadID).
		Str("assistantId", req.AssistantID).
		Msg("user message stored")

	reader, err := s.model.Stream(ctx, buildMessages(assistant, req))
	if err != nil {
		return fmt.Errorf("failed to open completion stream: %w", err)
	}
	defer reader.Close()

	content, err := s.relay(ctx, reader, sink)
	if err != nil {
		return err
	}

	if err := sink.Done(); err != nil {
		return fmt.Errorf("failed to finish stream: %w", err)
	}

	name := assistant.Name
	if name == "" {
		name = "Agent"
	}
	assistantMsg := &model.Message{
		ID:          uuid.New().String(),
		ThreadID:    req.ThreadID,
		Role:        model.RoleAssistant,
		Name:        name,
		Content:     content,
		AssistantID: req.AssistantID,
	}
	if err := s.messages.Create(assistantMsg); err != nil {
		return fmt.Errorf("failed to save assistant message: %w", err)
	}

	s.log.Info("AssistantMessageSaved").
		Str("threadId", req.ThreadID).
		Str("assistantId", req.AssistantID).
		Int("length", len(content)).
		Msg("assistant response saved")

	return nil
}

// relay 顺序消费上游 token 流：逐个累积并转发，保序、不丢、不重
// 取消或转发失败时中止，调用方不会持久化部分输出
func (s *Service) relay(ctx context.Context, reader *schema.StreamReader[*schema.Message], sink TokenSink) (string, error) {
	var content strings.Builder

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		chunk, err := reader.Recv()
		if err == io.EOF {
			return content.String(), nil
		}
		if err != nil {
			return "", fmt.Errorf("completion stream failed: %w", err)
		}

		token := chunk.Content
		if token == "" {
			continue
		}

		content.WriteString(token)
		if err := sink.Token(token); err != nil {
			return "", fmt.Errorf("client write failed: %w", err)
		}
	}
}

// ListMessages 按创建时间升序返回线程消息，未知线程返回空列表
func (s *Service) ListMessages(ctx context.Context, threadID string) ([]*model.Message, error) {
	messages, err := s.messages.ListByThread(threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// buildMessages 构造发往上游的消息序列：系统提示、历史、新用户消息
func buildMessages(assistant *model.AssistantPrompt, req *StreamRequest) []*schema.Message {
	messages := make([]*schema.Message, 0, len(req.History)+2)
	messages = append(messages, schema.SystemMessage(BuildSystemPrompt(assistant)))
	for _, h := range req.History {
		messages = append(messages, &schema.Message{
			Role:    roleToSchema(h.Role),
			Content: h.Content,
		})
	}
	messages = append(messages, schema.UserMessage(req.Message))
	return messages
}

// roleToSchema 将字符串角色转换为 schema.RoleType
func roleToSchema(role string) schema.RoleType {
	switch role {
	case "system":
		return schema.System
	case "assistant":
		return schema.Assistant
	default:
		return schema.User
	}
}
