// Package assistant 提供助手人设配置的 CRUD 服务
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/lucianodboretti/agentic-factory-backend/internal/errs"
	"github.com/lucianodboretti/agentic-factory-backend/internal/logger"
	"github.com/lucianodboretti/agentic-factory-backend/internal/model"
	"github.com/lucianodboretti/agentic-factory-backend/internal/repository"
)

// 助手缓存 TTL
const cacheTTL = 5 * time.Minute

// Store 助手持久化接口
type Store interface {
	List() ([]*model.AssistantPrompt, error)
	GetByID(id string) (*model.AssistantPrompt, error)
	Upsert(assistant *model.AssistantPrompt) error
	Update(assistant *model.AssistantPrompt) error
}

// Service 助手服务
type Service struct {
	store Store
	cache *redis.Client // 可为 nil，此时跳过缓存
	log   *logger.Logger
}

// NewService 创建助手服务
func NewService(repos *repository.Repositories, cache *redis.Client, log *logger.Logger) *Service {
	return &Service{
		store: repos.Assistant,
		cache: cache,
		log:   log.Service("assistants"),
	}
}

// UpsertRequest 创建或更新助手请求
type UpsertRequest struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Role   string   `json:"role"`
	Goal   string   `json:"goal"`
	Tools  []string `json:"tools"`
	Memory []string `json:"memory"`
	Format string   `json:"format"`
}

// UpdateRequest 部分更新助手请求，nil 字段不修改
type UpdateRequest struct {
	Name   *string   `json:"name"`
	Role   *string   `json:"role"`
	Goal   *string   `json:"goal"`
	Tools  *[]string `json:"tools"`
	Memory *[]string `json:"memory"`
	Format *string   `json:"format"`
}

// List 列出所有助手，按名称升序
func (s *Service) List(ctx context.Context) ([]*model.AssistantPrompt, error) {
	assistants, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list assistants: %w", err)
	}
	return assistants, nil
}

// Get 获取助手，优先读缓存
func (s *Service) Get(ctx context.Context, id string) (*model.AssistantPrompt, error) {
	if cached := s.fromCache(ctx, id); cached != nil {
		return cached, nil
	}

	assistant, err := s.store.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFoundf("assistant %s", id)
		}
		return nil, fmt.Errorf("failed to get assistant: %w", err)
	}

	s.toCache(ctx, assistant)
	return assistant, nil
}

// Upsert 创建或按 ID 替换助手
func (s *Service) Upsert(ctx context.Context, req *UpsertRequest) (*model.AssistantPrompt, error) {
	if req.ID == "" || req.Name == "" {
		return nil, errs.Validationf("missing 'id' or 'name'")
	}

	assistant := &model.AssistantPrompt{
		ID:     req.ID,
		Name:   req.Name,
		Role:   req.Role,
		Goal:   req.Goal,
		Tools:  model.StringList(req.Tools),
		Memory: model.StringList(req.Memory),
		Format: req.Format,
	}

	if err := s.store.Upsert(assistant); err != nil {
		return nil, fmt.Errorf("failed to upsert assistant: %w", err)
	}

	// 回读以获得数据库侧的时间戳
	stored, err := s.store.GetByID(req.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assistant after upsert: %w", err)
	}

	s.toCache(ctx, stored)
	return stored, nil
}

// Update 部分更新助手
func (s *Service) Update(ctx context.Context, id string, req *UpdateRequest) (*model.AssistantPrompt, error) {
	assistant, err := s.store.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFoundf("assistant %s", id)
		}
		return nil, fmt.Errorf("failed to get assistant: %w", err)
	}

	if req.Name != nil {
		assistant.Name = *req.Name
	}
	if req.Role != nil {
		assistant.Role = *req.Role
	}
	if req.Goal != nil {
		assistant.Goal = *req.Goal
	}
	if req.Tools != nil {
		assistant.Tools = model.StringList(*req.Tools)
	}
	if req.Memory != nil {
		assistant.Memory = model.StringList(*req.Memory)
	}
	if req.Format != nil {
		assistant.Format = *req.Format
	}

	if err := s.store.Update(assistant); err != nil {
		return nil, fmt.Errorf("failed to update assistant: %w", err)
	}

	s.toCache(ctx, assistant)
	return assistant, nil
}

// fromCache 读取缓存，缓存故障只记录不上抛
func (s *Service) fromCache(ctx context.Context, id string) *model.AssistantPrompt {
	if s.cache == nil {
		return nil
	}

	data, err := s.cache.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Debug("CacheGetError").Str("id", id).Err(err).Msg("assistant cache read failed")
		}
		return nil
	}

	var assistant model.AssistantPrompt
	if err := json.Unmarshal(data, &assistant); err != nil {
		s.log.Debug("CacheDecodeError").Str("id", id).Err(err).Msg("assistant cache entry invalid")
		return nil
	}
	return &assistant
}

// toCache 写入缓存，缓存故障只记录不上抛
func (s *Service) toCache(ctx context.Context, assistant *model.AssistantPrompt) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(assistant)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(assistant.ID), data, cacheTTL).Err(); err != nil {
		s.log.Debug("CacheSetError").Str("id", assistant.ID).Err(err).Msg("assistant cache write failed")
	}
}

func cacheKey(id string) string {
	return "assistant:" + id
}
