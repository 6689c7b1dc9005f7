// Package thread 提供会话线程的 CRUD 服务
package thread

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lucianodboretti/agentic-factory-backend/internal/errs"
	"github.com/lucianodboretti/agentic-factory-backend/internal/logger"
	"github.com/lucianodboretti/agentic-factory-backend/internal/model"
	"github.com/lucianodboretti/agentic-factory-backend/internal/repository"
)

// Store 线程持久化接口
type Store interface {
	Create(thread *model.Thread) error
	GetByID(id string) (*model.Thread, error)
	List() ([]*model.Thread, error)
	Update(thread *model.Thread) error
}

// Service 线程服务
type Service struct {
	store Store
	log   *logger.Logger
}

// NewService 创建线程服务
func NewService(repos *repository.Repositories, log *logger.Logger) *Service {
	return &Service{
		store: repos.Thread,
		log:   log.Service("threads"),
	}
}

// List 列出所有线程，最新创建的在前
func (s *Service) List(ctx context.Context) ([]*model.Thread, error) {
	threads, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	return threads, nil
}

// Create 创建线程，标题可选
func (s *Service) Create(ctx context.Context, title *string) (*model.Thread, error) {
	thread := &model.Thread{
		ID:    uuid.New().String(),
		Title: title,
	}

	if err := s.store.Create(thread); err != nil {
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}

	return thread, nil
}

// Get 获取线程
func (s *Service) Get(ctx context.Context, id string) (*model.Thread, error) {
	thread, err := s.store.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFoundf("thread %s", id)
		}
		return nil, fmt.Errorf("failed to get thread: %w", err)
	}
	return thread, nil
}

// UpdateTitle 更新线程标题，线程不存在时不会创建
func (s *Service) UpdateTitle(ctx context.Context, id string, title *string) (*model.Thread, error) {
	thread, err := s.store.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFoundf("thread %s", id)
		}
		return nil, fmt.Errorf("failed to get thread: %w", err)
	}

	thread.Title = title
	if err := s.store.Update(thread); err != nil {
		return nil, fmt.Errorf("failed to update thread: %w", err)
	}

	return thread, nil
}
