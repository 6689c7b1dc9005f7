package repository

import (
	"github.com/lucianodboretti/agentic-factory-backend/internal/model"
	"gorm.io/gorm"
)

// ThreadRepository 线程数据访问
type ThreadRepository struct {
	db *gorm.DB
}

// NewThreadRepository 创建线程仓库
func NewThreadRepository(db *gorm.DB) *ThreadRepository {
	return &ThreadRepository{db: db}
}

// Create 创建线程
func (r *ThreadRepository) Create(thread *model.Thread) error {
	return r.db.Create(thread).Error
}

// GetByID 获取线程
func (r *ThreadRepository) GetByID(id string) (*model.Thread, error) {
	var thread model.Thread
	err := r.db.Where("id = ?", id).First(&thread).Error
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

// List 列出线程，最新创建的在前
func (r *ThreadRepository) List() ([]*model.Thread, error) {
	threads := make([]*model.Thread, 0)
	err := r.db.Order("created_at DESC").Find(&threads).Error
	return threads, err
}

// Update 保存线程
func (r *ThreadRepository) Update(thread *model.Thread) error {
	return r.db.Save(thread).Error
}
