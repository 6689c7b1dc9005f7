package repository

import (
	"github.com/lucianodboretti/agentic-factory-backend/internal/model"
	"gorm.io/gorm"
)

// MessageRepository 消息数据访问
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建消息仓库
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create 追加消息
func (r *MessageRepository) Create(msg *model.Message) error {
	return r.db.Create(msg).Error
}

// ListByThread 按创建时间升序获取线程消息
// 未知线程返回空列表而非错误
func (r *MessageRepository) ListByThread(threadID string) ([]*model.Message, error) {
	messages := make([]*model.Message, 0)
	err := r.db.Where("thread_id = ?", threadID).Order("created_at ASC").Find(&messages).Error
	return messages, err
}
