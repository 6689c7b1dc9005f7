package repository

import (
	"github.com/lucianodboretti/agentic-factory-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AssistantRepository 助手配置数据访问
type AssistantRepository struct {
	db *gorm.DB
}

// NewAssistantRepository 创建助手仓库
func NewAssistantRepository(db *gorm.DB) *AssistantRepository {
	return &AssistantRepository{db: db}
}

// List 列出所有助手，按名称升序
func (r *AssistantRepository) List() ([]*model.AssistantPrompt, error) {
	assistants := make([]*model.AssistantPrompt, 0)
	err := r.db.Order("name ASC").Find(&assistants).Error
	return assistants, err
}

// GetByID 获取助手
func (r *AssistantRepository) GetByID(id string) (*model.AssistantPrompt, error) {
	var assistant model.AssistantPrompt
	err := r.db.Where("id = ?", id).First(&assistant).Error
	if err != nil {
		return nil, err
	}
	return &assistant, nil
}

// Upsert 按 ID 创建或替换可变字段
func (r *AssistantRepository) Upsert(assistant *model.AssistantPrompt) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "role", "goal", "tools", "memory", "format", "updated_at",
		}),
	}).Create(assistant).Error
}

// Update 保存助手
func (r *AssistantRepository) Update(assistant *model.AssistantPrompt) error {
	return r.db.Save(assistant).Error
}
