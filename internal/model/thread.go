package model

import "time"

// 消息角色常量
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Thread 会话线程
type Thread struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Title     *string   `gorm:"size:255" json:"title"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// Message 会话消息，按 createdAt 升序构成追加日志
type Message struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	ThreadID    string    `gorm:"index;size:36" json:"threadId"`
	Role        string    `gorm:"size:20" json:"role"` // user, assistant
	Name        string    `gorm:"size:255" json:"name"`
	Content     string    `gorm:"type:text" json:"content"`
	AssistantID string    `gorm:"index;size:64" json:"assistantId"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

// TableName 指定表名
func (Thread) TableName() string {
	return "threads"
}

func (Message) TableName() string {
	return "messages"
}
