package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// 响应格式常量
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// StringList 有序字符串列表，以 JSON 形式存储
type StringList []string

// AssistantPrompt 助手人设配置
// ID 由调用方指定，upsert 幂等；记录不会被删除
type AssistantPrompt struct {
	ID        string     `gorm:"primaryKey;size:64" json:"id"`
	Name      string     `gorm:"size:255;not null" json:"name"`
	Role      string     `gorm:"type:text" json:"role"`
	Goal      string     `gorm:"type:text" json:"goal"`
	Tools     StringList `gorm:"type:jsonb" json:"tools"`
	Memory    StringList `gorm:"type:jsonb" json:"memory"`
	Format    string     `gorm:"size:20" json:"format"` // markdown, json, 或空
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定表名
func (AssistantPrompt) TableName() string {
	return "assistant_prompts"
}

// StringList 实现 driver.Valuer 和 sql.Scanner
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(StringList{})
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported type for StringList")
	}
}

func (StringList) GormDataType() string {
	return "jsonb"
}
