package chat

import (
	"fmt"
	"strings"

	"github.com/lucianodboretti/agentic-factory-backend/internal/model"
)

// 未配置人设时的兜底系统提示
const defaultRole = "You are a helpful assistant."

// BuildSystemPrompt 根据助手配置组装系统提示
// 纯函数：相同配置必然产生相同文本
func BuildSystemPrompt(a *model.AssistantPrompt) string {
	var b strings.Builder

	if a.Role != "" {
		b.WriteString(a.Role)
	} else {
		b.WriteString(defaultRole)
	}

	if a.Goal != "" {
		fmt.Fprintf(&b, "\n\nYour task is to help the user %s.", a.Goal)
	}

	if len(a.Tools) > 0 {
		fmt.Fprintf(&b, "\n\nYou may call tools: %s.", strings.Join(a.Tools, ", "))
	}

	if len(a.Memory) > 0 {
		b.WriteString("\n\nYou remember:")
		for _, m := range a.Memory {
			b.WriteString("\n- ")
			b.WriteString(m)
		}
	}

	switch a.Format {
	case model.FormatMarkdown:
		b.WriteString("\n\nRespond in markdown format using concise, structured sections.")
	case model.FormatJSON:
		b.WriteString("\n\nRespond in valid JSON format.")
	}

	return strings.TrimSpace(b.String())
}
