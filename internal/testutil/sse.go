package testutil

import "strings"

// ParseSSE 解析响应体中的 data: 帧内容，保持到达顺序
func ParseSSE(body string) []string {
	frames := make([]string, 0)
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "data: ") {
			frames = append(frames, strings.TrimPrefix(line, "data: "))
		}
	}
	return frames
}
