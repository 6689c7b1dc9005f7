// Package logger 提供基于 zerolog 的结构化日志
// 日志实例显式传递给各组件，不使用全局状态
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config 日志配置
type Config struct {
	Level  string    // debug, info, warn, error, silent
	Pretty bool      // 开发模式下的可读输出
	Output io.Writer // 默认 os.Stdout
}

// Logger 结构化日志器
type Logger struct {
	zlog zerolog.Logger
}

// New 创建日志器，最低级别在启动时读取一次
func New(cfg Config) *Logger {
	level := parseLevel(cfg.Level)

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	zlog := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &Logger{zlog: zlog}
}

// parseLevel 解析日志级别，未知值回退为 info
func parseLevel(s string) zerolog.Level {
	switch s {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "silent":
		return zerolog.Disabled
	}
	return zerolog.InfoLevel
}

// Service 返回带 service 字段的子日志器
func (l *Logger) Service(name string) *Logger {
	return &Logger{zlog: l.zlog.With().Str("service", name).Logger()}
}

// Debug 以 debug 级别记录事件
func (l *Logger) Debug(event string) *zerolog.Event {
	return l.zlog.Debug().Str("event", event)
}

// Info 以 info 级别记录事件
func (l *Logger) Info(event string) *zerolog.Event {
	return l.zlog.Info().Str("event", event)
}

// Warn 以 warn 级别记录事件
func (l *Logger) Warn(event string) *zerolog.Event {
	return l.zlog.Warn().Str("event", event)
}

// Error 以 error 级别记录事件
func (l *Logger) Error(event string) *zerolog.Event {
	return l.zlog.Error().Str("event", event)
}
