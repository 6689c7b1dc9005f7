// Package errs 定义跨层共享的错误类型
package errs

import (
	"errors"
	"fmt"
)

// ErrNotFound 引用的实体不存在
var ErrNotFound = errors.New("not found")

// ValidationError 请求输入校验失败
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validationf 创建校验错误
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation 判断是否为校验错误
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NotFoundf 创建带上下文的 NotFound 错误
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}
