package service

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound 资源不存在
	ErrNotFound = errors.New("not found")
	// ErrInvalidParams 参数校验失败
	ErrInvalidParams = errors.New("invalid params")
	// ErrInvalidSignature webhook 签名校验失败
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrInvalidPayload webhook 载荷无法解析
	ErrInvalidPayload = errors.New("invalid webhook payload")
	// ErrSyncUnavailable 目录同步未配置
	ErrSyncUnavailable = errors.New("catalog sync unavailable")
)

// FieldError 单个字段的校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError 参数校验错误，可通过 errors.Is(err, ErrInvalidParams) 判定
type ValidationError struct {
	Fields []FieldError
}

// Error 实现 error 接口
func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrInvalidParams.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields {
		parts = append(parts, field.Field+": "+field.Message)
	}
	return ErrInvalidParams.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap 支持 errors.Is
func (e *ValidationError) Unwrap() error {
	return ErrInvalidParams
}

// NewValidationError 构造单字段校验错误
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}
