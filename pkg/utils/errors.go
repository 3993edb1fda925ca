package utils

import (
	"errors"
	"fmt"
)

// 错误码
const (
	CodeNotFound   = "NOT_FOUND"
	CodeConflict   = "CONFLICT"
	CodeBadRequest = "BAD_REQUEST"
	CodeInternal   = "INTERNAL"
)

// ErrorWrapper 错误包装器
type ErrorWrapper struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	Cause   error  `json:"-"`
}

// NewErrorWrapper 创建错误包装器
func NewErrorWrapper(code, message string, cause error) *ErrorWrapper {
	return &ErrorWrapper{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NotFound 资源不存在
func NotFound(cause error) *ErrorWrapper {
	return NewErrorWrapper(CodeNotFound, cause.Error(), cause)
}

// Conflict 资源冲突
func Conflict(cause error) *ErrorWrapper {
	return NewErrorWrapper(CodeConflict, cause.Error(), cause)
}

// BadRequest 参数错误
func BadRequest(cause error) *ErrorWrapper {
	return NewErrorWrapper(CodeBadRequest, cause.Error(), cause)
}

// Internal 内部错误，对外只暴露 message
func Internal(message string, cause error) *ErrorWrapper {
	return NewErrorWrapper(CodeInternal, message, cause)
}

// WithDetails 添加错误详情
func (ew *ErrorWrapper) WithDetails(details any) *ErrorWrapper {
	ew.Details = details
	return ew
}

// Error 实现 error 接口
func (ew *ErrorWrapper) Error() string {
	if ew.Cause != nil && ew.Cause.Error() != ew.Message {
		return fmt.Sprintf("[%s] %s: %v", ew.Code, ew.Message, ew.Cause)
	}
	return fmt.Sprintf("[%s] %s", ew.Code, ew.Message)
}

// Unwrap 支持 errors.Is / errors.As
func (ew *ErrorWrapper) Unwrap() error {
	return ew.Cause
}

// CodeOf 返回错误链上第一个 ErrorWrapper 的错误码，没有时视为内部错误
func CodeOf(err error) string {
	var ew *ErrorWrapper
	if errors.As(err, &ew) {
		return ew.Code
	}
	return CodeInternal
}
