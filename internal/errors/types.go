package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型
type ErrorCode string

// 预定义错误码
const (
	// 通用错误
	ErrCodeInternalServer ErrorCode = "INTERNAL_SERVER_ERROR"

	// 输入错误
	ErrCodeMissingDocID    ErrorCode = "MISSING_DOC_ID"
	ErrCodeMissingQuestion ErrorCode = "MISSING_QUESTION"

	// 资源错误
	ErrCodeDocumentNotFound ErrorCode = "DOCUMENT_NOT_FOUND"
	ErrCodeNoFragments      ErrorCode = "NO_FRAGMENTS"
	ErrCodeNoVectors        ErrorCode = "NO_VECTORS"

	// 验证错误
	ErrCodeDimensionMismatch  ErrorCode = "DIMENSION_MISMATCH"
	ErrCodeRecordInconsistent ErrorCode = "RECORD_INCONSISTENT"

	// 生成服务错误
	ErrCodeGenerationTimeout       ErrorCode = "GENERATION_TIMEOUT"
	ErrCodeGenerationUnavailable   ErrorCode = "GENERATION_CONNECTION_ERROR"
	ErrCodeGenerationServerError   ErrorCode = "GENERATION_SERVER_ERROR"
	ErrCodeGenerationQuotaExceeded ErrorCode = "GENERATION_QUOTA_EXCEEDED"
	ErrCodeGenerationBadRequest    ErrorCode = "GENERATION_BAD_REQUEST"
	ErrCodeGenerationEmptyResponse ErrorCode = "GENERATION_EMPTY_RESPONSE"

	// 存储错误
	ErrCodeStorageFailed ErrorCode = "STORAGE_FAILED"
)

// ErrorType 错误类型
type ErrorType int

const (
	ErrorTypeSystem ErrorType = iota
	ErrorTypeInput
	ErrorTypeNotFound
	ErrorTypeValidation
	ErrorTypeUpstream
	ErrorTypeStorage
)

// AppError 应用错误结构体
// 错误分类只依赖Code字段，绝不通过错误文本匹配推断类别
type AppError struct {
	Code     ErrorCode   `json:"code"`
	Message  string      `json:"message"`
	Type     ErrorType   `json:"type"`
	HTTPCode int         `json:"-"`
	Details  interface{} `json:"details,omitempty"`
	Cause    error       `json:"-"`
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails 添加错误详情
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// WithCause 添加错误原因
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// 错误构造函数

// NewInputError 创建输入错误（缺失或空的必填字段）
func NewInputError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Type:     ErrorTypeInput,
		HTTPCode: http.StatusBadRequest,
	}
}

// NewNotFoundError 创建资源未找到错误
func NewNotFoundError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Type:     ErrorTypeNotFound,
		HTTPCode: http.StatusNotFound,
	}
}

// NewValidationError 创建验证错误
func NewValidationError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Type:     ErrorTypeValidation,
		HTTPCode: http.StatusBadRequest,
	}
}

// NewUpstreamError 创建上游服务错误
func NewUpstreamError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Type:     ErrorTypeUpstream,
		HTTPCode: getHTTPCodeForUpstream(code),
	}
}

// NewStorageError 创建存储错误
func NewStorageError(message string) *AppError {
	return &AppError{
		Code:     ErrCodeStorageFailed,
		Message:  message,
		Type:     ErrorTypeStorage,
		HTTPCode: http.StatusInternalServerError,
	}
}

// NewSystemError 创建系统错误
func NewSystemError(message string) *AppError {
	return &AppError{
		Code:     ErrCodeInternalServer,
		Message:  message,
		Type:     ErrorTypeSystem,
		HTTPCode: http.StatusInternalServerError,
	}
}

// getHTTPCodeForUpstream 根据上游错误码获取HTTP状态码
func getHTTPCodeForUpstream(code ErrorCode) int {
	switch code {
	case ErrCodeGenerationTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeGenerationUnavailable:
		return http.StatusServiceUnavailable
	case ErrCodeGenerationServerError:
		return http.StatusBadGateway
	case ErrCodeGenerationQuotaExceeded:
		return http.StatusTooManyRequests
	case ErrCodeGenerationBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// IsCode 检查错误链中是否存在指定错误码的AppError
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetAppError 获取AppError，如果不是则包装为系统错误
// 只有未分类的系统错误才携带调试详情
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return NewSystemError("An unexpected error occurred. Please try again.").
		WithCause(err).
		WithDetails(err.Error())
}
