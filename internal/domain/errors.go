package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError carrying the same code, so copies produced by
// WithError and WithMessage still compare equal to the predefined values.
func (e *AppError) Is(target error) bool {
	var other *AppError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    message,
		StatusCode: e.StatusCode,
		Err:        e.Err,
	}
}

func (e *AppError) withStatus(status int) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: status,
		Err:        e.Err,
	}
}

const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeQuotaExhausted     = "QUOTA_EXHAUSTED"
	CodeAuthRejected       = "AUTH_REJECTED"
	CodeResourceNotFound   = "RESOURCE_NOT_FOUND"
	CodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	CodeRateLimited        = "RATE_LIMITED"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeServerError        = "SERVER_ERROR"
	CodeGenericFailure     = "GENERIC_FAILURE"
	CodeRequestTimeout     = "REQUEST_TIMEOUT"
	CodeNetworkError       = "NETWORK_ERROR"
	CodeAPIError           = "API_ERROR"
	CodeUnreachableSession = "UNREACHABLE_SESSION"
	CodeNoImage            = "NO_IMAGE"
	CodeForbiddenCommand   = "FORBIDDEN_COMMAND"
	CodeInternal           = "INTERNAL_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidRequest     = "INVALID_REQUEST"
)

// Pre-defined errors. Messages are shown to chat users as-is.
var (
	ErrInvalidInput = &AppError{
		Code:    CodeInvalidInput,
		Message: "无效的图片数据或处理失败",
	}

	ErrQuotaExhausted = &AppError{
		Code:    CodeQuotaExhausted,
		Message: "触及 API 并发限制或配额用尽",
	}

	ErrAuthRejected = &AppError{
		Code:    CodeAuthRejected,
		Message: "API 密钥无效或无权访问",
	}

	ErrResourceNotFound = &AppError{
		Code:    CodeResourceNotFound,
		Message: "请求的资源不存在",
	}

	ErrPayloadTooLarge = &AppError{
		Code:    CodePayloadTooLarge,
		Message: "图片文件过大（超过25MB）",
	}

	ErrRateLimited = &AppError{
		Code:    CodeRateLimited,
		Message: "请求过于频繁，请稍后再试",
	}

	ErrServiceUnavailable = &AppError{
		Code:    CodeServiceUnavailable,
		Message: "服务暂时不可用，请稍后再试",
	}

	ErrServerError = &AppError{
		Code:    CodeServerError,
		Message: "服务器内部错误，请稍后再试",
	}

	ErrGenericFailure = &AppError{
		Code:    CodeGenericFailure,
		Message: "请求失败",
	}

	ErrRequestTimeout = &AppError{
		Code:    CodeRequestTimeout,
		Message: "请求超时，请稍后再试",
	}

	ErrNetwork = &AppError{
		Code:    CodeNetworkError,
		Message: "网络连接错误",
	}

	ErrAPI = &AppError{
		Code:    CodeAPIError,
		Message: "API 错误",
	}

	ErrUnreachableSession = &AppError{
		Code:    CodeUnreachableSession,
		Message: "HTTP 会话未初始化",
	}

	ErrNoImage = &AppError{
		Code:    CodeNoImage,
		Message: "无法获取图片数据",
	}

	ErrForbiddenCommand = &AppError{
		Code:    CodeForbiddenCommand,
		Message: "该命令仅限管理员使用",
	}

	ErrInternal = &AppError{
		Code:    CodeInternal,
		Message: "发生未知错误，请稍后再试",
	}
)

// Webhook errors carry the HTTP status returned to the chat platform.
var (
	ErrUnauthorized = &AppError{
		Code:       CodeUnauthorized,
		Message:    "Invalid or missing webhook token",
		StatusCode: http.StatusUnauthorized,
	}

	ErrInvalidRequest = &AppError{
		Code:       CodeInvalidRequest,
		Message:    "Invalid message payload",
		StatusCode: http.StatusBadRequest,
	}
)

// ClassifyStatus maps a non-2xx status of the named operation to its error kind.
func ClassifyStatus(status int, operation string) *AppError {
	var kind *AppError
	switch {
	case status == http.StatusBadRequest:
		kind = ErrInvalidInput
	case status == http.StatusPaymentRequired:
		kind = ErrQuotaExhausted
	case status == http.StatusForbidden:
		kind = ErrAuthRejected
	case status == http.StatusNotFound:
		kind = ErrResourceNotFound
	case status == http.StatusRequestEntityTooLarge:
		kind = ErrPayloadTooLarge
	case status == http.StatusTooManyRequests:
		kind = ErrRateLimited
	case status == http.StatusServiceUnavailable:
		kind = ErrServiceUnavailable
	case status >= http.StatusInternalServerError:
		kind = ErrServerError
	default:
		kind = ErrGenericFailure.WithMessage(fmt.Sprintf("%s 请求失败，HTTP状态码: %d", operation, status))
	}
	return kind.withStatus(status)
}

// ClassifyTransport maps a failure that happened before any status code was
// observed. Deadline and net timeouts become REQUEST_TIMEOUT, everything else
// NETWORK_ERROR.
func ClassifyTransport(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrRequestTimeout.WithError(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrRequestTimeout.WithError(err)
	}
	return ErrNetwork.WithError(err)
}

// NewAPIError wraps a service-reported error carried inside a 200 response.
func NewAPIError(serviceMessage string) *AppError {
	return &AppError{
		Code:       CodeAPIError,
		Message:    fmt.Sprintf("%s: %s", ErrAPI.Message, serviceMessage),
		StatusCode: http.StatusOK,
	}
}
