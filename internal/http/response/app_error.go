package response

import "fmt"

// AppError 带业务码的错误包装，handler 层用于
// 把服务层错误映射成统一响应。
type AppError struct {
	Code    int
	Message string
	Err     error
}

// WrapError 包装底层错误
func WrapError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewError 创建不携带底层错误的业务错误
func NewError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
