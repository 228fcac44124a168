package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Error 业务错误
type Error struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Field   string            `json:"field,omitempty"`
	Cause   error             `json:"-"`
	Details map[string]string `json:"details,omitempty"`
	Stack   string            `json:"-"`
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Code)
	b.WriteString(": ")
	if e.Field != "" {
		b.WriteString(e.Field)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, " (cause: %v)", e.Cause)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is 实现 errors.Is 接口, 按错误码匹配
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithField 标记出错的字段
func (e *Error) WithField(field string) *Error {
	newErr := e.Copy()
	newErr.Field = field
	return newErr
}

// WithDetails 添加详情
func (e *Error) WithDetails(details map[string]string) *Error {
	newErr := e.Copy()
	if newErr.Details == nil {
		newErr.Details = make(map[string]string)
	}
	for k, v := range details {
		newErr.Details[k] = v
	}
	return newErr
}

// WithDetail 添加单个详情
func (e *Error) WithDetail(key, value string) *Error {
	return e.WithDetails(map[string]string{key: value})
}

// WithMessage 替换错误消息
func (e *Error) WithMessage(message string) *Error {
	newErr := e.Copy()
	newErr.Message = message
	return newErr
}

// WithMessagef 格式化替换错误消息
func (e *Error) WithMessagef(format string, args ...interface{}) *Error {
	return e.WithMessage(fmt.Sprintf(format, args...))
}

// Copy 复制错误
func (e *Error) Copy() *Error {
	newErr := &Error{
		Code:    e.Code,
		Message: e.Message,
		Field:   e.Field,
		Cause:   e.Cause,
		Stack:   e.Stack,
	}
	if e.Details != nil {
		newErr.Details = make(map[string]string, len(e.Details))
		for k, v := range e.Details {
			newErr.Details[k] = v
		}
	}
	return newErr
}

// JSON 返回 JSON 格式
func (e *Error) JSON() string {
	data, _ := json.Marshal(e)
	return string(data)
}

// MarshalJSON 实现 json.Marshaler
func (e *Error) MarshalJSON() ([]byte, error) {
	type Alias Error
	return json.Marshal(&struct {
		*Alias
		Error string `json:"error,omitempty"`
	}{
		Alias: (*Alias)(e),
		Error: e.Error(),
	})
}

// New 创建新错误
func New(code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(err *Error, cause error) *Error {
	newErr := err.Copy()
	newErr.Cause = cause
	newErr.Stack = getStack()
	return newErr
}

// getStack 获取调用栈
func getStack() string {
	var pcs [32]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var builder strings.Builder
	for {
		frame, more := frames.Next()
		builder.WriteString(fmt.Sprintf("%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line))
		if !more {
			break
		}
	}
	return builder.String()
}

// FromError 从标准错误转换
func FromError(err error) *Error {
	if err == nil {
		return nil
	}

	// 已经是 Error 类型
	var bizErr *Error
	if errors.As(err, &bizErr) {
		return bizErr
	}

	// 包装为内部错误
	return Wrap(ErrInternal, err)
}

// CodeOf 返回错误码, 非业务错误返回 INTERNAL_ERROR
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	return FromError(err).Code
}

// FieldOf 返回出错字段名
func FieldOf(err error) string {
	var bizErr *Error
	if errors.As(err, &bizErr) {
		return bizErr.Field
	}
	return ""
}

// 通用错误码
var (
	ErrInternal       = New("INTERNAL_ERROR", "internal error")
	ErrInvalidRequest = New("INVALID_REQUEST", "invalid request")
)

// 编解码 / 签名错误码
var (
	// 字段编码
	ErrInvalidHexEncoding     = New("INVALID_HEX_ENCODING", "malformed hex value")
	ErrInvalidDecimalEncoding = New("INVALID_DECIMAL_ENCODING", "malformed decimal value")
	ErrValueOutOfRange        = New("VALUE_OUT_OF_RANGE", "value out of range")

	// 哈希方案
	ErrSchemeMismatch = New("SCHEME_MISMATCH", "domain revision does not match hashing scheme")

	// 密钥与签名
	ErrKeyDerivationFailure = New("KEY_DERIVATION_FAILURE", "stark key derivation failed")
	ErrSigningFailure       = New("SIGNING_FAILURE", "signing failed")
)
