package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 是应用错误的分类哨兵。
// 各业务模块返回携带Kind的错误，由边界层(handler)翻译为HTTP状态码。
var (
	// ErrValidation 表示输入缺失或格式错误，用户可自行修正。
	ErrValidation = errors.New("validation error")

	// ErrConflict 表示唯一性约束被破坏，例如用户名或公开ID冲突。
	ErrConflict = errors.New("conflict error")

	// ErrPermission 表示调用者不是该资源的所有者。
	ErrPermission = errors.New("permission error")

	// ErrNotFound 表示按ID或公开标识查找失败。
	ErrNotFound = errors.New("not found")
)

// appError 将一条面向用户的消息和一个分类哨兵绑定在一起。
type appError struct {
	kind error
	msg  string
}

func (e *appError) Error() string { return e.msg }

// Unwrap 让 errors.Is(err, ErrValidation) 等判断可以工作。
func (e *appError) Unwrap() error { return e.kind }

// New 构造一个带分类的应用错误。
func New(kind error, msg string) error {
	return &appError{kind: kind, msg: msg}
}

// Newf 是 New 的格式化变体。
func Newf(kind error, format string, args ...any) error {
	return &appError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// StatusCode 将错误分类映射为HTTP状态码，供边界层使用。
// 未分类的错误一律按内部错误处理。
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// IsValidation 报告err是否属于输入校验失败。
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsConflict 报告err是否属于唯一性冲突。
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsPermission 报告err是否属于所有权校验失败。
func IsPermission(err error) bool { return errors.Is(err, ErrPermission) }

// IsNotFound 报告err是否属于查找失败。
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
