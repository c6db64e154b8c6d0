// Package apperr 定义各组件共享的业务错误分类。
package apperr

import (
	"errors"
	"fmt"
)

// Kind 错误类型
type Kind int

const (
	Internal Kind = iota
	NotFound
	InvalidInput
	Conflict
	InsufficientStock
	Unauthorized
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case InvalidInput:
		return "invalid_input"
	case Conflict:
		return "conflict"
	case InsufficientStock:
		return "insufficient_stock"
	case Unauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Error 带类型的业务错误
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is 让 errors.Is 可以按 Kind 比较，例如 errors.Is(err, apperr.ErrInsufficientStock)
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Msg == "" || t.Msg == e.Msg)
}

// 哨兵错误，只比较 Kind
var (
	ErrNotFound          = &Error{Kind: NotFound}
	ErrInvalidInput      = &Error{Kind: InvalidInput}
	ErrConflict          = &Error{Kind: Conflict}
	ErrInsufficientStock = &Error{Kind: InsufficientStock}
	ErrUnauthorized      = &Error{Kind: Unauthorized}
)

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap 保留底层错误
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

func NotFoundf(format string, args ...any) *Error { return New(NotFound, format, args...) }

func InvalidInputf(format string, args ...any) *Error { return New(InvalidInput, format, args...) }

func Conflictf(format string, args ...any) *Error { return New(Conflict, format, args...) }

func InsufficientStockf(format string, args ...any) *Error {
	return New(InsufficientStock, format, args...)
}

func Unauthorizedf(format string, args ...any) *Error { return New(Unauthorized, format, args...) }

// KindOf 返回错误链上第一个业务错误的类型，非业务错误视为 Internal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// IsKind 判断错误类型
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
