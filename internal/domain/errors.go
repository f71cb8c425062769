package domain

import (
	"errors"
	"fmt"
)

// ErrorKind 是一个封闭的错误类别集合，handler 层根据类别决定响应方式，
// 不需要解析错误文本
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindNotFound
	KindForbidden
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind   ErrorKind
	Entity string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Entity, e.Reason)
}

func NewValidationError(entity string, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Entity: entity, Reason: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(entity string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, Reason: "不存在"}
}

func NewForbiddenError(entity string, format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Entity: entity, Reason: fmt.Sprintf(format, args...)}
}

func NewConflictError(entity string, format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Entity: entity, Reason: fmt.Sprintf(format, args...)}
}

// KindOf 返回错误的类别，非领域错误返回 false
func KindOf(err error) (ErrorKind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}
