package errcode

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies the failures a caller is expected to handle at the HTTP boundary.
// Anything that is not an *Error is an internal failure.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindNotFound
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad request"
	case KindNotFound:
		return "not found"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Error 是模型层与策略层返回的可预期失败。
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works
// regardless of the message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrBadRequest   = &Error{Kind: KindBadRequest}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
)

func BadRequest(format string, args ...any) error {
	return &Error{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Unauthorized never carries detail: a denial looks the same whether or not the
// caller was authenticated.
func Unauthorized() error {
	return &Error{Kind: KindUnauthorized, Message: "unauthorized"}
}

// KindOf 返回错误链中第一个 *Error 的类别，否则为 KindInternal。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to the status code the router responds with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
