package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// エラーの種類。handlerはKindだけを見てstatus/codeを決める。
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindInvalidTransition
	KindFinalState
	KindOrderLocked
	KindEmptyOrder
	KindNoDefaultAddress
	KindOverlappingWindow
	KindValidation
	KindConflict
)

// Codeはクライアント向けの機械可読コード
func (k Kind) Code() string {
	switch k {
	case KindUnauthenticated:
		return "AUTH_UNAUTHENTICATED"
	case KindForbidden:
		return "FORBIDDEN"
	case KindNotFound:
		return "NOT_FOUND"
	case KindInvalidTransition:
		return "ORDER_INVALID_TRANSITION"
	case KindFinalState:
		return "ORDER_FINAL_STATE"
	case KindOrderLocked:
		return "ORDER_LOCKED"
	case KindEmptyOrder:
		return "ORDER_EMPTY"
	case KindNoDefaultAddress:
		return "NO_DEFAULT_ADDRESS"
	case KindOverlappingWindow:
		return "DISCOUNT_OVERLAP"
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindConflict:
		return "CONFLICT"
	default:
		return "INTERNAL_ERROR"
	}
}

// Statusは対応するHTTPステータス
func (k Kind) Status() int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidTransition, KindFinalState, KindOrderLocked, KindOverlappingWindow, KindConflict:
		return http.StatusConflict
	case KindEmptyOrder, KindNoDefaultAddress, KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Errorはアプリ全体で使う唯一のエラー型。
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind.Code(), e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind.Code(), e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Code returns the machine readable code of the error kind.
func (e *Error) Code() string { return e.Kind.Code() }

// Status returns the HTTP status of the error kind.
func (e *Error) Status() int { return e.Kind.Status() }

func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Wrapは原因エラーを保持したまま種類を付ける（主に500用）
func Wrap(kind Kind, message string, err error) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// KindOfはapperr以外を全てInternal扱いにする
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func Unauthenticated(message string) error   { return New(KindUnauthenticated, message) }
func Forbidden(message string) error         { return New(KindForbidden, message) }
func NotFound(message string) error          { return New(KindNotFound, message) }
func Validation(message string) error        { return New(KindValidation, message) }
func Conflict(message string) error          { return New(KindConflict, message) }
func Internal(err error) error               { return Wrap(KindInternal, "internal error", err) }
func InvalidTransition(message string) error { return New(KindInvalidTransition, message) }
