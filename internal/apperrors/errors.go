// Package apperrors carries the typed error taxonomy that services return
// and handlers translate into HTTP responses.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	// KindValidation covers malformed or missing input.
	KindValidation Kind = iota
	// KindDuplicate covers uniqueness violations (repeat like, repeat follow).
	KindDuplicate
	// KindPermission covers acting on something the caller may not act on.
	// The message never explains whether the target exists.
	KindPermission
	// KindNotFound covers unknown ids. Invisible private content maps here
	// too, deliberately indistinguishable from a real miss.
	KindNotFound
	// KindRateLimited covers the email throttle.
	KindRateLimited
	// KindUnsupported covers operations that are permanently rejected
	// regardless of caller, such as updating a like.
	KindUnsupported
	// KindRequestSent is the accepted-but-deferred outcome of trying to
	// follow a private profile.
	KindRequestSent
	// KindInternal is everything else.
	KindInternal
)

// Error is the concrete error type all constructors return.
type Error struct {
	Kind    Kind
	Message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.err }

// HTTPStatus maps the kind onto the status the public surface answers with.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindDuplicate:
		return http.StatusConflict
	case KindPermission:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUnsupported:
		return http.StatusMethodNotAllowed
	case KindRequestSent:
		return http.StatusAccepted
	default:
		return http.StatusInternalServerError
	}
}

func Validation(msg string) *Error  { return &Error{Kind: KindValidation, Message: msg} }
func Duplicate(msg string) *Error   { return &Error{Kind: KindDuplicate, Message: msg} }
func NotFound(msg string) *Error    { return &Error{Kind: KindNotFound, Message: msg} }
func RateLimited(msg string) *Error { return &Error{Kind: KindRateLimited, Message: msg} }
func Unsupported(msg string) *Error { return &Error{Kind: KindUnsupported, Message: msg} }

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", err: err}
}

// PermissionDenied never carries a reason so that existence and privacy
// stay indistinguishable to the caller.
func PermissionDenied() *Error {
	return &Error{Kind: KindPermission, Message: "permission denied"}
}

// FollowRequestSent signals the deferred outcome of following a private
// profile. It travels as an error but maps to 202.
func FollowRequestSent() *Error {
	return &Error{Kind: KindRequestSent, Message: "follow request sent"}
}

// Wrap attaches an underlying cause while keeping the kind and message.
func Wrap(e *Error, cause error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, err: cause}
}

// KindOf extracts the kind from any error in the chain, defaulting to
// KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}
