package service

import (
    "errors"
    "fmt"
)

// Kind classifies service errors so the transport layer can pick a status
// code without inspecting causes.
type Kind int

const (
    KindInternal Kind = iota
    KindValidation
    KindAuthentication
    KindAuthorization
    KindConflict
    KindNotFound
)

func (k Kind) String() string {
    switch k {
    case KindValidation:
        return "validation"
    case KindAuthentication:
        return "authentication"
    case KindAuthorization:
        return "authorization"
    case KindConflict:
        return "conflict"
    case KindNotFound:
        return "not_found"
    }
    return "internal"
}

// Error is the error type returned by the service layer.  Reason is a short
// internal label; Fields carries per-field messages for validation errors;
// Err is the wrapped cause, which is logged but never sent to clients.
type Error struct {
    Kind   Kind
    Reason string
    Fields map[string]string
    Err    error
}

func (e *Error) Error() string {
    if e.Err != nil {
        return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
    }
    return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

var (
    ErrNoToken            = &Error{Kind: KindAuthentication, Reason: "no token"}
    ErrInvalidToken       = &Error{Kind: KindAuthentication, Reason: "invalid token"}
    ErrUserNotFound       = &Error{Kind: KindAuthentication, Reason: "user not found"}
    ErrInvalidCredentials = &Error{Kind: KindAuthentication, Reason: "invalid credentials"}
    ErrForbidden          = &Error{Kind: KindAuthorization, Reason: "forbidden"}
    ErrEmailTaken         = &Error{Kind: KindConflict, Reason: "email taken"}
    ErrNotFound           = &Error{Kind: KindNotFound, Reason: "not found"}
)

// ValidationError builds a validation error naming the offending fields.
func ValidationError(fields map[string]string) *Error {
    return &Error{Kind: KindValidation, Reason: "validation failed", Fields: fields}
}

// internalError wraps err as an internal failure of op.
func internalError(op string, err error) *Error {
    return &Error{Kind: KindInternal, Reason: op, Err: err}
}

// KindOf returns the kind of err.  Errors that are not *Error are internal.
func KindOf(err error) Kind {
    var e *Error
    if errors.As(err, &e) {
        return e.Kind
    }
    return KindInternal
}
