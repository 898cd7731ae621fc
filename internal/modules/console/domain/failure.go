package domain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// FailureKind classifies why an attempt failed.
type FailureKind string

const (
	// FailureValidation is a local, field-level rejection; no request was sent.
	FailureValidation FailureKind = "validation"
	// FailureServerValidation is a post-submit rejection returned by the backend.
	FailureServerValidation FailureKind = "server_validation"
	FailureAuthorization    FailureKind = "authorization"
	// FailureConflict is a business-rule violation such as a delete blocked by dependents.
	FailureConflict FailureKind = "conflict"
	// FailureNotFound means the target vanished between listing and action.
	FailureNotFound FailureKind = "not_found"
	FailureNetwork  FailureKind = "network"
	FailureServer   FailureKind = "server"
)

// Failure is the uniform reportable value every remote or local failure is
// converted to before it leaves the core.
type Failure struct {
	Kind        FailureKind       `json:"kind"`
	Op          string            `json:"op,omitempty"`
	Status      int               `json:"status,omitempty"`
	Message     string            `json:"message"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
	Err         error             `json:"-"`
}

func (f *Failure) Error() string {
	if f.Op != "" {
		return fmt.Sprintf("%s: %s", f.Op, f.Message)
	}
	return f.Message
}

// PublicMessage is the text safe to show an operator.
func (f *Failure) PublicMessage() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Is lets errors.Is match a Failure against another Failure of the same kind.
func (f *Failure) Is(target error) bool {
	var other *Failure
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == f.Kind && other.Op == "" && other.Message == ""
}

// Sentinels usable with errors.Is.
var (
	ErrValidation       = &Failure{Kind: FailureValidation}
	ErrServerValidation = &Failure{Kind: FailureServerValidation}
	ErrAuthorization    = &Failure{Kind: FailureAuthorization}
	ErrConflict         = &Failure{Kind: FailureConflict}
	ErrNotFound         = &Failure{Kind: FailureNotFound}
	ErrNetwork          = &Failure{Kind: FailureNetwork}
	ErrServer           = &Failure{Kind: FailureServer}
)

// NewFailure builds a failure with the given kind and message.
func NewFailure(kind FailureKind, op, message string) *Failure {
	return &Failure{Kind: kind, Op: op, Message: message}
}

// InvalidFields builds a local validation failure carrying per-field messages.
func InvalidFields(op string, fieldErrors map[string]string) *Failure {
	return &Failure{
		Kind:        FailureValidation,
		Op:          op,
		Message:     "Please correct the highlighted fields",
		FieldErrors: fieldErrors,
	}
}

// FailureFromStatus maps an HTTP status and server message onto the taxonomy.
func FailureFromStatus(op string, status int, message string) *Failure {
	kind := FailureServer
	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		kind = FailureServerValidation
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = FailureAuthorization
	case status == http.StatusNotFound:
		kind = FailureNotFound
	case status == http.StatusConflict:
		kind = FailureConflict
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return &Failure{Kind: kind, Op: op, Status: status, Message: message}
}

// AsFailure converts any error into a Failure. Existing failures pass through
// untouched; context expiry and everything else become network and server
// failures respectively.
func AsFailure(op string, err error) *Failure {
	if err == nil {
		return nil
	}
	var failure *Failure
	if errors.As(err, &failure) {
		return failure
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &Failure{Kind: FailureNetwork, Op: op, Message: "request timed out", Err: err}
	case errors.Is(err, context.Canceled):
		return &Failure{Kind: FailureNetwork, Op: op, Message: "request cancelled", Err: err}
	default:
		return &Failure{Kind: FailureServer, Op: op, Message: err.Error(), Err: err}
	}
}

// KindOf returns the failure kind of err, or "" when err is nil.
func KindOf(err error) FailureKind {
	if err == nil {
		return ""
	}
	return AsFailure("", err).Kind
}

// MessageOf returns the human-readable message of err, used verbatim in reports.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	return AsFailure("", err).Message
}
