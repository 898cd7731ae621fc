package domain

import (
	"time"

	"github.com/google/uuid"
)

// OutcomeLevel is the severity the presentation layer uses to style a notice.
type OutcomeLevel string

const (
	OutcomeSuccess OutcomeLevel = "success"
	OutcomeError   OutcomeLevel = "error"
	OutcomeInfo    OutcomeLevel = "info"
)

// Outcome is one reportable result of a list fetch or mutation.
type Outcome struct {
	ID       string       `json:"id"`
	Entity   string       `json:"entity"`
	Action   string       `json:"action"`
	Identity string       `json:"identity,omitempty"`
	Level    OutcomeLevel `json:"level"`
	Kind     FailureKind  `json:"kind,omitempty"`
	Message  string       `json:"message"`
	At       time.Time    `json:"at"`
}

// SuccessOutcome builds a success notice.
func SuccessOutcome(entity, action, identity, message string, at time.Time) Outcome {
	return Outcome{
		ID:       uuid.NewString(),
		Entity:   entity,
		Action:   action,
		Identity: identity,
		Level:    OutcomeSuccess,
		Message:  message,
		At:       at.UTC(),
	}
}

// FailureOutcome builds an error notice carrying the failure's kind and
// message verbatim.
func FailureOutcome(entity, action, identity string, err error, at time.Time) Outcome {
	return Outcome{
		ID:       uuid.NewString(),
		Entity:   entity,
		Action:   action,
		Identity: identity,
		Level:    OutcomeError,
		Kind:     KindOf(err),
		Message:  MessageOf(err),
		At:       at.UTC(),
	}
}
