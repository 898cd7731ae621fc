package httputil

import (
	"context"
	"errors"
	"net/http"
)

// HTTPErrorInfo contains the HTTP status code and message for an error.
type HTTPErrorInfo struct {
	Status  int
	Message string
}

// ErrorMapping maps one error (matched with errors.Is) to a status. An empty
// Message passes the error's own public message through.
type ErrorMapping struct {
	Error   error
	Status  int
	Message string
}

type publicMessager interface {
	PublicMessage() string
}

// ErrorMapper maps domain errors to HTTP status codes and messages.
type ErrorMapper struct {
	mappings       []ErrorMapping
	defaultStatus  int
	defaultMessage string
}

func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{
		mappings:       make([]ErrorMapping, 0),
		defaultStatus:  http.StatusInternalServerError,
		defaultMessage: "internal server error",
	}
}

// WithMapping adds an error mapping; earlier mappings win.
func (m *ErrorMapper) WithMapping(err error, status int, message string) *ErrorMapper {
	m.mappings = append(m.mappings, ErrorMapping{Error: err, Status: status, Message: message})
	return m
}

// WithDefault sets the default status and message for unmatched errors.
func (m *ErrorMapper) WithDefault(status int, message string) *ErrorMapper {
	m.defaultStatus = status
	m.defaultMessage = message
	return m
}

// Map converts an error to HTTP status and message.
func (m *ErrorMapper) Map(err error) HTTPErrorInfo {
	return mapError(err, m.mappings, m.defaultStatus, m.defaultMessage)
}

// QuickMap maps without building a mapper.
func QuickMap(err error, mappings ...ErrorMapping) HTTPErrorInfo {
	return mapError(err, mappings, http.StatusInternalServerError, "internal server error")
}

func mapError(err error, mappings []ErrorMapping, defaultStatus int, defaultMessage string) HTTPErrorInfo {
	if err == nil {
		return HTTPErrorInfo{Status: http.StatusOK}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return HTTPErrorInfo{Status: http.StatusGatewayTimeout, Message: "request timeout"}
	}
	if errors.Is(err, context.Canceled) {
		return HTTPErrorInfo{Status: http.StatusServiceUnavailable, Message: "request cancelled"}
	}

	for _, mapping := range mappings {
		if !errors.Is(err, mapping.Error) {
			continue
		}
		message := mapping.Message
		if message == "" {
			message = publicMessage(err, defaultMessage)
		}
		return HTTPErrorInfo{Status: mapping.Status, Message: message}
	}

	return HTTPErrorInfo{Status: defaultStatus, Message: defaultMessage}
}

func publicMessage(err error, fallback string) string {
	var messager publicMessager
	if errors.As(err, &messager) {
		if message := messager.PublicMessage(); message != "" {
			return message
		}
	}
	return fallback
}
