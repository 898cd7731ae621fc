package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"adminConsole/internal/modules/console/domain"
	"adminConsole/internal/platform/metrics"
	"adminConsole/internal/shared/normalization"
)

const maxResponseBytes = 8 << 20

// RESTClient talks to the records API. It authenticates as the caller's
// bearer token, unwraps the {success, message, data} envelope and turns
// every error into a *domain.Failure.
type RESTClient struct {
	baseURL string
	client  *http.Client
}

// restCall is one request against the records API. entity and action label
// metrics and failures.
type restCall struct {
	entity string
	action string
	method string
	path   string
	query  url.Values
	body   any
	token  string
}

func (c restCall) op() string {
	return c.entity + "." + c.action
}

func NewRESTClient(baseURL string, timeout time.Duration, client *http.Client) *RESTClient {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		trimmed = "http://localhost:8080/api"
	}
	if client == nil {
		client = &http.Client{Timeout: timeoutOrDefault(timeout)}
	} else if timeout > 0 {
		client.Timeout = timeout
	}
	return &RESTClient{baseURL: trimmed, client: client}
}

func (c *RESTClient) newRequest(ctx context.Context, call restCall) (*http.Request, error) {
	var body io.Reader
	if call.body != nil {
		encoded, err := json.Marshal(call.body)
		if err != nil {
			return nil, &domain.Failure{Kind: domain.FailureValidation, Op: call.op(), Message: "invalid request body", Err: err}
		}
		body = bytes.NewReader(encoded)
	}

	endpoint := c.baseURL + "/" + strings.TrimLeft(call.path, "/")
	req, err := http.NewRequestWithContext(ctx, call.method, endpoint, body)
	if err != nil {
		return nil, domain.AsFailure(call.op(), err)
	}
	req.Header.Set("Accept", "application/json")
	if call.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := strings.TrimSpace(call.token); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if len(call.query) > 0 {
		req.URL.RawQuery = call.query.Encode()
	}
	return req, nil
}

// exchange performs call and returns the unwrapped envelope data, or nil for
// an empty body.
func (c *RESTClient) exchange(ctx context.Context, call restCall) (any, error) {
	req, err := c.newRequest(ctx, call)
	if err != nil {
		slog.Error("rest request build failed", slog.String("entity", call.entity), slog.String("path", call.path), slog.Any("error", err))
		return nil, err
	}
	slog.Debug("rest request", slog.String("method", call.method), slog.String("url", req.URL.String()))

	started := time.Now()
	res, err := c.client.Do(req)
	metrics.RESTRequestDuration.WithLabelValues(call.entity, call.action).Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.RESTRequestsTotal.WithLabelValues(call.entity, call.action, "error").Inc()
		slog.Warn("rest request error", slog.String("entity", call.entity), slog.String("path", call.path), slog.Any("error", err))
		return nil, transportFailure(call.op(), err)
	}
	defer res.Body.Close()
	metrics.RESTRequestsTotal.WithLabelValues(call.entity, call.action, strconv.Itoa(res.StatusCode)).Inc()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return nil, transportFailure(call.op(), err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		failure := statusFailure(call.op(), res.StatusCode, raw)
		slog.Warn("rest unexpected status", slog.String("entity", call.entity), slog.Int("status", res.StatusCode), slog.String("url", req.URL.String()), slog.String("message", failure.Message))
		return nil, failure
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	payload, err := decodeJSON(raw)
	if err != nil {
		return nil, &domain.Failure{Kind: domain.FailureServer, Op: call.op(), Status: res.StatusCode, Message: "invalid response from server", Err: err}
	}
	return unwrapEnvelope(call.op(), res.StatusCode, payload)
}

func timeoutOrDefault(value time.Duration) time.Duration {
	if value <= 0 {
		return 10 * time.Second
	}
	return value
}

func decodeJSON(raw []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var payload any
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return payload, nil
}

// unwrapEnvelope strips {success, message, data}. A 2xx envelope with
// success=false is a server-side rejection.
func unwrapEnvelope(op string, status int, payload any) (any, error) {
	object, ok := payload.(map[string]any)
	if !ok {
		return payload, nil
	}
	success, hasSuccess := object["success"].(bool)
	if !hasSuccess {
		return payload, nil
	}
	if !success {
		failure := classifyMessage(domain.FailureFromStatus(op, http.StatusBadRequest, normalization.AsString(object["message"])))
		failure.Status = status
		failure.FieldErrors = fieldErrorsFrom(object["data"])
		return nil, failure
	}
	return object["data"], nil
}

func statusFailure(op string, status int, raw []byte) *domain.Failure {
	message := ""
	var fieldErrors map[string]string
	if payload, err := decodeJSON(raw); err == nil {
		if object, ok := payload.(map[string]any); ok {
			message = normalization.AsString(object["message"])
			if message == "" {
				message = normalization.AsString(object["error"])
			}
			fieldErrors = fieldErrorsFrom(object["data"])
			if fieldErrors == nil {
				fieldErrors = fieldErrorsFrom(object["errors"])
			}
		}
	} else if text := strings.TrimSpace(string(raw)); text != "" && len(text) < 512 {
		message = text
	}
	failure := classifyMessage(domain.FailureFromStatus(op, status, message))
	failure.FieldErrors = fieldErrors
	return failure
}

// classifyMessage recognizes referential conflicts the backend reports
// with a generic status.
func classifyMessage(failure *domain.Failure) *domain.Failure {
	lowered := strings.ToLower(failure.Message)
	switch {
	case strings.Contains(lowered, "cannot delete") && strings.Contains(lowered, "existing"):
		failure.Kind = domain.FailureConflict
	case strings.Contains(lowered, "already exists"), strings.Contains(lowered, "duplicate"):
		failure.Kind = domain.FailureConflict
	}
	return failure
}

func fieldErrorsFrom(value any) map[string]string {
	object, ok := value.(map[string]any)
	if !ok || len(object) == 0 {
		return nil
	}
	fieldErrors := make(map[string]string, len(object))
	for key, message := range object {
		if text := normalization.AsString(message); text != "" {
			fieldErrors[key] = text
		}
	}
	if len(fieldErrors) == 0 {
		return nil
	}
	return fieldErrors
}

func transportFailure(op string, err error) *domain.Failure {
	if errors.Is(err, context.Canceled) {
		return &domain.Failure{Kind: domain.FailureNetwork, Op: op, Message: "request cancelled", Err: err}
	}
	return &domain.Failure{Kind: domain.FailureNetwork, Op: op, Message: "Unable to reach the server", Err: err}
}
