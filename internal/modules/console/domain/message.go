package domain

import (
	"strings"
	"time"
)

// Message is the envelope pushed to browsers over the websocket and to the
// outcome audit stream.
type Message struct {
	Topic      string            `json:"topic"`
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID string            `json:"resourceId,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Data       any               `json:"data,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// BuildStateMessage composes the view state message for an entity list.
func BuildStateMessage(entity, viewID string, query QueryState, state any, at time.Time, extras map[string]string) *Message {
	entityName := strings.TrimSpace(entity)
	metadata := query.Metadata()
	metadata["viewId"] = strings.TrimSpace(viewID)
	metadata = mergeInto(metadata, extras)
	return &Message{
		Topic:     StateTopic(entityName),
		Entity:    entityName,
		Action:    ActionState,
		Metadata:  metadata,
		Data:      state,
		Timestamp: at.UTC(),
	}
}

// BuildOutcomeMessage wraps a reportable outcome.
func BuildOutcomeMessage(outcome Outcome, extras map[string]string) *Message {
	metadata := map[string]string{
		"level":  string(outcome.Level),
		"action": outcome.Action,
	}
	if outcome.Kind != "" {
		metadata["kind"] = string(outcome.Kind)
	}
	metadata = mergeInto(metadata, extras)
	return &Message{
		Topic:      OutcomeTopic(outcome.Entity),
		Entity:     outcome.Entity,
		Action:     ActionOutcome,
		ResourceID: outcome.Identity,
		Metadata:   metadata,
		Data:       outcome,
		Timestamp:  outcome.At.UTC(),
	}
}

// BuildErrorMessage reports a command that could not be processed at all,
// e.g. an undecodable payload.
func BuildErrorMessage(entity, action, reason string, at time.Time) *Message {
	entityName := strings.TrimSpace(entity)
	metadata := map[string]string{"action": strings.TrimSpace(action)}
	if trimmed := strings.TrimSpace(reason); trimmed != "" {
		metadata["reason"] = trimmed
	}
	return &Message{
		Topic:     ErrorTopic(entityName),
		Entity:    entityName,
		Action:    ActionError,
		Metadata:  metadata,
		Data:      map[string]string{"error": reason},
		Timestamp: at.UTC(),
	}
}

func mergeInto(target map[string]string, extras map[string]string) map[string]string {
	if len(extras) == 0 {
		return target
	}
	if target == nil {
		target = map[string]string{}
	}
	for key, value := range extras {
		trimmedKey := strings.TrimSpace(key)
		trimmedValue := strings.TrimSpace(value)
		if trimmedKey == "" || trimmedValue == "" {
			continue
		}
		target[trimmedKey] = trimmedValue
	}
	return target
}

// BuildDashboardMessage wraps the landing page snapshot.
func BuildDashboardMessage(dashboard *Dashboard, at time.Time, extras map[string]string) *Message {
	metadata := mergeInto(map[string]string{}, extras)
	if len(metadata) == 0 {
		metadata = nil
	}
	return &Message{
		Topic:     StateTopic(ActionDashboard),
		Entity:    ActionDashboard,
		Action:    ActionState,
		Metadata:  metadata,
		Data:      dashboard,
		Timestamp: at.UTC(),
	}
}
