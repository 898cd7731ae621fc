package domain

import "strings"

const (
	SystemEntity = "system"

	TopicSystemConnected = SystemEntity + ".connected"
	TopicSystemPong      = SystemEntity + ".pong"

	// NotificationsTopic fans out every outcome of every view.
	NotificationsTopic = "notifications.outcome"

	ActionConnected = "connected"
	ActionPong      = "pong"
	ActionError     = "error"
	ActionState     = "state"
	ActionOutcome   = "outcome"
	ActionList      = "list"
	ActionCreate    = "create"
	ActionUpdate    = "update"
	ActionDelete    = "delete"
	ActionToggle    = "toggle"
	ActionDashboard = "dashboard"
)

// StateTopic returns the view state topic for the given entity.
func StateTopic(entity string) string {
	return buildEntityTopic(entity, ActionState)
}

// OutcomeTopic returns the reportable outcome topic for the given entity.
func OutcomeTopic(entity string) string {
	return buildEntityTopic(entity, ActionOutcome)
}

// ErrorTopic returns the command error topic for the given entity.
func ErrorTopic(entity string) string {
	return buildEntityTopic(entity, ActionError)
}

func buildEntityTopic(entity, action string) string {
	cleanEntity := strings.TrimSpace(entity)
	cleanAction := strings.TrimSpace(action)
	if cleanEntity == "" || cleanAction == "" {
		return ""
	}
	return cleanEntity + "." + cleanAction
}
