package createnotification

import "acc-notifications/internal/common/validation"

// GetInputSchema only checks the shape of the payload. Whether id and type name something the
// engine can notify about is the engine's call, so those failures come back as bad-format.
func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"type"},
		Properties: map[string]validation.Property{
			"id": {
				Description: "Reference id of the triggering object; any JSON value",
			},
			"type": {
				Type:        "string",
				Description: "Notification type identifier",
			},
			"actorUserId": {
				Description: "User whose action triggered the event",
			},
		},
		AdditionalProperties: true,
	}
}
