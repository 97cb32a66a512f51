// internal/workers/notification/create-notification/models.go
package createnotification

import "acc-notifications/internal/notification"

// Input is the coerced job payload. ID stays a string; the engine owns numeric parsing so a
// malformed id surfaces as bad-format rather than a validation failure.
type Input struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	ActorUserID int64  `json:"actorUserId"`
}

// Output is written back to the process as job variables.
type Output struct {
	InvocationID  string `json:"invocationId"`
	Type          string `json:"type"`
	ReferenceID   int64  `json:"referenceId"`
	Global        bool   `json:"global"`
	Recipients    int    `json:"recipients"`
	Emailed       int    `json:"emailed"`
	EmailFailures int    `json:"emailFailures"`
	Skipped       bool   `json:"skipped"`
}

func outputFrom(r *notification.Result) *Output {
	return &Output{
		InvocationID:  r.InvocationID,
		Type:          r.Type,
		ReferenceID:   r.ReferenceID,
		Global:        r.Global,
		Recipients:    r.Recipients,
		Emailed:       r.Emailed,
		EmailFailures: r.EmailFailures,
		Skipped:       r.Skipped,
	}
}
