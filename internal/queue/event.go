// Package queue defines message payloads exchanged over the message broker.
package queue

// PromptActivityEvent is published when a prompt is created or deleted.
// It carries enough information for downstream consumers to log, notify,
// or feed analytics without querying the primary database.
type PromptActivityEvent struct {
	Action     string `json:"action"` // "created" | "deleted"
	PromptID   uint64 `json:"prompt_id"`
	CreatorID  uint64 `json:"creator_id"`
	Username   string `json:"username,omitempty"`
	Tag        string `json:"tag"`
	OccurredAt string `json:"occurred_at"`
}
