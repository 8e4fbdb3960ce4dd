package models

import "time"

// Progress stages emitted during a collection run, one identifier at a time.
const (
	StageResolving = "resolving"
	StageFetching  = "fetching"
	StageBuilding  = "building"
	StageCollected = "collected"
	StageFailed    = "failed"
)

// ProgressEvent reports the stage of one identifier within a run. Events
// are broadcast to WebSocket subscribers; dropping a slow subscriber is
// acceptable, losing collection results is not.
type ProgressEvent struct {
	RunID       string    `json:"run_id"`
	Identifier  string    `json:"identifier"`
	DisplayName string    `json:"display_name,omitempty"`
	Stage       string    `json:"stage"`
	Kind        ErrorKind `json:"kind,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
