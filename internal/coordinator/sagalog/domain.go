// Package sagalog is the durable journal of saga executions.
//
// Every transition an Orchestrator goes through is appended as one row, so an
// operator can see where a checkout stopped (for example an order that was
// committed but never got its payment attached) and jump to the matching
// trace through trace_id.
package sagalog

import "time"

// Status represents the lifecycle state of a saga execution.
type Status string

const (
	StatusStarted      Status = "STARTED"
	StatusStepDone     Status = "STEP_DONE"
	StatusCompleted    Status = "COMPLETED"
	StatusCompensating Status = "COMPENSATING"
	StatusFailed       Status = "FAILED"
)

// SagaLog is one journal row.
type SagaLog struct {
	// SagaID identifies the execution. Checkouts use the order number.
	SagaID      string
	Status      Status
	CurrentStep string

	// Payload is the JSON input, written only on STARTED.
	Payload string

	// ErrorMessages is a JSON array of failure details.
	ErrorMessages string

	TraceID   string
	SpanID    string
	UpdatedAt time.Time
}
