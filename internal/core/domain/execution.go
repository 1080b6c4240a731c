package domain

import "time"

// ExecutionStatus is a workflow execution's terminal or running state as
// reported by the service.
type ExecutionStatus string

const (
	ExecutionStatusRunning   ExecutionStatus = "RUNNING"
	ExecutionStatusSucceeded ExecutionStatus = "SUCCEEDED"
	ExecutionStatusFailed    ExecutionStatus = "FAILED"
	ExecutionStatusTimedOut  ExecutionStatus = "TIMED_OUT"
	ExecutionStatusAborted   ExecutionStatus = "ABORTED"
)

// Execution is a read-only snapshot of one state machine execution, fetched
// once per run and never persisted. For failed executions Input carries the
// original input payload as the service returned it.
type Execution struct {
	StateMachineARN string
	ARN             string
	Name            string
	StartTime       time.Time
	Status          ExecutionStatus
	Input           string
}

// OutcomeStatus classifies what the retry workflow did with one execution.
type OutcomeStatus string

const (
	OutcomeWouldRetry OutcomeStatus = "would_retry"
	OutcomeRetried    OutcomeStatus = "retried"
	OutcomeFailed     OutcomeStatus = "failed"
)

// RetryOutcome records what happened to a single failed execution. Exactly
// one outcome is produced per execution processed; the set of outcomes for a
// run is its audit trail.
type RetryOutcome struct {
	Status       OutcomeStatus
	Execution    string // original execution ARN
	Input        string // original input, populated for would_retry
	NewExecution string // started execution ARN, populated for retried
	Error        string // failure description, populated for failed
}

// Record shapes the outcome for the output formatter.
func (o RetryOutcome) Record() Record {
	rec := NewRecord(
		Field{Name: "original_execution", Value: o.Execution},
		Field{Name: "status", Value: string(o.Status)},
	)
	switch o.Status {
	case OutcomeWouldRetry:
		rec.Set("input", o.Input)
	case OutcomeRetried:
		rec.Set("retry_execution", o.NewExecution)
	case OutcomeFailed:
		rec.Set("error", o.Error)
	}
	return rec
}
