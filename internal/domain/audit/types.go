// Package audit persists the append-only trail of runs and tool invocations.
// Records are write-once: no update or delete is ever issued.
package audit

import "time"

// Outcome tags the result of an audited invocation.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// InvocationRecord is one tool invocation attempt, including rejected and
// failed ones.
type InvocationRecord struct {
	ID        string         `json:"id"`
	RunID     string         `json:"run_id"`
	ToolName  string         `json:"tool_name"`
	Arguments map[string]any `json:"arguments"`
	Outcome   Outcome        `json:"outcome"`
	ErrorKind string         `json:"error_kind,omitempty"`
	Message   string         `json:"message,omitempty"`
	Duration  time.Duration  `json:"-"`
	CreatedAt time.Time      `json:"created_at"`
}

// RunRecord is the final outcome of one conversation run.
type RunRecord struct {
	ID         string    `json:"id"`
	Question   string    `json:"question"`
	Status     string    `json:"status"`
	Iterations int       `json:"iterations"`
	ToolCalls  int       `json:"tool_calls"`
	CreatedAt  time.Time `json:"created_at"`
}
