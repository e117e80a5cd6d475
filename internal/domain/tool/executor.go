package tool

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matiasleandrokruk/puente/internal/infra/eventbus"
)

// FailureKind is the closed vocabulary of tool-boundary failures.
type FailureKind string

const (
	FailureUnknownTool     FailureKind = "unknown_tool"
	FailureSchemaViolation FailureKind = "schema_violation"
	FailureExecution       FailureKind = "tool_execution_failure"
	FailureTimeout         FailureKind = "timeout"
)

// Result is the outcome of one invocation attempt. Exactly one variant is
// populated: Value when OK, Kind+Message otherwise.
type Result struct {
	Tool     string
	OK       bool
	Value    any
	Kind     FailureKind
	Message  string
	Duration time.Duration
}

// Payload renders the result in the shape appended to the transcript. The
// model sees the true outcome verbatim, success or failure alike.
func (r Result) Payload() map[string]any {
	if r.OK {
		return map[string]any{
			"tool":   r.Tool,
			"status": "success",
			"result": r.Value,
		}
	}
	return map[string]any{
		"tool":       r.Tool,
		"status":     "error",
		"error_kind": string(r.Kind),
		"message":    r.Message,
	}
}

// ToolExecutedEvent is published on eventbus.TopicToolExecuted after every
// invocation attempt, including rejected and failed ones.
type ToolExecutedEvent struct {
	RunID    string
	Tool     string
	Args     map[string]any
	OK       bool
	Kind     FailureKind
	Message  string
	Duration time.Duration
}

// Executor resolves, validates and runs invocations. It is the single point
// where capability faults (domain errors, panics, timeouts) are converted
// into the Result vocabulary; nothing above it ever sees a raw fault.
type Executor struct {
	registry *Registry
	timeout  time.Duration
	bus      eventbus.EventBus
}

// NewExecutor creates an Executor. timeout bounds each capability call;
// zero disables the bound. bus may be nil.
func NewExecutor(registry *Registry, timeout time.Duration, bus eventbus.EventBus) *Executor {
	return &Executor{registry: registry, timeout: timeout, bus: bus}
}

// Run takes a raw invocation through lookup, validation and execution.
// The returned Result is always fully populated; Run never returns an error
// and never panics.
func (e *Executor) Run(ctx context.Context, runID string, inv Invocation) Result {
	started := time.Now()

	desc, ok := e.registry.Lookup(inv.Tool)
	if !ok {
		return e.finish(runID, inv, Result{
			Tool:    inv.Tool,
			Kind:    FailureUnknownTool,
			Message: fmt.Sprintf("no tool named %q is available", inv.Tool),
		}, started)
	}

	args, violation := Validate(desc, inv.RawArgs)
	if violation != nil {
		return e.finish(runID, inv, Result{
			Tool:    inv.Tool,
			Kind:    FailureSchemaViolation,
			Message: violation.Error(),
		}, started)
	}

	value, err := e.invoke(ctx, desc, args)
	if err != nil {
		// Only a deadline is a timeout. A caller cancellation aborts the
		// invocation but must not masquerade as the tool being slow.
		kind := FailureExecution
		if errors.Is(err, context.DeadlineExceeded) {
			kind = FailureTimeout
		}
		return e.finish(runID, inv, Result{
			Tool:    inv.Tool,
			Kind:    kind,
			Message: err.Error(),
		}, started)
	}

	return e.finish(runID, inv, Result{
		Tool:  inv.Tool,
		OK:    true,
		Value: value,
	}, started)
}

// invoke runs the capability under the configured timeout with panic
// recovery. The capability runs on its own goroutine so a hung tool cannot
// block the loop past the deadline; the goroutine is abandoned on timeout.
func (e *Executor) invoke(ctx context.Context, desc *Descriptor, args Args) (any, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	type outcome struct {
		value any
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("tool %q panicked: %v", desc.Name, r)}
			}
		}()
		value, err := desc.Capability.Invoke(ctx, args)
		done <- outcome{value: value, err: err}
	}()

	select {
	case out := <-done:
		return out.value, out.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, fmt.Errorf("tool %q was cancelled: %w", desc.Name, ctx.Err())
		}
		return nil, fmt.Errorf("tool %q did not finish in time: %w", desc.Name, ctx.Err())
	}
}

func (e *Executor) finish(runID string, inv Invocation, res Result, started time.Time) Result {
	res.Duration = time.Since(started)
	if e.bus != nil {
		e.bus.Publish(eventbus.TopicToolExecuted, ToolExecutedEvent{
			RunID:    runID,
			Tool:     inv.Tool,
			Args:     inv.RawArgs,
			OK:       res.OK,
			Kind:     res.Kind,
			Message:  res.Message,
			Duration: res.Duration,
		})
	}
	return res
}
