package audit

import (
	"context"
	"log"
	"sync"

	"github.com/matiasleandrokruk/puente/internal/domain/agent"
	"github.com/matiasleandrokruk/puente/internal/domain/tool"
	"github.com/matiasleandrokruk/puente/internal/infra/eventbus"
)

// Recorder consumes orchestrator lifecycle events and persists them through
// the audit Service. It runs in the background and never blocks a run:
// persistence failures are logged and dropped.
type Recorder struct {
	svc *Service
	bus eventbus.EventBus
	wg  sync.WaitGroup
}

// NewRecorder creates a Recorder; call Start to begin consuming.
func NewRecorder(svc *Service, bus eventbus.EventBus) *Recorder {
	return &Recorder{svc: svc, bus: bus}
}

// Start subscribes to the tool-executed and run-finished topics and consumes
// them until ctx is cancelled. Events already buffered at cancellation time
// are still persisted: the final RunFinishedEvent of a CLI run is published
// microseconds before shutdown, and it must not be lost.
func (r *Recorder) Start(ctx context.Context) {
	toolEvents := r.bus.Subscribe(eventbus.TopicToolExecuted)
	runEvents := r.bus.Subscribe(eventbus.TopicRunFinished)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			select {
			case <-ctx.Done():
				r.drain(toolEvents, runEvents)
				return
			case evt := <-toolEvents:
				r.recordInvocation(evt)
			case evt := <-runEvents:
				r.recordRun(evt)
			}
		}
	}()
}

// drain consumes whatever is still buffered in the subscription channels
// without blocking for new events.
func (r *Recorder) drain(toolEvents, runEvents <-chan eventbus.Event) {
	for {
		select {
		case evt := <-toolEvents:
			r.recordInvocation(evt)
		case evt := <-runEvents:
			r.recordRun(evt)
		default:
			return
		}
	}
}

// Wait blocks until the consumption loop has exited.
func (r *Recorder) Wait() {
	r.wg.Wait()
}

func (r *Recorder) recordInvocation(evt eventbus.Event) {
	payload, ok := evt.Payload.(tool.ToolExecutedEvent)
	if !ok {
		return
	}
	outcome := OutcomeFailure
	if payload.OK {
		outcome = OutcomeSuccess
	}
	rec := &InvocationRecord{
		RunID:     payload.RunID,
		ToolName:  payload.Tool,
		Arguments: payload.Args,
		Outcome:   outcome,
		ErrorKind: string(payload.Kind),
		Message:   payload.Message,
		Duration:  payload.Duration,
	}
	if err := r.svc.LogInvocation(context.Background(), rec); err != nil {
		log.Printf("audit: record invocation: %v", err)
	}
}

func (r *Recorder) recordRun(evt eventbus.Event) {
	payload, ok := evt.Payload.(agent.RunFinishedEvent)
	if !ok {
		return
	}
	rec := &RunRecord{
		ID:         payload.RunID,
		Question:   payload.Question,
		Status:     string(payload.Status),
		Iterations: payload.Iterations,
		ToolCalls:  payload.ToolCalls,
	}
	if err := r.svc.LogRun(context.Background(), rec); err != nil {
		log.Printf("audit: record run: %v", err)
	}
}
