package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/matiasleandrokruk/puente/internal/domain/tool"
	"github.com/matiasleandrokruk/puente/internal/infra/eventbus"
	"github.com/matiasleandrokruk/puente/internal/infra/llm"
	"github.com/matiasleandrokruk/puente/pkg/uuid"
)

// Outcome is the result of one complete run.
type Outcome struct {
	RunID      string
	Status     TerminalStatus
	Answer     string
	Iterations int
	ToolCalls  int
	Transcript []Entry
	// Err is set only for StatusFatalError.
	Err error
}

// RunStartedEvent is published on eventbus.TopicRunStarted.
type RunStartedEvent struct {
	RunID    string
	Question string
}

// RunFinishedEvent is published on eventbus.TopicRunFinished.
type RunFinishedEvent struct {
	RunID      string
	Question   string
	Status     TerminalStatus
	Iterations int
	ToolCalls  int
	Duration   time.Duration
}

// Orchestrator owns the conversation loop. One instance serves many
// concurrent runs: all per-run state lives in the Conversation, and the
// registry is immutable.
type Orchestrator struct {
	registry      *tool.Registry
	executor      *tool.Executor
	provider      llm.CompletionProvider
	maxIterations int
	bus           eventbus.EventBus
	trace         io.Writer
}

// NewOrchestrator wires the loop. bus and trace may be nil; maxIterations
// below 1 falls back to 1.
func NewOrchestrator(registry *tool.Registry, executor *tool.Executor, provider llm.CompletionProvider, maxIterations int, bus eventbus.EventBus, trace io.Writer) *Orchestrator {
	if maxIterations < 1 {
		maxIterations = 1
	}
	return &Orchestrator{
		registry:      registry,
		executor:      executor,
		provider:      provider,
		maxIterations: maxIterations,
		bus:           bus,
		trace:         trace,
	}
}

// Run answers one question through the bounded loop and always returns a
// terminal Outcome. maxIterationsOverride replaces the configured bound when
// positive.
func (o *Orchestrator) Run(ctx context.Context, question string, maxIterationsOverride int) *Outcome {
	maxIterations := o.maxIterations
	if maxIterationsOverride > 0 {
		maxIterations = maxIterationsOverride
	}

	started := time.Now()
	conv := NewConversation(uuid.NewV7().String(), question, maxIterations)
	o.publish(eventbus.TopicRunStarted, RunStartedEvent{RunID: conv.RunID(), Question: question})
	o.tracef("question: %s\n", question)

	prompt := BuildInitialPrompt(question, o.registry.Schemas())
	lastCall := ""

	for {
		// Cancellation is honored only here, between iterations, so a tool
		// invocation is never abandoned half-applied.
		if err := ctx.Err(); err != nil {
			conv.Finish(StatusFatalError, fmt.Sprintf("run cancelled: %v", err))
			return o.finish(conv, started, err)
		}
		if conv.AtLimit() {
			conv.Finish(StatusIterationLimit, fmt.Sprintf(
				"could not complete the task within %d iterations (%d tool calls made)",
				maxIterations, conv.ToolCalls()))
			o.tracef("iteration limit reached (%d)\n", maxIterations)
			return o.finish(conv, started, nil)
		}

		o.tracef("--- iteration %d ---\n", conv.Iterations()+1)

		resp, err := o.provider.Complete(ctx, llm.CompletionRequest{
			Prompt:   prompt,
			JSONMode: true,
		})
		if err != nil {
			conv.Finish(StatusFatalError, fmt.Sprintf("model service unreachable: %v", err))
			o.tracef("fatal: %v\n", err)
			return o.finish(conv, started, err)
		}
		conv.Append(EntryModelReply, resp.Text)

		intent := Interpret(resp.Text)
		if intent.Ambiguous {
			o.tracef("reply matched more than one shape, resolved to %s\n", intent.Kind)
		}

		switch intent.Kind {
		case IntentRefusal:
			o.tracef("refused: %s\n", intent.Reason)
			conv.Finish(StatusRefused, intent.Reason)
			return o.finish(conv, started, nil)

		case IntentCompletion:
			o.tracef("done: %s\n", intent.Answer)
			conv.Finish(StatusAnswered, intent.Answer)
			return o.finish(conv, started, nil)

		case IntentMalformed:
			o.tracef("malformed reply: %.120s\n", intent.RawText)
			instruction := MalformedInstruction()
			prompt += instruction
			conv.Append(EntryInstruction, instruction)
			conv.CompleteIteration()

		case IntentToolCall:
			call := callFingerprint(intent.Invocation)
			if call != "" && call == lastCall {
				o.tracef("repeated call to %s, forcing completion\n", intent.Invocation.Tool)
				instruction := RepeatedCallInstruction()
				prompt += instruction
				conv.Append(EntryInstruction, instruction)
				lastCall = ""
				conv.CompleteIteration()
				continue
			}
			lastCall = call

			o.tracef("tool call: %s\n", intent.Invocation.Tool)
			conv.RecordToolCall()
			res := o.executor.Run(ctx, conv.RunID(), intent.Invocation)
			if res.OK {
				o.tracef("tool result: success\n")
			} else {
				o.tracef("tool result: %s: %s\n", res.Kind, res.Message)
			}

			segment := ResultSegment(intent.Invocation, res)
			prompt += segment
			conv.Append(EntryToolResult, segment)
			conv.CompleteIteration()
		}
	}
}

// callFingerprint canonicalizes one invocation for repeat detection.
// json.Marshal sorts map keys, so argument order does not matter.
func callFingerprint(inv tool.Invocation) string {
	args, err := json.Marshal(inv.RawArgs)
	if err != nil {
		return ""
	}
	return inv.Tool + ":" + string(args)
}

func (o *Orchestrator) finish(conv *Conversation, started time.Time, err error) *Outcome {
	o.publish(eventbus.TopicRunFinished, RunFinishedEvent{
		RunID:      conv.RunID(),
		Question:   conv.Question(),
		Status:     conv.Status(),
		Iterations: conv.Iterations(),
		ToolCalls:  conv.ToolCalls(),
		Duration:   time.Since(started),
	})
	return &Outcome{
		RunID:      conv.RunID(),
		Status:     conv.Status(),
		Answer:     conv.OutcomeText(),
		Iterations: conv.Iterations(),
		ToolCalls:  conv.ToolCalls(),
		Transcript: conv.Transcript(),
		Err:        err,
	}
}

func (o *Orchestrator) publish(topic string, payload any) {
	if o.bus != nil {
		o.bus.Publish(topic, payload)
	}
}

func (o *Orchestrator) tracef(format string, args ...any) {
	if o.trace != nil {
		fmt.Fprintf(o.trace, format, args...)
	}
}
