// Package agent drives the bounded conversation loop between the language
// model and the tool catalog.
//
// Design:
//   - Model output is untrusted. The interpreter maps every reply into a
//     closed set of intents; text that fits no legal shape is itself a
//     handled value (malformed), never an exception.
//   - The conversation state is an explicit object owned by one run, so the
//     iteration bound and transcript are auditable and testable without any
//     external service.
//   - The loop always terminates: every branch consumes exactly one
//     iteration, and the bound is checked before each model request.
package agent

import (
	"encoding/json"
	"strings"

	"github.com/matiasleandrokruk/puente/internal/domain/tool"
)

// IntentKind tags the interpreter's classification of one model reply.
type IntentKind string

const (
	IntentToolCall   IntentKind = "tool_call"
	IntentCompletion IntentKind = "completion"
	IntentRefusal    IntentKind = "refusal"
	IntentMalformed  IntentKind = "malformed"
)

// TurnIntent is the interpreter's output for one model reply. Exactly one
// kind is active; the fields that matter depend on it.
type TurnIntent struct {
	Kind       IntentKind
	Invocation tool.Invocation // tool_call
	Answer     string          // completion
	Reason     string          // refusal
	RawText    string          // always set, verbatim model output
	// Ambiguous marks replies that satisfied more than one legal shape;
	// the active kind was chosen by precedence (refusal, completion, tool
	// call) but such replies are worth surfacing in traces.
	Ambiguous bool
}

// Interpret classifies a raw model reply. It never returns an error: parsing
// failures are data. A reply that is not a JSON object matching one of the
// three legal shapes, or a tool call whose arguments are not an object,
// yields a malformed intent carrying the raw text.
func Interpret(rawText string) TurnIntent {
	intent := TurnIntent{Kind: IntentMalformed, RawText: rawText}

	payload, ok := parseObject(rawText)
	if !ok {
		return intent
	}

	refused := payload["refuse"] == true
	done := payload["done"] == true
	toolName, hasTool := payload["tool"].(string)
	hasTool = hasTool && strings.TrimSpace(toolName) != ""

	matched := 0
	for _, m := range []bool{refused, done, hasTool} {
		if m {
			matched++
		}
	}
	intent.Ambiguous = matched > 1

	switch {
	case refused:
		intent.Kind = IntentRefusal
		intent.Reason, _ = payload["reason"].(string)
		if intent.Reason == "" {
			intent.Reason = "no reason given"
		}
	case done:
		intent.Kind = IntentCompletion
		intent.Answer, _ = payload["answer"].(string)
		if intent.Answer == "" {
			intent.Answer = "Task completed."
		}
	case hasTool:
		args, argsOK := objectField(payload, "arguments")
		if !argsOK {
			// a tool call with non-object arguments is malformed, not a
			// schema violation: there is nothing to validate yet
			return intent
		}
		intent.Kind = IntentToolCall
		intent.Invocation = tool.Invocation{Tool: toolName, RawArgs: args}
	}
	return intent
}

// parseObject decodes rawText as a JSON object. If the whole text does not
// parse, it retries on the span from the first '{' to the last '}' — models
// habitually wrap their JSON in prose.
func parseObject(rawText string) (map[string]any, bool) {
	trimmed := strings.TrimSpace(rawText)

	var payload map[string]any
	if err := json.Unmarshal([]byte(trimmed), &payload); err == nil {
		return payload, true
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end <= start {
		return nil, false
	}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &payload); err != nil {
		return nil, false
	}
	return payload, true
}

// objectField reads a key as a JSON object. An absent key is an empty
// object; any other type fails.
func objectField(payload map[string]any, key string) (map[string]any, bool) {
	value, present := payload[key]
	if !present || value == nil {
		return map[string]any{}, true
	}
	obj, ok := value.(map[string]any)
	return obj, ok
}
