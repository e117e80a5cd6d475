package agent

import (
	"testing"
)

func TestInterpret_ToolCall(t *testing.T) {
	t.Parallel()

	intent := Interpret(`{"tool": "calculator", "arguments": {"operation": "add", "a": 234, "b": 567}}`)
	if intent.Kind != IntentToolCall {
		t.Fatalf("expected tool_call, got %s", intent.Kind)
	}
	if intent.Invocation.Tool != "calculator" {
		t.Errorf("expected calculator, got %q", intent.Invocation.Tool)
	}
	if intent.Invocation.RawArgs["operation"] != "add" || intent.Invocation.RawArgs["a"] != float64(234) {
		t.Errorf("unexpected raw args: %v", intent.Invocation.RawArgs)
	}
	if intent.Ambiguous {
		t.Error("single-shape reply must not be flagged ambiguous")
	}
}

func TestInterpret_ToolCall_MissingArguments_DefaultsEmpty(t *testing.T) {
	t.Parallel()

	intent := Interpret(`{"tool": "search_docs"}`)
	if intent.Kind != IntentToolCall {
		t.Fatalf("expected tool_call, got %s", intent.Kind)
	}
	if len(intent.Invocation.RawArgs) != 0 {
		t.Errorf("expected empty raw args, got %v", intent.Invocation.RawArgs)
	}
}

func TestInterpret_Completion(t *testing.T) {
	t.Parallel()

	intent := Interpret(`{"done": true, "answer": "The result is 801."}`)
	if intent.Kind != IntentCompletion {
		t.Fatalf("expected completion, got %s", intent.Kind)
	}
	if intent.Answer != "The result is 801." {
		t.Errorf("unexpected answer: %q", intent.Answer)
	}
}

func TestInterpret_Completion_MissingAnswer_Defaults(t *testing.T) {
	t.Parallel()

	intent := Interpret(`{"done": true}`)
	if intent.Kind != IntentCompletion {
		t.Fatalf("expected completion, got %s", intent.Kind)
	}
	if intent.Answer == "" {
		t.Error("expected a default answer text")
	}
}

func TestInterpret_Refusal(t *testing.T) {
	t.Parallel()

	intent := Interpret(`{"refuse": true, "reason": "no suitable tool"}`)
	if intent.Kind != IntentRefusal {
		t.Fatalf("expected refusal, got %s", intent.Kind)
	}
	if intent.Reason != "no suitable tool" {
		t.Errorf("unexpected reason: %q", intent.Reason)
	}
}

func TestInterpret_Malformed_Cases(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
	}{
		{"prose", "I think I should use the calculator now."},
		{"empty", ""},
		{"json array", `[1, 2, 3]`},
		{"done false", `{"done": false}`},
		{"refuse not bool", `{"refuse": "yes", "reason": "x"}`},
		{"empty tool name", `{"tool": "", "arguments": {}}`},
		{"arguments not object", `{"tool": "calculator", "arguments": [1, 2]}`},
		{"unrelated keys", `{"thought": "hmm"}`},
		{"truncated json", `{"tool": "calc`},
	}
	for _, tc := range cases {
		intent := Interpret(tc.raw)
		if intent.Kind != IntentMalformed {
			t.Errorf("%s: expected malformed, got %s", tc.name, intent.Kind)
		}
		if intent.RawText != tc.raw {
			t.Errorf("%s: raw text must be carried verbatim", tc.name)
		}
	}
}

func TestInterpret_JSONWrappedInProse_Extracted(t *testing.T) {
	t.Parallel()

	intent := Interpret(`Sure! Here is my decision: {"done": true, "answer": "42"} Hope that helps.`)
	if intent.Kind != IntentCompletion {
		t.Fatalf("expected completion extracted from prose, got %s", intent.Kind)
	}
	if intent.Answer != "42" {
		t.Errorf("unexpected answer: %q", intent.Answer)
	}
}

func TestInterpret_Precedence_RefusalOverCompletionOverToolCall(t *testing.T) {
	t.Parallel()

	intent := Interpret(`{"refuse": true, "reason": "r", "done": true, "answer": "a", "tool": "calculator"}`)
	if intent.Kind != IntentRefusal {
		t.Errorf("expected refusal to win, got %s", intent.Kind)
	}
	if !intent.Ambiguous {
		t.Error("multi-shape reply must be flagged ambiguous")
	}

	intent = Interpret(`{"done": true, "answer": "a", "tool": "calculator", "arguments": {}}`)
	if intent.Kind != IntentCompletion {
		t.Errorf("expected completion to win over tool call, got %s", intent.Kind)
	}
	if !intent.Ambiguous {
		t.Error("multi-shape reply must be flagged ambiguous")
	}
}

func TestInterpret_NeverPanics(t *testing.T) {
	t.Parallel()

	inputs := []string{
		`{"tool": null}`,
		`{"arguments": {"a": 1}}`,
		"{}{}{}",
		"}{",
		`{"done": 1}`,
		"\x00\xff",
	}
	for _, raw := range inputs {
		// Interpret must classify, never raise.
		intent := Interpret(raw)
		if intent.Kind == "" {
			t.Errorf("%q: no kind assigned", raw)
		}
	}
}
