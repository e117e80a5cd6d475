package agent

import (
	"testing"
)

func TestConversation_QuestionOpensTranscript(t *testing.T) {
	t.Parallel()

	c := NewConversation("run-1", "what is 2+2?", 5)
	entries := c.Transcript()
	if len(entries) != 1 || entries[0].Kind != EntryQuestion || entries[0].Text != "what is 2+2?" {
		t.Errorf("unexpected opening transcript: %v", entries)
	}
}

func TestConversation_IterationBound(t *testing.T) {
	t.Parallel()

	c := NewConversation("run-1", "q", 2)
	if c.AtLimit() {
		t.Error("fresh conversation must not be at limit")
	}
	c.CompleteIteration()
	if c.AtLimit() {
		t.Error("1 of 2 iterations must not hit the limit")
	}
	c.CompleteIteration()
	if !c.AtLimit() {
		t.Error("expected limit at 2 of 2 iterations")
	}
	if c.Iterations() != 2 {
		t.Errorf("expected 2 iterations, got %d", c.Iterations())
	}
}

func TestConversation_FinishExactlyOnce(t *testing.T) {
	t.Parallel()

	c := NewConversation("run-1", "q", 5)
	if !c.Finish(StatusAnswered, "42") {
		t.Fatal("first Finish must succeed")
	}
	if c.Finish(StatusRefused, "nope") {
		t.Error("second Finish must be a no-op")
	}
	if c.Status() != StatusAnswered || c.OutcomeText() != "42" {
		t.Errorf("terminal state overwritten: %s %q", c.Status(), c.OutcomeText())
	}
}

func TestConversation_FrozenAfterTerminal(t *testing.T) {
	t.Parallel()

	c := NewConversation("run-1", "q", 5)
	c.Append(EntryModelReply, "reply")
	c.CompleteIteration()
	c.RecordToolCall()
	c.Finish(StatusAnswered, "done")

	c.Append(EntryInstruction, "late")
	c.CompleteIteration()
	c.RecordToolCall()

	if len(c.Transcript()) != 2 {
		t.Errorf("transcript grew after terminal: %v", c.Transcript())
	}
	if c.Iterations() != 1 || c.ToolCalls() != 1 {
		t.Errorf("counters moved after terminal: iterations=%d toolCalls=%d", c.Iterations(), c.ToolCalls())
	}
}

func TestConversation_TranscriptIsCopy(t *testing.T) {
	t.Parallel()

	c := NewConversation("run-1", "q", 5)
	c.Append(EntryModelReply, "reply")

	snapshot := c.Transcript()
	snapshot[0].Text = "tampered"

	if c.Transcript()[0].Text != "q" {
		t.Error("mutating the returned slice must not affect the conversation")
	}
}
