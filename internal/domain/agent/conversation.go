package agent

// TerminalStatus is one of the four final outcomes of a conversation loop.
type TerminalStatus string

const (
	StatusAnswered       TerminalStatus = "answered"
	StatusRefused        TerminalStatus = "refused"
	StatusIterationLimit TerminalStatus = "iteration_limit_exceeded"
	StatusFatalError     TerminalStatus = "fatal_error"
)

// EntryKind tags one transcript entry.
type EntryKind string

const (
	EntryQuestion    EntryKind = "question"
	EntryModelReply  EntryKind = "model_reply"
	EntryToolResult  EntryKind = "tool_result"
	EntryInstruction EntryKind = "instruction"
)

// Entry is one element of the append-only transcript.
type Entry struct {
	Kind EntryKind
	Text string
}

// Conversation is the state of one run. It is owned by exactly one
// orchestrator invocation and never shared, so it needs no locking.
// The transcript is append-only, the iteration count only grows, and the
// terminal status transitions exactly once.
type Conversation struct {
	runID         string
	question      string
	maxIterations int
	iterations    int
	toolCalls     int
	entries       []Entry
	status        TerminalStatus
	outcomeText   string
}

// NewConversation starts a run. The question becomes the first transcript
// entry.
func NewConversation(runID, question string, maxIterations int) *Conversation {
	c := &Conversation{
		runID:         runID,
		question:      question,
		maxIterations: maxIterations,
	}
	c.entries = append(c.entries, Entry{Kind: EntryQuestion, Text: question})
	return c
}

func (c *Conversation) RunID() string    { return c.runID }
func (c *Conversation) Question() string { return c.question }

// Iterations returns the number of completed loop cycles.
func (c *Conversation) Iterations() int { return c.iterations }

// ToolCalls returns how many tool invocations were attempted.
func (c *Conversation) ToolCalls() int { return c.toolCalls }

// Append adds one transcript entry. Appends after the terminal status is set
// are ignored: no state changes once the loop has ended.
func (c *Conversation) Append(kind EntryKind, text string) {
	if c.status != "" {
		return
	}
	c.entries = append(c.entries, Entry{Kind: kind, Text: text})
}

// CompleteIteration marks one loop cycle as finished. Every branch of the
// loop (malformed reply, rejected invocation, executed tool) costs exactly
// one iteration, so the configured bound caps total work predictably.
func (c *Conversation) CompleteIteration() {
	if c.status != "" {
		return
	}
	c.iterations++
}

// RecordToolCall counts one invocation attempt.
func (c *Conversation) RecordToolCall() {
	if c.status != "" {
		return
	}
	c.toolCalls++
}

// AtLimit reports whether the iteration bound forbids another model request.
func (c *Conversation) AtLimit() bool {
	return c.iterations >= c.maxIterations
}

// Finish sets the terminal status. The first call wins; later calls are
// no-ops and return false.
func (c *Conversation) Finish(status TerminalStatus, outcomeText string) bool {
	if c.status != "" {
		return false
	}
	c.status = status
	c.outcomeText = outcomeText
	return true
}

// Status returns the terminal status, or "" while the loop is running.
func (c *Conversation) Status() TerminalStatus { return c.status }

// OutcomeText returns the answer, refusal reason or failure description
// recorded by Finish.
func (c *Conversation) OutcomeText() string { return c.outcomeText }

// Transcript returns a copy of the entries so far.
func (c *Conversation) Transcript() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}
