package agent

import (
	"encoding/json"
	"fmt"

	"github.com/matiasleandrokruk/puente/internal/domain/tool"
)

const promptTemplate = `You are a helpful assistant with access to tools. Your job is to answer the user's question by using the appropriate tools.

Available tools:
%s

CRITICAL RULES:
1. To use a tool, respond with ONLY this JSON:
   {"tool": "tool_name", "arguments": {"param": "value"}}

2. After you receive a tool result, you MUST respond with ONLY this JSON:
   {"done": true, "answer": "your final answer using the tool result"}

3. If a tool is not appropriate, respond with ONLY this JSON:
   {"refuse": true, "reason": "explanation"}

4. NEVER make up tool results - always wait for actual tool execution
5. ALWAYS finish after getting a tool result - do not call the same tool twice

User question: %s

Respond with JSON only:`

// BuildInitialPrompt renders the opening request: the question, the full
// tool catalog and the reply contract.
func BuildInitialPrompt(question string, schemas []tool.Schema) string {
	catalog, err := json.MarshalIndent(schemas, "", "  ")
	if err != nil {
		catalog = []byte("[]")
	}
	return fmt.Sprintf(promptTemplate, catalog, question)
}

// MalformedInstruction is appended after a reply that matched no legal shape.
func MalformedInstruction() string {
	return "\n\nError: Your response was not valid JSON matching the required format. " +
		`Respond with ONLY one of: {"tool": ..., "arguments": {...}}, {"done": true, "answer": ...} or {"refuse": true, "reason": ...}.`
}

// RepeatedCallInstruction forces completion after the model repeats the
// previous tool call verbatim.
func RepeatedCallInstruction() string {
	return "\n\nYou just called the same tool with the same arguments. " +
		`You MUST now respond with: {"done": true, "answer": "your final answer using the results you have"}`
}

// ResultSegment renders one execution result for the next turn. The result
// payload is embedded verbatim so the model sees the true outcome; the
// trailing instruction differs for success and failure.
func ResultSegment(inv tool.Invocation, res tool.Result) string {
	args, err := json.Marshal(inv.RawArgs)
	if err != nil {
		args = []byte("{}")
	}
	payload, err := json.Marshal(res.Payload())
	if err != nil {
		payload = []byte(`{"status":"error","message":"result could not be serialized"}`)
	}

	followUp := `Now decide: Is the user's question fully answered? If yes, respond with {"done": true, "answer": "..."}. If you need another tool to complete the task, call it now.`
	if !res.OK {
		followUp = `The tool returned an error. Respond with: {"done": true, "answer": "explain the error to the user"}`
	}

	return fmt.Sprintf("\n\nTool: %s\nArguments: %s\nResult: %s\n\n%s", inv.Tool, args, payload, followUp)
}
