// Package mcpserver exposes the tool catalog over the Model Context Protocol,
// so MCP-capable clients can call the same tools the conversation loop uses.
// Every call goes through the executor, which means schema validation, the
// invocation timeout and the audit trail apply to MCP callers too.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/matiasleandrokruk/puente/internal/domain/tool"
	"github.com/matiasleandrokruk/puente/internal/version"
	"github.com/matiasleandrokruk/puente/pkg/uuid"
)

// Server bridges the tool registry to an MCP server.
type Server struct {
	mcp *mcp.Server
}

// New builds an MCP server exposing every registered tool.
func New(registry *tool.Registry, executor *tool.Executor) *Server {
	srv := mcp.NewServer(
		&mcp.Implementation{Name: "puente", Version: version.Version},
		nil,
	)

	for _, schema := range registry.Schemas() {
		srv.AddTool(&mcp.Tool{
			Name:        schema.Name,
			Description: schema.Description,
			InputSchema: schema.Parameters,
		}, toolHandler(executor, schema.Name))
	}

	return &Server{mcp: srv}
}

// toolHandler adapts one registry tool to an MCP tool handler. Capability
// failures come back as IsError results, matching how the conversation loop
// reports them to the model; only argument JSON that does not parse is
// rejected before reaching the executor.
func toolHandler(executor *tool.Executor, name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args map[string]any
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return textResult(fmt.Sprintf("invalid arguments JSON: %v", err), true), nil
			}
		}

		// Each MCP call is its own run for audit purposes.
		runID := uuid.NewV7().String()
		res := executor.Run(ctx, runID, tool.Invocation{Tool: name, RawArgs: args})

		payload, err := json.Marshal(res.Payload())
		if err != nil {
			return textResult(fmt.Sprintf("encode result: %v", err), true), nil
		}
		return textResult(string(payload), !res.OK), nil
	}
}

func textResult(text string, isError bool) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: isError,
	}
}

// Run serves MCP over the given transport until ctx is cancelled.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.mcp.Run(ctx, transport)
}

// HTTPHandler returns a streamable-HTTP handler for mounting under /mcp.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcp
	}, nil)
}
