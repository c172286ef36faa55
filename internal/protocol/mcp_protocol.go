package protocol

import "github.com/windlant/vqa-client/internal/tools"

// MCP Method Constants
const (
	MCPMethodListTools = "list_tools"
	MCPMethodCallTool  = "call_tool"
)

// MCPCodeToolNotFound marks a call_tool response for a name the server does not host.
const MCPCodeToolNotFound = "tool_not_found"

// MCP Requests. ID is echoed back so the client can match a response to its request.

type MCPListToolsRequest struct {
	ID     string `json:"id,omitempty"`
	Method string `json:"method"` // must be "list_tools"
}

type MCPToolCallRequest struct {
	ID     string                 `json:"id,omitempty"`
	Method string                 `json:"method"` // must be "call_tool"
	Name   string                 `json:"name"`
	Args   map[string]interface{} `json:"arguments"`
}

// MCP Responses

type MCPListToolsResponse struct {
	ID    string                 `json:"id,omitempty"`
	Tools []tools.ToolDefinition `json:"tools"`
	Error string                 `json:"error,omitempty"`
}

// MCPToolCallResponse carries either a result or an error. ErrorKind is set
// when the tool itself failed; a bare Error is a server-side failure.
type MCPToolCallResponse struct {
	ID        string          `json:"id,omitempty"`
	Result    string          `json:"result"`
	Error     string          `json:"error,omitempty"`
	ErrorKind tools.ErrorKind `json:"error_kind,omitempty"`
	Code      string          `json:"code,omitempty"`
}
