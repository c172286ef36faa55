package stdio

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/google/uuid"

	"github.com/windlant/vqa-client/internal/protocol"
	"github.com/windlant/vqa-client/internal/tools"
)

type StdioToolClient struct {
	cmd    *exec.Cmd
	in     io.WriteCloser
	stdin  *json.Encoder
	stdout *bufio.Scanner
	mu     sync.Mutex // ensure thread-safe calls
}

// NewStdioToolClient starts the vqa_tool_server subprocess and sets up communication.
func NewStdioToolClient(serverBinary string, args ...string) (*StdioToolClient, error) {
	cmd := exec.Command(serverBinary, args...)
	cmd.Stderr = os.Stderr

	// Create pipes
	stdinPipe, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	// Start the subprocess
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start server process: %w", err)
	}

	client := NewClient(stdinPipe, stdoutPipe)
	client.cmd = cmd
	return client, nil
}

// NewClient speaks the NDJSON protocol over an already connected pair of streams.
func NewClient(w io.WriteCloser, r io.Reader) *StdioToolClient {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &StdioToolClient{
		in:     w,
		stdin:  json.NewEncoder(w),
		stdout: scanner,
	}
}

// sendRequest sends a request and reads one line of response.
func (c *StdioToolClient) sendRequest(ctx context.Context, req interface{}) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.stdin.Encode(req); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if c.stdout.Scan() {
		line := c.stdout.Bytes()
		out := make([]byte, len(line))
		copy(out, line)
		return out, nil
	}

	if err := c.stdout.Err(); err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	return nil, fmt.Errorf("server closed stdout unexpectedly")
}

// Call invokes a tool by name with arguments.
func (c *StdioToolClient) Call(ctx context.Context, name string, args tools.ToolArguments) (tools.Result, error) {
	req := protocol.MCPToolCallRequest{
		ID:     uuid.NewString(),
		Method: protocol.MCPMethodCallTool,
		Name:   name,
		Args:   args,
	}

	respBytes, err := c.sendRequest(ctx, req)
	if err != nil {
		return tools.Result{}, err
	}

	var resp protocol.MCPToolCallResponse
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return tools.Result{}, fmt.Errorf("failed to parse tool call response: %w", err)
	}
	if resp.ID != "" && resp.ID != req.ID {
		return tools.Result{}, fmt.Errorf("response id %s does not match request id %s", resp.ID, req.ID)
	}

	switch {
	case resp.Code == protocol.MCPCodeToolNotFound:
		return tools.Result{}, fmt.Errorf("%w: %s", tools.ErrToolNotFound, name)
	case resp.ErrorKind != "":
		return tools.Result{Err: &tools.ToolError{Kind: resp.ErrorKind, Message: resp.Error}}, nil
	case resp.Error != "":
		return tools.Result{}, fmt.Errorf("tool error: %s", resp.Error)
	}
	return tools.Ok(resp.Result), nil
}

// List retrieves all available tools from the server.
func (c *StdioToolClient) List(ctx context.Context) ([]tools.ToolDefinition, error) {
	req := protocol.MCPListToolsRequest{
		ID:     uuid.NewString(),
		Method: protocol.MCPMethodListTools,
	}

	respBytes, err := c.sendRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to send list_tools request: %w", err)
	}

	var resp protocol.MCPListToolsResponse
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse list_tools response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("list_tools failed: %s", resp.Error)
	}

	return resp.Tools, nil
}

func (c *StdioToolClient) Close() error {
	closeErr := c.in.Close()
	if c.cmd == nil {
		return closeErr
	}
	if c.cmd.Process != nil {
		_ = c.cmd.Process.Kill()
	}
	_ = c.cmd.Wait()
	return nil
}

var _ tools.ToolClient = (*StdioToolClient)(nil)
