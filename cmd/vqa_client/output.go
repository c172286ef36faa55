package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/windlant/vqa-client/internal/agent"
)

func printOutcome(w io.Writer, out agent.Outcome) {
	fmt.Fprintln(w, "=== Model tool calls ===")
	if len(out.ToolCalls) == 0 {
		fmt.Fprintln(w, "(none)")
	}
	for _, call := range out.ToolCalls {
		fmt.Fprintf(w, "- [%s] %s %s\n", call.ID, call.Function.Name, call.Function.Arguments)
	}
	if out.Content != "" {
		fmt.Fprintf(w, "Assistant: %s\n", out.Content)
	}

	if out.Call == nil {
		return
	}

	fmt.Fprintln(w, "\n=== Executing tool ===")
	tool := out.Tool
	if tool == "" {
		tool = out.Call.Function.Name
	}
	fmt.Fprintf(w, "Tool: %s\n", tool)
	args, err := json.Marshal(out.Arguments)
	if err != nil {
		args = []byte(out.Call.Function.Arguments)
	}
	fmt.Fprintf(w, "Arguments: %s\n", args)

	fmt.Fprintln(w, "\n=== Tool result ===")
	fmt.Fprintln(w, out.Result.String())
}
