package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/windlant/vqa-client/internal/prescription"
	"github.com/windlant/vqa-client/internal/protocol"
	"github.com/windlant/vqa-client/internal/tools"
	"github.com/windlant/vqa-client/internal/tools/manage/builtin"
	"github.com/windlant/vqa-client/internal/tools/stdio"
	"github.com/windlant/vqa-client/internal/vqa"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"prescription_id":3,"inference_result":"X"}`))
	}))
	t.Cleanup(backend.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	resolver := prescription.NewStaticResolver(map[int]string{3: `D:\Backend\testimage3.jpg`})
	client := vqa.NewClient(backend.URL, vqa.WithHTTPClient(backend.Client()))

	srv, err := NewServer(builtin.NewVQATool(resolver, client, logger))
	if err != nil {
		t.Fatalf("NewServer returned error: %v", err)
	}
	return srv
}

func decodeCall(t *testing.T, raw []byte) protocol.MCPToolCallResponse {
	t.Helper()
	var resp protocol.MCPToolCallResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestHandleRequestCallTool(t *testing.T) {
	srv := newTestServer(t)
	raw, err := srv.HandleRequest(context.Background(),
		[]byte(`{"id":"r1","method":"call_tool","name":"Qwen-vl-inference","arguments":{"question":"q","prescription_id":3}}`))
	if err != nil {
		t.Fatalf("HandleRequest returned error: %v", err)
	}
	resp := decodeCall(t, raw)
	if resp.ID != "r1" || resp.Result != "X" || resp.Error != "" {
		t.Fatalf("unexpected response %#v", resp)
	}
}

func TestHandleRequestToolErrorKeepsKind(t *testing.T) {
	srv := newTestServer(t)
	raw, _ := srv.HandleRequest(context.Background(),
		[]byte(`{"method":"call_tool","name":"Qwen-vl-inference","arguments":{"question":"q","prescription_id":99}}`))
	resp := decodeCall(t, raw)
	if resp.ErrorKind != tools.KindNotFound || !strings.Contains(resp.Error, "99") {
		t.Fatalf("unexpected response %#v", resp)
	}
}

func TestHandleRequestErrors(t *testing.T) {
	srv := newTestServer(t)
	cases := []struct {
		req  string
		want string
	}{
		{`not json`, "invalid JSON"},
		{`{"name":"x"}`, "missing or invalid method"},
		{`{"method":"call_tool"}`, "missing or invalid name"},
		{`{"method":"call_tool","name":"x","arguments":[]}`, "arguments must be an object"},
		{`{"method":"shutdown"}`, "unknown method"},
	}
	for _, tc := range cases {
		raw, err := srv.HandleRequest(context.Background(), []byte(tc.req))
		if err != nil {
			t.Fatalf("%s: HandleRequest returned error: %v", tc.req, err)
		}
		if resp := decodeCall(t, raw); !strings.Contains(resp.Error, tc.want) {
			t.Fatalf("%s: expected %q in error, got %#v", tc.req, tc.want, resp)
		}
	}

	raw, _ := srv.HandleRequest(context.Background(), []byte(`{"method":"call_tool","name":"nope"}`))
	if resp := decodeCall(t, raw); resp.Code != protocol.MCPCodeToolNotFound {
		t.Fatalf("expected tool_not_found code, got %#v", resp)
	}
}

func TestServeListTools(t *testing.T) {
	srv := newTestServer(t)
	var out bytes.Buffer
	in := strings.NewReader("{\"id\":\"l1\",\"method\":\"list_tools\"}\n\n")
	if err := serve(context.Background(), srv, in, &out); err != nil {
		t.Fatalf("serve returned error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one response line, got %q", out.String())
	}
	var resp protocol.MCPListToolsResponse
	if err := json.Unmarshal([]byte(lines[0]), &resp); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if resp.ID != "l1" || len(resp.Tools) != 1 || resp.Tools[0].Name != builtin.VQAToolName {
		t.Fatalf("unexpected list response %#v", resp)
	}
}

func TestStdioClientRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()
	done := make(chan error, 1)
	go func() {
		err := serve(context.Background(), srv, reqR, respW)
		_ = respW.Close()
		done <- err
	}()

	client := stdio.NewClient(reqW, respR)
	ctx := context.Background()

	defs, err := client.List(ctx)
	if err != nil || len(defs) != 1 {
		t.Fatalf("List: %v, %v", defs, err)
	}

	res, err := client.Call(ctx, builtin.VQAToolName, tools.ToolArguments{"question": "q", "prescription_id": 3})
	if err != nil || res.Value != "X" {
		t.Fatalf("Call: %#v, %v", res, err)
	}

	res, err = client.Call(ctx, builtin.VQAToolName, tools.ToolArguments{"question": "q", "prescription_id": 99})
	if err != nil || !res.IsErr() || res.Err.Kind != tools.KindNotFound {
		t.Fatalf("expected tagged not_found result, got %#v, %v", res, err)
	}

	if _, err := client.Call(ctx, "nope", nil); !errors.Is(err, tools.ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound, got %v", err)
	}

	if err := client.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("serve returned error: %v", err)
	}
}
