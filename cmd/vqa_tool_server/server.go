package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/windlant/vqa-client/internal/protocol"
	"github.com/windlant/vqa-client/internal/tools"
	"github.com/windlant/vqa-client/internal/tools/manage/registry"
)

// Server 用于处理 MCP 请求
type Server struct {
	reg *registry.Registry
}

// NewServer 创建一个新的 MCP 服务器实例，托管给定的工具
func NewServer(defs ...tools.ToolDefinition) (*Server, error) {
	reg := registry.NewRegistry()
	for _, def := range defs {
		if err := reg.Register(def); err != nil {
			return nil, err
		}
	}
	return &Server{reg: reg}, nil
}

// HandleRequest 处理一个 MCP 请求，并返回原始的 JSON 响应字节
func (s *Server) HandleRequest(ctx context.Context, requestBytes []byte) ([]byte, error) {
	// 先解析 JSON，确定请求的方法类型
	var rawReq map[string]interface{}
	if err := json.Unmarshal(requestBytes, &rawReq); err != nil {
		return s.createErrorResponse("", fmt.Sprintf("invalid JSON: %v", err))
	}

	id, _ := rawReq["id"].(string)

	method, ok := rawReq["method"].(string)
	if !ok {
		return s.createErrorResponse(id, "missing or invalid method field")
	}

	switch method {
	case protocol.MCPMethodListTools:
		return s.handleListTools(id)
	case protocol.MCPMethodCallTool:
		// 对于 call_tool 请求，需要工具名称和参数
		name, ok := rawReq["name"].(string)
		if !ok {
			return s.createErrorResponse(id, "missing or invalid name field for call_tool")
		}

		// 提取参数字段
		argsRaw, exists := rawReq["arguments"]
		if !exists || argsRaw == nil {
			// 如果没有提供 arguments，默认使用空对象
			argsRaw = map[string]interface{}{}
		}

		argsMap, ok := argsRaw.(map[string]interface{})
		if !ok {
			return s.createErrorResponse(id, "arguments must be an object")
		}

		return s.handleCallTool(ctx, id, name, tools.ToolArguments(argsMap))
	default:
		return s.createErrorResponse(id, fmt.Sprintf("unknown method: %s", method))
	}
}

// handleListTools 返回当前服务器支持的所有工具列表
func (s *Server) handleListTools(id string) ([]byte, error) {
	// Function 字段带有 `json:"-"`，不会被序列化
	response := protocol.MCPListToolsResponse{
		ID:    id,
		Tools: s.reg.ListAll(),
	}

	jsonBytes, err := json.Marshal(response)
	if err != nil {
		return s.createErrorResponse(id, fmt.Sprintf("failed to marshal list_tools response: %v", err))
	}

	return jsonBytes, nil
}

// handleCallTool 执行指定名称的工具，并传入给定的参数
func (s *Server) handleCallTool(ctx context.Context, id, name string, args tools.ToolArguments) ([]byte, error) {
	if name == "" {
		return s.createErrorResponse(id, "tool name is required")
	}

	result, err := s.reg.Invoke(ctx, name, args)
	if errors.Is(err, tools.ErrToolNotFound) {
		return s.marshalCallResponse(protocol.MCPToolCallResponse{
			ID:    id,
			Error: fmt.Sprintf("tool not found: %s", name),
			Code:  protocol.MCPCodeToolNotFound,
		})
	}
	if err != nil {
		return s.createErrorResponse(id, fmt.Sprintf("tool execution failed: %v", err))
	}

	response := protocol.MCPToolCallResponse{ID: id, Result: result.Value}
	if result.Err != nil {
		response.Error = result.Err.Message
		response.ErrorKind = result.Err.Kind
	}
	return s.marshalCallResponse(response)
}

func (s *Server) marshalCallResponse(response protocol.MCPToolCallResponse) ([]byte, error) {
	jsonBytes, err := json.Marshal(response)
	if err != nil {
		return s.createErrorResponse(response.ID, fmt.Sprintf("failed to marshal call_tool response: %v", err))
	}
	return jsonBytes, nil
}

// createErrorResponse 生成一个符合协议格式的错误响应
func (s *Server) createErrorResponse(id, message string) ([]byte, error) {
	errorResponse := protocol.MCPToolCallResponse{
		ID:     id,
		Error:  message,
		Result: "", // 出错时确保 result 字段为空
	}

	jsonBytes, err := json.Marshal(errorResponse)
	if err != nil {
		// 理论上这个简单的结构不会序列化失败
		fallback := `{"error": "failed to create error response"}`
		return []byte(fallback), nil
	}

	return jsonBytes, nil
}
