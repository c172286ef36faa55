package model

import (
	"context"

	"github.com/windlant/vqa-client/internal/protocol"
	"github.com/windlant/vqa-client/internal/tools"
)

// ToolForAPI 表示 LLM API（如 OpenAI、DeepSeek）所期望的工具格式
type ToolForAPI struct {
	Type     string      `json:"type"` // 例如 "function"
	Function ToolFuncDef `json:"function"`
}

// ToolFuncDef 描述一个可调用的函数/工具
type ToolFuncDef struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"` // JSON Schema 对象
	Strict      bool                   `json:"strict,omitempty"`
}

const (
	ToolChoiceAuto     = "auto"
	ToolChoiceNone     = "none"
	ToolChoiceRequired = "required"
	ToolChoiceFunction = "function"
)

// ToolChoice tells the model whether, and which, tool it must call.
type ToolChoice struct {
	Mode string
	Name string // only for ToolChoiceFunction
}

func AutoToolChoice() ToolChoice {
	return ToolChoice{Mode: ToolChoiceAuto}
}

// ForceTool makes the model call the named tool instead of answering in text.
func ForceTool(name string) ToolChoice {
	return ToolChoice{Mode: ToolChoiceFunction, Name: name}
}

// ToolsForAPI converts registry definitions into API descriptors.
func ToolsForAPI(defs []tools.ToolDefinition, strict bool) []ToolForAPI {
	out := make([]ToolForAPI, 0, len(defs))
	for _, def := range defs {
		out = append(out, ToolForAPI{
			Type: "function",
			Function: ToolFuncDef{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Parameters.JSONSchema(),
				Strict:      strict,
			},
		})
	}
	return out
}

// Model 是所有大语言模型后端的统一接口
type Model interface {
	// ChatWithTools 处理支持工具调用的对话
	// 实现时应：
	// - 使用 'tools' 和 'choice' 引导模型行为
	// - 返回模型生成的 tool_calls（可能为空）
	ChatWithTools(ctx context.Context, messages []protocol.Message, tools []ToolForAPI, choice ToolChoice) (content string, toolCalls []protocol.ToolCall, err error)
}
