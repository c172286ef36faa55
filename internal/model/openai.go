package model

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/windlant/vqa-client/internal/config"
	"github.com/windlant/vqa-client/internal/protocol"
)

// Base URLs for OpenAI-compatible providers other than OpenAI itself.
const (
	DeepSeekBaseURL = "https://api.deepseek.com/v1"
	OllamaBaseURL   = "http://localhost:11434/v1"
)

// OpenAIModel 是对接 OpenAI 兼容接口的模型实现
type OpenAIModel struct {
	client      *openai.Client
	modelName   string
	temperature float32
	maxTokens   int
}

// NewOpenAIModel 根据配置创建模型实例
func NewOpenAIModel(cfg *config.Config) (*OpenAIModel, error) {
	token := cfg.Model.APIKey
	baseURL := cfg.Model.BaseURL

	switch cfg.Model.Provider {
	case "", "openai":
	case "deepseek":
		if baseURL == "" {
			baseURL = DeepSeekBaseURL
		}
	case "ollama":
		if baseURL == "" {
			baseURL = OllamaBaseURL
		}
		if token == "" {
			token = "ollama"
		}
	default:
		return nil, fmt.Errorf("unknown model provider: %s", cfg.Model.Provider)
	}
	if token == "" {
		return nil, errors.New("API key is required (set OPENAI_API_KEY)")
	}

	clientCfg := openai.DefaultConfig(token)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	return &OpenAIModel{
		client:      openai.NewClientWithConfig(clientCfg),
		modelName:   cfg.Model.ModelName,
		temperature: cfg.Model.Temperature,
		maxTokens:   cfg.Model.MaxTokens,
	}, nil
}

// ChatWithTools 发送支持工具调用的对话请求，返回文本内容和工具调用列表
func (m *OpenAIModel) ChatWithTools(ctx context.Context, messages []protocol.Message, tools []ToolForAPI, choice ToolChoice) (string, []protocol.ToolCall, error) {
	req := openai.ChatCompletionRequest{
		Model:       m.modelName,
		Messages:    toOpenAIMessages(messages),
		Temperature: m.temperature,
		MaxTokens:   m.maxTokens,
	}
	if len(tools) > 0 {
		req.Tools = toOpenAITools(tools)
		req.ToolChoice = toOpenAIToolChoice(choice)
	}

	resp, err := m.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil, errors.New("no choices in response")
	}

	msg := resp.Choices[0].Message
	calls := make([]protocol.ToolCall, 0, len(msg.ToolCalls))
	for _, tc := range msg.ToolCalls {
		calls = append(calls, protocol.ToolCall{
			ID:   tc.ID,
			Type: string(tc.Type),
			Function: protocol.Function{
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			},
		})
	}
	return msg.Content, calls, nil
}

func toOpenAIMessages(messages []protocol.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		m := openai.ChatCompletionMessage{
			Role:       msg.Role,
			Content:    msg.Content,
			Name:       msg.Name,
			ToolCallID: msg.ToolCallID,
		}
		for _, tc := range msg.ToolCalls {
			m.ToolCalls = append(m.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolType(tc.Type),
				Function: openai.FunctionCall{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			})
		}
		out = append(out, m)
	}
	return out
}

func toOpenAITools(tools []ToolForAPI) []openai.Tool {
	out := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Function.Name,
				Description: t.Function.Description,
				Strict:      t.Function.Strict,
				Parameters:  t.Function.Parameters,
			},
		})
	}
	return out
}

func toOpenAIToolChoice(choice ToolChoice) any {
	switch choice.Mode {
	case ToolChoiceFunction:
		return openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: choice.Name},
		}
	case ToolChoiceNone, ToolChoiceRequired:
		return choice.Mode
	default:
		return ToolChoiceAuto
	}
}

var _ Model = (*OpenAIModel)(nil)
