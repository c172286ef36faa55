package agent

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/windlant/vqa-client/internal/model"
	"github.com/windlant/vqa-client/internal/protocol"
	"github.com/windlant/vqa-client/internal/tools"
)

// Agent asks the model which tool to call and with what, then runs the tool itself.
// The model never sees the tool result.
type Agent struct {
	model  model.Model
	tools  tools.ToolClient
	forced string
	strict bool
	logger *slog.Logger
}

type Options struct {
	// ForcedTool binds only this tool and forces the model to pick it.
	// Empty binds every tool and lets the model choose.
	ForcedTool string
	Strict     bool
	Logger     *slog.Logger
}

// Outcome describes one round trip. Call is nil when the model requested no tool.
type Outcome struct {
	Content   string
	ToolCalls []protocol.ToolCall
	Call      *protocol.ToolCall
	Tool      string // executed tool, the forced one when forcing
	Arguments tools.ToolArguments
	Result    tools.Result
}

func NewAgent(m model.Model, tc tools.ToolClient, opts Options) *Agent {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Agent{
		model:  m,
		tools:  tc,
		forced: opts.ForcedTool,
		strict: opts.Strict,
		logger: logger,
	}
}

func (a *Agent) bindTools(ctx context.Context) ([]model.ToolForAPI, model.ToolChoice, error) {
	defs, err := a.tools.List(ctx)
	if err != nil {
		return nil, model.ToolChoice{}, fmt.Errorf("failed to list tools: %w", err)
	}
	if len(defs) == 0 {
		return nil, model.AutoToolChoice(), nil
	}
	if a.forced == "" {
		return model.ToolsForAPI(defs, a.strict), model.AutoToolChoice(), nil
	}
	for _, def := range defs {
		if def.Name == a.forced {
			return model.ToolsForAPI([]tools.ToolDefinition{def}, a.strict), model.ForceTool(def.Name), nil
		}
	}
	return nil, model.ToolChoice{}, fmt.Errorf("%w: forced tool %s", tools.ErrToolNotFound, a.forced)
}

// Run sends prompt as a single user message and executes the first tool call, if any.
func (a *Agent) Run(ctx context.Context, prompt string) (Outcome, error) {
	apiTools, choice, err := a.bindTools(ctx)
	if err != nil {
		return Outcome{}, err
	}

	messages := []protocol.Message{{
		Role:    protocol.RoleUser,
		Content: prompt,
	}}
	content, calls, err := a.model.ChatWithTools(ctx, messages, apiTools, choice)
	if err != nil {
		return Outcome{}, fmt.Errorf("model call failed: %w", err)
	}

	out := Outcome{Content: content, ToolCalls: calls}
	if len(calls) == 0 {
		a.logger.Info("model requested no tool call")
		return out, nil
	}

	call := calls[0]
	out.Call = &call
	args, err := tools.ParseArguments(call.Function.Arguments)
	if err != nil {
		return out, fmt.Errorf("tool call %s: %w", call.Function.Name, err)
	}
	out.Arguments = args

	// A forced run always executes the bound tool, whatever name the model echoes.
	name := call.Function.Name
	if a.forced != "" && name != a.forced {
		a.logger.Warn("model named a different tool than the forced one", "got", name, "forced", a.forced)
		name = a.forced
	}

	out.Tool = name

	a.logger.Info("executing tool", "tool", name, "call_id", call.ID)
	res, err := a.tools.Call(ctx, name, args)
	if err != nil {
		return out, fmt.Errorf("tool call %s failed: %w", name, err)
	}
	if res.IsErr() {
		a.logger.Warn("tool returned an error", "tool", name, "kind", res.Err.Kind)
	}
	out.Result = res
	return out, nil
}
