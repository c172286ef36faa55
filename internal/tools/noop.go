package tools

import "context"

// NoopToolClient is used when tool calling is disabled.
type NoopToolClient struct{}

func (n *NoopToolClient) Call(_ context.Context, name string, _ ToolArguments) (Result, error) {
	return Result{}, ErrToolNotFound
}

func (n *NoopToolClient) List(context.Context) ([]ToolDefinition, error) {
	return nil, nil
}

func (n *NoopToolClient) Close() error {
	return nil
}

var _ ToolClient = (*NoopToolClient)(nil)
