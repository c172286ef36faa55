package local

import (
	"context"

	"github.com/windlant/vqa-client/internal/tools"
	"github.com/windlant/vqa-client/internal/tools/manage/registry"
)

// LocalToolClient runs tools in-process.
type LocalToolClient struct {
	registry *registry.Registry
}

func NewLocalToolClient(defs ...tools.ToolDefinition) (*LocalToolClient, error) {
	r := registry.NewRegistry()
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			return nil, err
		}
	}
	return &LocalToolClient{registry: r}, nil
}

func (c *LocalToolClient) Call(ctx context.Context, name string, args tools.ToolArguments) (tools.Result, error) {
	return c.registry.Invoke(ctx, name, args)
}

func (c *LocalToolClient) List(context.Context) ([]tools.ToolDefinition, error) {
	return c.registry.ListAll(), nil
}

func (c *LocalToolClient) Close() error {
	return nil
}

func (c *LocalToolClient) GetDefinition(name string) (tools.ToolDefinition, bool) {
	return c.registry.Get(name)
}

var _ tools.ToolClient = (*LocalToolClient)(nil)
