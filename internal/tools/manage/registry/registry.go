package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/windlant/vqa-client/internal/tools"
)

// Registry holds tool definitions by name.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]tools.ToolDefinition
}

func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]tools.ToolDefinition),
	}
}

// Register adds def, replacing any tool with the same name.
func (r *Registry) Register(def tools.ToolDefinition) error {
	if def.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if def.Function == nil {
		return fmt.Errorf("tool %s has no function", def.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[def.Name] = def
	return nil
}

func (r *Registry) Get(name string) (tools.ToolDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.tools[name]
	return def, ok
}

// ListAll returns the definitions sorted by name.
func (r *Registry) ListAll() []tools.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]tools.ToolDefinition, 0, len(r.tools))
	for _, def := range r.tools {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Invoke dispatches to the named tool.
func (r *Registry) Invoke(ctx context.Context, name string, args tools.ToolArguments) (tools.Result, error) {
	def, ok := r.Get(name)
	if !ok {
		return tools.Result{}, fmt.Errorf("%w: %s", tools.ErrToolNotFound, name)
	}
	return def.Function(ctx, args), nil
}
