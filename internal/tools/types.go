package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ToolArguments represents the input parameters for a tool call.
// It is a JSON-serializable map of key-value pairs.
type ToolArguments map[string]interface{}

// ToolFunc is the function signature that all tool implementations must follow.
// Failures the caller should see are reported in the Result, not as a Go error.
type ToolFunc func(ctx context.Context, args ToolArguments) Result

// ParameterSchema describes one named argument of a tool.
type ParameterSchema struct {
	Type        string `json:"type"` // "string", "integer", ...
	Description string `json:"description"`
	Required    bool   `json:"required,omitempty"`
}

type Parameters struct {
	Properties map[string]ParameterSchema `json:"properties"`
}

// ToolDefinition is a named, schema-described callable.
type ToolDefinition struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  Parameters `json:"parameters"`
	Function    ToolFunc   `json:"-"`
}

// JSONSchema renders the parameters as a strict JSON Schema object.
func (p Parameters) JSONSchema() map[string]interface{} {
	props := make(map[string]interface{}, len(p.Properties))
	required := make([]string, 0, len(p.Properties))
	for name, param := range p.Properties {
		props[name] = map[string]interface{}{
			"type":        param.Type,
			"description": param.Description,
		}
		if param.Required {
			required = append(required, name)
		}
	}
	sort.Strings(required)
	return map[string]interface{}{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

// ParseArguments decodes the JSON-encoded arguments of a model tool call.
func ParseArguments(raw string) (ToolArguments, error) {
	args := ToolArguments{}
	if strings.TrimSpace(raw) == "" {
		return args, nil
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&args); err != nil {
		return nil, fmt.Errorf("invalid tool arguments: %w", err)
	}
	return args, nil
}

// String returns a required string argument.
func (a ToolArguments) String(key string) (string, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return "", fmt.Errorf("missing %q argument", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string, got %T", key, v)
	}
	return s, nil
}

// Int returns a required integer argument. Whole floats and numeric strings are accepted.
func (a ToolArguments) Int(key string) (int, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("missing %q argument", key)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("argument %q must be an integer, got %v", key, n)
		}
		return int(n), nil
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), nil
		}
		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) {
			return 0, fmt.Errorf("argument %q must be an integer, got %s", key, n)
		}
		return int(f), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("argument %q must be an integer, got %q", key, n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("argument %q must be an integer, got %T", key, v)
	}
}
