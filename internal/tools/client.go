package tools

import (
	"context"
	"errors"
)

// ToolClient 是工具调用的统一接口，支持本地或远程（如 stdio）实现
type ToolClient interface {
	// Call 调用指定名称的工具；工具自身的失败放在 Result 中，error 只表示调用链路失败
	Call(ctx context.Context, name string, args ToolArguments) (Result, error)

	// List 返回所有可用工具的定义
	List(ctx context.Context) ([]ToolDefinition, error)

	// Close 释放资源（如关闭子进程）
	Close() error
}

// ErrToolNotFound 表示请求的工具未注册或不存在
var ErrToolNotFound = errors.New("tool not found")
