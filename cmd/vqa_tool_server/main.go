package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/windlant/vqa-client/internal/config"
	"github.com/windlant/vqa-client/internal/logging"
	"github.com/windlant/vqa-client/internal/tools/manage/builtin"
)

// 启动本地工具服务器，从标准输入逐行读取请求，处理后将响应写回标准输出
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	// stdout 用于协议输出，日志只能写到 stderr
	logger := logging.New(cfg.Log.Level, os.Stderr)

	srv, err := NewServer(builtin.Definitions(cfg, logger)...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to register tools: %v\n", err)
		os.Exit(1)
	}

	if err := serve(context.Background(), srv, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// serve 处理 NDJSON 请求直到输入结束
func serve(ctx context.Context, srv *Server, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		respBytes, err := srv.HandleRequest(ctx, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			continue
		}

		// 添加换行符以符合 NDJSON 格式（每条 JSON 单独一行）
		if _, err := out.Write(append(respBytes, '\n')); err != nil {
			return fmt.Errorf("write error: %w", err)
		}
	}

	// 检查是否因非 EOF 原因导致读取失败
	if err := scanner.Err(); err != nil && err != io.EOF {
		return fmt.Errorf("read error: %w", err)
	}
	return nil
}
