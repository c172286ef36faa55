// cmd/vqa_client/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/windlant/vqa-client/internal/agent"
	"github.com/windlant/vqa-client/internal/config"
	"github.com/windlant/vqa-client/internal/logging"
	"github.com/windlant/vqa-client/internal/model"
	"github.com/windlant/vqa-client/internal/tools"
	"github.com/windlant/vqa-client/internal/tools/local"
	"github.com/windlant/vqa-client/internal/tools/manage/builtin"
	"github.com/windlant/vqa-client/internal/tools/stdio"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env and config/config.yaml
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Please ensure 'config/config.yaml' exists.")
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.New(cfg.Log.Level, os.Stderr)

	// Initialize the LLM backend
	m, err := model.NewOpenAIModel(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize model: %w", err)
	}

	toolClient, err := newToolClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize tools: %w", err)
	}
	defer toolClient.Close()

	a := agent.NewAgent(m, toolClient, agent.Options{
		ForcedTool: cfg.Tools.Forced,
		Strict:     cfg.Model.Strict,
		Logger:     logger,
	})

	prompt := cfg.Prompt.InvokePrompt()
	logger.Info("sending prompt", "model", cfg.Model.ModelName, "prescription_id", cfg.Prompt.PrescriptionID)

	out, err := a.Run(context.Background(), prompt)
	if err != nil {
		return err
	}
	printOutcome(os.Stdout, out)
	return nil
}

// newToolClient picks the tool transport from config.
func newToolClient(cfg *config.Config, logger *slog.Logger) (tools.ToolClient, error) {
	if !cfg.Tools.Enabled {
		return &tools.NoopToolClient{}, nil
	}
	if cfg.Tools.Transport == config.TransportStdio {
		return stdio.NewStdioToolClient(cfg.Tools.ServerBinary)
	}
	return local.NewLocalToolClient(builtin.Definitions(cfg, logger)...)
}
