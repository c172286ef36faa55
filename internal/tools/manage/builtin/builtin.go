// Package builtin holds the tools shipped with the client.
package builtin

import (
	"log/slog"

	"github.com/windlant/vqa-client/internal/config"
	"github.com/windlant/vqa-client/internal/drug"
	"github.com/windlant/vqa-client/internal/prescription"
	"github.com/windlant/vqa-client/internal/tools"
	"github.com/windlant/vqa-client/internal/vqa"
)

// Definitions wires the built-in tools from cfg. The drug tool needs a service
// key and is left out without one.
func Definitions(cfg *config.Config, logger *slog.Logger) []tools.ToolDefinition {
	resolver := prescription.NewStaticResolver(cfg.Prescriptions)
	vqaClient := vqa.NewClient(cfg.VQA.Endpoint, vqa.WithTimeout(cfg.VQA.Timeout()))

	defs := []tools.ToolDefinition{
		NewVQATool(resolver, vqaClient, logger),
	}
	if cfg.Drug.ServiceKey != "" {
		drugClient := drug.NewClient(cfg.Drug.BaseURL, cfg.Drug.ServiceKey, cfg.Drug.NumOfRows, cfg.Drug.Timeout())
		defs = append(defs, NewDrugTool(drugClient, logger))
	}
	return defs
}
