package builtin

import (
	"context"
	"errors"
	"log/slog"

	"github.com/windlant/vqa-client/internal/drug"
	"github.com/windlant/vqa-client/internal/tools"
)

const DrugToolName = "drug_information_search"

// DrugLookup is the part of drug.Client the tool needs.
type DrugLookup interface {
	Lookup(ctx context.Context, name string) (drug.Info, error)
}

func NewDrugTool(client DrugLookup, logger *slog.Logger) tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        DrugToolName,
		Description: "약물 이름에 대한 자세한 정보를 찾을 때 사용합니다. 효능, 사용법, 부작용, 주의사항 등을 제공합니다.",
		Parameters: tools.Parameters{
			Properties: map[string]tools.ParameterSchema{
				"drug_name": {
					Type:        "string",
					Description: "검색할 약물의 이름",
					Required:    true,
				},
			},
		},
		Function: func(ctx context.Context, args tools.ToolArguments) tools.Result {
			name, err := args.String("drug_name")
			if err != nil {
				return tools.Err(tools.KindInvalidArguments, "%v", err)
			}
			info, err := client.Lookup(ctx, name)
			if err != nil {
				logger.Error("drug lookup failed", "drug_name", name, "error", err)
				var apiErr *drug.APIError
				switch {
				case errors.Is(err, drug.ErrNoMatch):
					return tools.Err(tools.KindNotFound, "no drug information found for %q", name)
				case errors.As(err, &apiErr):
					return tools.Err(tools.KindUpstream, "%v", err)
				default:
					return tools.Err(tools.KindTransport, "drug information lookup failed (%v)", err)
				}
			}
			return tools.Ok(info.Format())
		},
	}
}
