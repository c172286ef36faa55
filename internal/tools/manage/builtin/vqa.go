package builtin

import (
	"context"
	"errors"
	"log/slog"

	"github.com/windlant/vqa-client/internal/prescription"
	"github.com/windlant/vqa-client/internal/tools"
	"github.com/windlant/vqa-client/internal/vqa"
)

const VQAToolName = "Qwen-vl-inference"

// Inferer is the part of vqa.Client the tool needs.
type Inferer interface {
	Infer(ctx context.Context, in vqa.Request) (vqa.Response, error)
}

// NewVQATool builds the prescription reading tool. The model only supplies the
// question and the prescription id; the image path is looked up here.
func NewVQATool(resolver prescription.ImageResolver, client Inferer, logger *slog.Logger) tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        VQAToolName,
		Description: "在内部查询处方ID对应的图像路径后，对该图像提问并使用Qwen-vl模型进行推理。(处方解读)",
		Parameters: tools.Parameters{
			Properties: map[string]tools.ParameterSchema{
				"question": {
					Type:        "string",
					Description: "이미지에 대한 구체적인 질문",
					Required:    true,
				},
				"prescription_id": {
					Type:        "integer",
					Description: "처리할 처방전의 고유 ID. 이 ID를 통해 이미지 경로가 결정됩니다.",
					Required:    true,
				},
			},
		},
		Function: func(ctx context.Context, args tools.ToolArguments) tools.Result {
			return runVQA(ctx, resolver, client, logger, args)
		},
	}
}

func runVQA(ctx context.Context, resolver prescription.ImageResolver, client Inferer, logger *slog.Logger, args tools.ToolArguments) tools.Result {
	question, err := args.String("question")
	if err != nil {
		return tools.Err(tools.KindInvalidArguments, "%v", err)
	}
	id, err := args.Int("prescription_id")
	if err != nil {
		return tools.Err(tools.KindInvalidArguments, "%v", err)
	}

	imagePath, err := resolver.Resolve(ctx, id)
	if errors.Is(err, prescription.ErrNotFound) {
		return tools.Err(tools.KindNotFound, "no image path found for prescription ID %d", id)
	}
	if err != nil {
		return tools.Err(tools.KindUpstream, "image lookup for prescription ID %d failed (%v)", id, err)
	}

	logger.Info("calling VQA API", "prescription_id", id, "image_path", imagePath)

	resp, err := client.Infer(ctx, vqa.Request{
		ImagePath:      imagePath,
		Question:       question,
		PrescriptionID: id,
	})
	if err != nil {
		logger.Error("VQA API call failed", "prescription_id", id, "error", err)
		var statusErr *vqa.StatusError
		if errors.As(err, &statusErr) {
			return tools.Err(tools.KindHTTPStatus, "Qwen-vl model API call failed (%v)", err)
		}
		return tools.Err(tools.KindTransport, "Qwen-vl model API call failed (%v)", err)
	}

	logger.Debug("VQA API call finished", "prescription_id", string(resp.PrescriptionID))
	return tools.Ok(resp.InferenceResult)
}
