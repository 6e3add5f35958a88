package analyzer

import (
	"context"
	"encoding/base64"
	"log/slog"
	"os"

	"github.com/gastosbot/receipts-engine/internal/common"
	"github.com/gastosbot/receipts-engine/internal/entity"
	"github.com/gastosbot/receipts-engine/internal/llm"
)

// Vision analyzes receipts by sending the image to a vision-language model
// and validating its structured reply.
type Vision struct {
	client        *llm.Client
	retainRawText bool
	logger        *slog.Logger
}

func NewVision(client *llm.Client, retainRawText bool, logger *slog.Logger) *Vision {
	if logger == nil {
		logger = slog.Default()
	}
	return &Vision{client: client, retainRawText: retainRawText, logger: logger}
}

// Analyze encodes the image, runs one chat call, and pushes the reply
// through parse and normalize. Transport, parse, schema and amount failures
// propagate typed; a missing or bad date never fails the call.
func (a *Vision) Analyze(ctx context.Context, imagePath string) (*entity.AnalysisResult, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, common.WrapError(err, "read image")
	}
	encoded := base64.StdEncoding.EncodeToString(data)

	reply, err := a.client.Chat(ctx, encoded)
	if err != nil {
		return nil, err
	}

	raw, err := llm.ParseReply(reply)
	if err != nil {
		a.logger.Error("analyze.vision.parse_failed", "path", imagePath, "error", err)
		return nil, err
	}
	fields, err := llm.Normalize(raw, a.logger)
	if err != nil {
		a.logger.Error("analyze.vision.normalize_failed", "path", imagePath, "error", err)
		return nil, err
	}

	rawReply := ""
	if a.retainRawText {
		rawReply = reply
	}
	result := fields.ToResult(a.client.Model(), rawReply)

	a.logger.Info("analyze.vision.ok",
		"path", imagePath,
		"model", a.client.Model(),
		"amount", result.Amount,
		"date", result.Date,
		"category", result.Category,
		"confidence", result.OverallConfidence,
	)
	return result, nil
}
