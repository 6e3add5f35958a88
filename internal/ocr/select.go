package ocr

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gastosbot/receipts-engine/constants"
	"github.com/gastosbot/receipts-engine/internal/common"
)

// Selector runs every configured engine and keeps the best-scored result.
type Selector struct {
	engines []Engine
	cache   *Cache
	window  time.Duration // per-engine deadline; 0 means no limit
	logger  *slog.Logger
}

// BestText tries all engines unconditionally (a later engine can outscore an
// earlier success) and picks the result maximizing
// confidence x (0.7 + 0.3 x min(len/500, 1)). Ties keep the earlier engine in
// configured order. When no engine produces usable text the sentinel result
// (engine "none") is returned; callers must treat it as total failure.
func (s *Selector) BestText(ctx context.Context, imagePath string) RawResult {
	var valid []RawResult
	for _, engine := range s.engines {
		res, err := s.recognize(ctx, engine, imagePath)
		if err != nil {
			level := slog.LevelError
			if errors.Is(err, common.ErrEngineUnavailable) {
				level = slog.LevelWarn
			}
			s.logger.Log(ctx, level, "ocr.engine.failed", "engine", engine.Name(), "error", err)
			continue
		}
		if strings.TrimSpace(res.Text) == "" || res.Confidence <= 0 {
			s.logger.Debug("ocr.engine.empty", "engine", engine.Name())
			continue
		}
		valid = append(valid, res)
	}

	if len(valid) == 0 {
		s.logger.Warn("ocr.select.no_valid_results", "path", imagePath)
		return RawResult{Engine: constants.EngineNone}
	}

	best := valid[0]
	bestScore := score(valid[0])
	for _, res := range valid[1:] {
		if sc := score(res); sc > bestScore {
			best, bestScore = res, sc
		}
	}
	s.logger.Info("ocr.select.best",
		"engine", best.Engine, "score", bestScore,
		"chars", len(best.Text), "confidence", best.Confidence)
	return best
}

func (s *Selector) recognize(ctx context.Context, engine Engine, imagePath string) (RawResult, error) {
	if s.window > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.window)
		defer cancel()
	}
	return engine.Recognize(ctx, imagePath)
}

// Close releases the shared engine resource cache.
func (s *Selector) Close() {
	s.cache.Close()
}

func score(r RawResult) float64 {
	lengthScore := float64(len(r.Text)) / 500
	if lengthScore > 1 {
		lengthScore = 1
	}
	return r.Confidence * (0.7 + 0.3*lengthScore)
}
