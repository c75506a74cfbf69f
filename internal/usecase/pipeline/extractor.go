package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/DIZ-admin/meeting-minutes-generator-v2/internal/domain/entities"
)

// Extractor pulls summary, decisions and actions out of a single
// transcript chunk via the model. One Extract call never influences
// another, so chunks can run concurrently.
type Extractor struct {
	inv    *invoker
	logger *zap.Logger
}

func NewExtractor(client ModelClient, maxAttempts int, callTimeout time.Duration, logger *zap.Logger) *Extractor {
	return &Extractor{
		inv:    newInvoker(client, maxAttempts, callTimeout, logger),
		logger: logger,
	}
}

// Extract runs the extraction prompt against the chunk. Missing
// optional fields in the response default to empty; a response that
// is not a JSON object fails the attempt.
func (e *Extractor) Extract(ctx context.Context, chunk entities.Chunk, language string) (*entities.ExtractionResult, error) {
	var result *entities.ExtractionResult

	err := e.inv.invokeJSON(ctx, extractionPrompt(language), chunk.Text(), func(raw string) error {
		var payload map[string]interface{}
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return fmt.Errorf("response is not a JSON object: %w", err)
		}
		summary, _ := payload["summary"].(string)
		result = &entities.ExtractionResult{
			Summary:   summary,
			Decisions: normalizeDecisions(payload["decisions"]),
			Actions:   normalizeActions(payload["actions"]),
		}
		return nil
	})
	if err != nil {
		return nil, &ExtractionError{
			ChunkIndex: chunk.Index,
			Attempts:   e.inv.maxAttempts,
			Err:        err,
		}
	}

	if e.logger != nil {
		e.logger.Info("🔍 Chunk extracted",
			zap.Int("chunk", chunk.Index),
			zap.Int("decisions", len(result.Decisions)),
			zap.Int("actions", len(result.Actions)))
	}
	return result, nil
}
