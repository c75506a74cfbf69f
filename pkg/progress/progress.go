// Package progress reports pipeline run progress to interested sinks.
package progress

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DIZ-admin/meeting-minutes-generator-v2/internal/domain/entities"
)

// Sink receives progress updates for a run. Implementations must be
// safe for concurrent use; updates for one run arrive serialized.
type Sink interface {
	Report(ctx context.Context, runID uuid.UUID, status entities.RunStatus, progress float64, message string)
}

// LogSink writes progress updates to the logger.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Report(_ context.Context, runID uuid.UUID, status entities.RunStatus, progress float64, message string) {
	if s.logger == nil {
		return
	}
	s.logger.Info("📊 Pipeline progress",
		zap.String("run_id", runID.String()),
		zap.String("status", string(status)),
		zap.Float64("progress", progress),
		zap.String("message", message))
}

// MultiSink fans updates out to several sinks.
type MultiSink []Sink

func (m MultiSink) Report(ctx context.Context, runID uuid.UUID, status entities.RunStatus, progress float64, message string) {
	for _, s := range m {
		s.Report(ctx, runID, status, progress, message)
	}
}
