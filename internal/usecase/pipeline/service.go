package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	apperrors "github.com/DIZ-admin/meeting-minutes-generator-v2/errors"
	"github.com/DIZ-admin/meeting-minutes-generator-v2/internal/domain/entities"
)

// RunStore persists pipeline run state.
type RunStore interface {
	Create(ctx context.Context, run *entities.PipelineRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.PipelineRun, error)
	List(ctx context.Context, limit int) ([]entities.PipelineRun, error)
	SetChunkStats(ctx context.Context, id uuid.UUID, chunkCount int, failures []entities.ChunkFailure) error
	MarkCompleted(ctx context.Context, id uuid.UUID, protocolID uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}

// ProtocolStore persists finished protocol documents.
type ProtocolStore interface {
	Create(ctx context.Context, record *entities.ProtocolRecord) error
	GetByRunID(ctx context.Context, runID uuid.UUID) (*entities.ProtocolRecord, error)
}

// ArtifactStore exports rendered protocols to object storage.
// Implementations may be absent; exports are best effort.
type ArtifactStore interface {
	Upload(ctx context.Context, objectName string, data []byte, contentType string) error
}

// StartRunInput is everything needed to launch a run.
type StartRunInput struct {
	Segments []entities.TranscriptSegment
	Metadata entities.MeetingMetadata
	Language string
}

// Service is the application-facing surface of the pipeline: it
// owns run records, launches coordinator runs in the background and
// tracks their cancel functions.
type Service interface {
	StartRun(ctx context.Context, input StartRunInput) (*entities.PipelineRun, error)
	GetRun(ctx context.Context, id uuid.UUID) (*entities.PipelineRun, error)
	ListRuns(ctx context.Context, limit int) ([]entities.PipelineRun, error)
	GetProtocol(ctx context.Context, runID uuid.UUID) (*entities.ProtocolRecord, error)
	CancelRun(ctx context.Context, id uuid.UUID) error
}

type service struct {
	coordinator *Coordinator
	runs        RunStore
	protocols   ProtocolStore
	artifacts   ArtifactStore
	defaultLang string
	logger      *zap.Logger

	mu      sync.Mutex
	cancels map[uuid.UUID]context.CancelFunc
}

// NewService creates the pipeline service. artifacts may be nil to
// disable object-storage exports.
func NewService(coordinator *Coordinator, runs RunStore, protocols ProtocolStore, artifacts ArtifactStore, defaultLang string, logger *zap.Logger) Service {
	if defaultLang == "" {
		defaultLang = "en"
	}
	return &service{
		coordinator: coordinator,
		runs:        runs,
		protocols:   protocols,
		artifacts:   artifacts,
		defaultLang: defaultLang,
		logger:      logger,
		cancels:     make(map[uuid.UUID]context.CancelFunc),
	}
}

func (s *service) StartRun(ctx context.Context, input StartRunInput) (*entities.PipelineRun, error) {
	language := input.Language
	if language == "" {
		language = s.defaultLang
	}

	run := &entities.PipelineRun{
		ID:       uuid.New(),
		Status:   entities.RunStatusPending,
		Progress: 0.01,
		Message:  "run created",
		Language: language,
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, apperrors.ErrDBQueryFailed("create pipeline run", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancels[run.ID] = cancel
	s.mu.Unlock()

	go s.execute(runCtx, run.ID, input, language)

	if s.logger != nil {
		s.logger.Info("🚀 Pipeline run started",
			zap.String("run_id", run.ID.String()),
			zap.String("language", language),
			zap.Int("segments", len(input.Segments)))
	}
	return run, nil
}

func (s *service) execute(ctx context.Context, runID uuid.UUID, input StartRunInput, language string) {
	defer s.forgetCancel(runID)

	result, err := s.coordinator.Run(ctx, runID, input.Segments, input.Metadata, language)
	if err != nil {
		// The coordinator already reported the terminal state via
		// the progress sink; record the reason on the run row too.
		if dbErr := s.runs.MarkFailed(context.Background(), runID, err.Error()); dbErr != nil && s.logger != nil {
			s.logger.Error("❌ Failed to persist run failure",
				zap.String("run_id", runID.String()),
				zap.Error(dbErr))
		}
		return
	}

	bg := context.Background()
	if err := s.runs.SetChunkStats(bg, runID, result.ChunkCount, result.ChunkFailures); err != nil && s.logger != nil {
		s.logger.Error("❌ Failed to persist chunk stats",
			zap.String("run_id", runID.String()),
			zap.Error(err))
	}

	record, err := protocolRecord(runID, result.Protocol)
	if err == nil {
		err = s.protocols.Create(bg, record)
	}
	if err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Failed to store protocol",
				zap.String("run_id", runID.String()),
				zap.Error(err))
		}
		_ = s.runs.MarkFailed(bg, runID, fmt.Sprintf("storing protocol: %v", err))
		return
	}

	if err := s.runs.MarkCompleted(bg, runID, record.ID); err != nil && s.logger != nil {
		s.logger.Error("❌ Failed to mark run completed",
			zap.String("run_id", runID.String()),
			zap.Error(err))
	}

	s.exportArtifacts(bg, runID, result.Protocol)
}

// exportArtifacts pushes the JSON and markdown renditions to object
// storage. Failures are logged, never fatal.
func (s *service) exportArtifacts(ctx context.Context, runID uuid.UUID, protocol *entities.Protocol) {
	if s.artifacts == nil {
		return
	}

	base := artifactBaseName(runID, protocol)

	if data, err := json.MarshalIndent(protocol, "", "  "); err == nil {
		if err := s.artifacts.Upload(ctx, base+".json", data, "application/json"); err != nil && s.logger != nil {
			s.logger.Warn("⚠️ Protocol JSON export failed",
				zap.String("run_id", runID.String()),
				zap.Error(err))
		}
	}

	markdown := RenderMarkdown(protocol)
	if err := s.artifacts.Upload(ctx, base+".md", []byte(markdown), "text/markdown"); err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Protocol markdown export failed",
			zap.String("run_id", runID.String()),
			zap.Error(err))
	}
}

// artifactBaseName builds "protocols/<date>_<title slug>_<run id>".
// The run id keeps names unique when date and title repeat.
func artifactBaseName(runID uuid.UUID, protocol *entities.Protocol) string {
	parts := make([]string, 0, 3)
	if protocol.Metadata.Date != "" {
		parts = append(parts, protocol.Metadata.Date)
	}
	if slug := slugify(protocol.Metadata.Title); slug != "" {
		parts = append(parts, slug)
	}
	parts = append(parts, runID.String())
	return "protocols/" + strings.Join(parts, "_")
}

func slugify(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	return strings.Join(fields, "-")
}

func (s *service) GetRun(ctx context.Context, id uuid.UUID) (*entities.PipelineRun, error) {
	run, err := s.runs.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.ErrDBQueryFailed("get pipeline run", err)
	}
	if run == nil {
		return nil, apperrors.ErrRunNotFound(id.String())
	}
	return run, nil
}

func (s *service) ListRuns(ctx context.Context, limit int) ([]entities.PipelineRun, error) {
	runs, err := s.runs.List(ctx, limit)
	if err != nil {
		return nil, apperrors.ErrDBQueryFailed("list pipeline runs", err)
	}
	return runs, nil
}

func (s *service) GetProtocol(ctx context.Context, runID uuid.UUID) (*entities.ProtocolRecord, error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run.Status != entities.RunStatusCompleted {
		return nil, apperrors.ErrProtocolNotReady(runID.String(), string(run.Status))
	}
	record, err := s.protocols.GetByRunID(ctx, runID)
	if err != nil {
		return nil, apperrors.ErrDBQueryFailed("get protocol", err)
	}
	if record == nil {
		return nil, apperrors.ErrNotFound("Protocol")
	}
	return record, nil
}

// CancelRun requests cancellation of a running pipeline. The run
// stops at the next stage boundary and ends up in the error state.
func (s *service) CancelRun(ctx context.Context, id uuid.UUID) error {
	run, err := s.GetRun(ctx, id)
	if err != nil {
		return err
	}
	if run.Status.Terminal() {
		return apperrors.ErrRunNotCancellable(id.String(), string(run.Status))
	}

	s.mu.Lock()
	cancel, ok := s.cancels[id]
	s.mu.Unlock()
	if !ok {
		// Process restart lost the cancel func; mark the row directly.
		return s.runs.MarkFailed(ctx, id, "run cancelled")
	}
	cancel()

	if s.logger != nil {
		s.logger.Info("🛑 Pipeline run cancellation requested",
			zap.String("run_id", id.String()))
	}
	return nil
}

func (s *service) forgetCancel(id uuid.UUID) {
	s.mu.Lock()
	if cancel, ok := s.cancels[id]; ok {
		cancel()
		delete(s.cancels, id)
	}
	s.mu.Unlock()
}

func protocolRecord(runID uuid.UUID, protocol *entities.Protocol) (*entities.ProtocolRecord, error) {
	doc, err := json.Marshal(protocol)
	if err != nil {
		return nil, fmt.Errorf("encoding protocol: %w", err)
	}
	return &entities.ProtocolRecord{
		ID:       protocol.ID,
		RunID:    runID,
		Title:    protocol.Metadata.Title,
		Date:     protocol.Metadata.Date,
		Language: protocol.Metadata.Language,
		Document: datatypes.JSON(doc),
	}, nil
}
