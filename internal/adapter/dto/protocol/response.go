package protocol

import (
	"encoding/json"
	"time"

	"github.com/DIZ-admin/meeting-minutes-generator-v2/internal/domain/entities"
)

// RunResponse is the API view of a pipeline run.
type RunResponse struct {
	ID            string                  `json:"id"`
	Status        entities.RunStatus      `json:"status"`
	Progress      float64                 `json:"progress"`
	Message       string                  `json:"message,omitempty"`
	Language      string                  `json:"language,omitempty"`
	ChunkCount    int                     `json:"chunk_count,omitempty"`
	ChunkFailures []entities.ChunkFailure `json:"chunk_failures,omitempty"`
	ProtocolID    string                  `json:"protocol_id,omitempty"`
	LastError     string                  `json:"last_error,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	CompletedAt   *time.Time              `json:"completed_at,omitempty"`
}

// NewRunResponse maps a run entity to its API shape.
func NewRunResponse(run *entities.PipelineRun) RunResponse {
	resp := RunResponse{
		ID:            run.ID.String(),
		Status:        run.Status,
		Progress:      run.Progress,
		Message:       run.Message,
		Language:      run.Language,
		ChunkCount:    run.ChunkCount,
		ChunkFailures: run.ChunkFailures,
		CreatedAt:     run.CreatedAt,
		CompletedAt:   run.CompletedAt,
	}
	if run.ProtocolID != nil {
		resp.ProtocolID = run.ProtocolID.String()
	}
	if run.LastError != nil {
		resp.LastError = *run.LastError
	}
	return resp
}

// ProtocolResponse returns the stored protocol document.
type ProtocolResponse struct {
	ID        string          `json:"id"`
	RunID     string          `json:"run_id"`
	Document  json.RawMessage `json:"document"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewProtocolResponse maps a protocol record to its API shape.
func NewProtocolResponse(record *entities.ProtocolRecord) ProtocolResponse {
	return ProtocolResponse{
		ID:        record.ID.String(),
		RunID:     record.RunID.String(),
		Document:  json.RawMessage(record.Document),
		CreatedAt: record.CreatedAt,
	}
}
