package entities

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus represents the lifecycle stage of a pipeline run
type RunStatus string

const (
	RunStatusPending    RunStatus = "pending"    // Run created, not yet picked up
	RunStatusChunking   RunStatus = "chunking"   // Splitting transcript into chunks
	RunStatusExtracting RunStatus = "extracting" // Per-chunk fact extraction
	RunStatusMerging    RunStatus = "merging"    // Deduplicating extracted facts
	RunStatusRefining   RunStatus = "refining"   // Producing the validated protocol
	RunStatusCompleted  RunStatus = "completed"  // Protocol stored
	RunStatusError      RunStatus = "error"      // Run failed or was cancelled
)

// Terminal reports whether the run can no longer change state.
func (s RunStatus) Terminal() bool {
	return s == RunStatusCompleted || s == RunStatusError
}

// ChunkFailure records one chunk whose extraction was given up on.
type ChunkFailure struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// PipelineRun represents one transcript-to-protocol processing run
type PipelineRun struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Status   RunStatus `json:"status" gorm:"type:varchar(50);not null;index;default:'pending'"`
	Progress float64   `json:"progress" gorm:"type:double precision;not null;default:0"`
	Message  string    `json:"message" gorm:"type:text"`
	Language string    `json:"language" gorm:"type:varchar(10)"`

	ChunkCount    int            `json:"chunk_count" gorm:"type:integer;default:0"`
	ChunkFailures []ChunkFailure `json:"chunk_failures,omitempty" gorm:"type:jsonb;serializer:json"`

	ProtocolID *uuid.UUID `json:"protocol_id,omitempty" gorm:"type:uuid;index"`
	LastError  *string    `json:"last_error,omitempty" gorm:"type:text"`

	StartedAt   *time.Time `json:"started_at,omitempty" gorm:"type:timestamp"`
	CompletedAt *time.Time `json:"completed_at,omitempty" gorm:"type:timestamp"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the default gorm table name.
func (PipelineRun) TableName() string {
	return "pipeline_runs"
}
