package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/DIZ-admin/meeting-minutes-generator-v2/internal/domain/entities"
)

// RunRepository handles pipeline run persistence. It also acts as a
// progress sink so coordinator updates land on the run row.
type RunRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *gorm.DB, logger *zap.Logger) *RunRepository {
	return &RunRepository{db: db, logger: logger}
}

// Create creates a new pipeline run
func (r *RunRepository) Create(ctx context.Context, run *entities.PipelineRun) error {
	if run == nil {
		return errors.New("run cannot be nil")
	}
	now := time.Now()
	run.StartedAt = &now
	return r.db.WithContext(ctx).Create(run).Error
}

// GetByID retrieves a pipeline run by ID
func (r *RunRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.PipelineRun, error) {
	var run entities.PipelineRun
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}

// List returns the most recent runs, newest first.
func (r *RunRepository) List(ctx context.Context, limit int) ([]entities.PipelineRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var runs []entities.PipelineRun
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// SetChunkStats records how many chunks a run had and which failed.
func (r *RunRepository) SetChunkStats(ctx context.Context, id uuid.UUID, chunkCount int, failures []entities.ChunkFailure) error {
	updates := map[string]interface{}{
		"chunk_count": chunkCount,
	}
	if len(failures) > 0 {
		b, err := json.Marshal(failures)
		if err != nil {
			return err
		}
		updates["chunk_failures"] = datatypes.JSON(b)
	}
	return r.db.WithContext(ctx).Model(&entities.PipelineRun{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// MarkCompleted finalizes a successful run.
func (r *RunRepository) MarkCompleted(ctx context.Context, id uuid.UUID, protocolID uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&entities.PipelineRun{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       entities.RunStatusCompleted,
			"progress":     1.0,
			"message":      "protocol generated",
			"protocol_id":  protocolID,
			"completed_at": &now,
		}).Error
}

// MarkFailed finalizes a failed or cancelled run.
func (r *RunRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&entities.PipelineRun{}).
		Where("id = ?", id).
		Where("status NOT IN ?", []entities.RunStatus{entities.RunStatusCompleted}).
		Updates(map[string]interface{}{
			"status":       entities.RunStatusError,
			"message":      reason,
			"last_error":   &reason,
			"completed_at": &now,
		}).Error
}

// Report implements progress.Sink by writing the update onto the
// run row. Terminal states set the completion timestamp.
func (r *RunRepository) Report(ctx context.Context, runID uuid.UUID, status entities.RunStatus, fraction float64, message string) {
	updates := map[string]interface{}{
		"status":   status,
		"progress": fraction,
		"message":  message,
	}
	if status.Terminal() {
		now := time.Now()
		updates["completed_at"] = &now
	}
	if status == entities.RunStatusError {
		updates["last_error"] = message
	}

	// Progress updates must not fail the run; use a fresh context so
	// a cancelled run can still record its terminal state.
	err := r.db.WithContext(context.WithoutCancel(ctx)).Model(&entities.PipelineRun{}).
		Where("id = ?", runID).
		Updates(updates).Error
	if err != nil && r.logger != nil {
		r.logger.Warn("⚠️ Failed to persist progress update",
			zap.String("run_id", runID.String()),
			zap.String("status", string(status)),
			zap.Error(err))
	}
}
