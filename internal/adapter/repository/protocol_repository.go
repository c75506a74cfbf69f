package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/DIZ-admin/meeting-minutes-generator-v2/internal/domain/entities"
)

// ProtocolRepository handles protocol document persistence
type ProtocolRepository struct {
	db *gorm.DB
}

// NewProtocolRepository creates a new protocol repository
func NewProtocolRepository(db *gorm.DB) *ProtocolRepository {
	return &ProtocolRepository{db: db}
}

// Create stores a finished protocol document
func (r *ProtocolRepository) Create(ctx context.Context, record *entities.ProtocolRecord) error {
	if record == nil {
		return errors.New("record cannot be nil")
	}
	return r.db.WithContext(ctx).Create(record).Error
}

// GetByRunID retrieves the protocol produced by a run
func (r *ProtocolRepository) GetByRunID(ctx context.Context, runID uuid.UUID) (*entities.ProtocolRecord, error) {
	var record entities.ProtocolRecord
	if err := r.db.WithContext(ctx).Where("run_id = ?", runID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// GetByID retrieves a protocol by its own ID
func (r *ProtocolRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.ProtocolRecord, error) {
	var record entities.ProtocolRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}
