package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/memory-care/internal/domain/entities"
	"github.com/johnquangdev/memory-care/internal/domain/repositories"
)

// recordingRepository implements the RecordingRepository interface
type recordingRepository struct {
	db *gorm.DB
}

// NewRecordingRepository creates a new recording repository
func NewRecordingRepository(db *gorm.DB) repositories.RecordingRepository {
	return &recordingRepository{db: db}
}

// Create creates a new recording
func (r *recordingRepository) Create(ctx context.Context, rec *entities.SpeechRecording) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// FindByID retrieves a recording by its ID
func (r *recordingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.SpeechRecording, error) {
	var rec entities.SpeechRecording
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// FindBaseline retrieves the user's baseline recording
func (r *recordingRepository) FindBaseline(ctx context.Context, userID uuid.UUID) (*entities.SpeechRecording, error) {
	var rec entities.SpeechRecording
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_baseline = ?", userID, true).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// List retrieves recordings with filters and pagination
func (r *recordingRepository) List(ctx context.Context, filters repositories.RecordingFilters) ([]*entities.SpeechRecording, int64, error) {
	var recs []*entities.SpeechRecording
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.SpeechRecording{}).Where("user_id = ?", filters.UserID)

	if filters.TaskType != nil {
		query = query.Where("task_type = ?", *filters.TaskType)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Since != nil {
		query = query.Where("recorded_at >= ?", *filters.Since)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("recorded_at DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	err := query.Find(&recs).Error
	return recs, total, err
}

// Update writes every column of an existing recording. It never inserts:
// a recording deleted in the meantime yields entities.ErrRecordingNotFound.
func (r *recordingRepository) Update(ctx context.Context, rec *entities.SpeechRecording) error {
	result := r.db.WithContext(ctx).
		Model(&entities.SpeechRecording{}).
		Where("id = ?", rec.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(rec)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entities.ErrRecordingNotFound
	}
	return nil
}

// SetBaseline clears the previous baseline and marks id, in one transaction.
// Only completed recordings can become the baseline.
func (r *recordingRepository) SetBaseline(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.SpeechRecording{}).
			Where("user_id = ? AND is_baseline = ?", userID, true).
			Update("is_baseline", false).Error; err != nil {
			return err
		}

		result := tx.Model(&entities.SpeechRecording{}).
			Where("id = ? AND user_id = ? AND status = ?", id, userID, entities.RecordingStatusCompleted).
			Update("is_baseline", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return entities.ErrRecordingNotCompleted
		}
		return nil
	})
}

// Delete removes a recording together with its jobs and transcript
func (r *recordingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recording_id = ?", id).Delete(&entities.AnalysisJob{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recording_id = ?", id).Delete(&entities.Transcript{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.SpeechRecording{}, "id = ?", id).Error
	})
}
