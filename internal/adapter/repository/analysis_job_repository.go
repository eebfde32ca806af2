package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/memory-care/internal/domain/entities"
	"github.com/johnquangdev/memory-care/internal/domain/repositories"
)

// analysisJobRepository handles analysis job data operations
type analysisJobRepository struct {
	db *gorm.DB
}

// NewAnalysisJobRepository creates a new analysis job repository
func NewAnalysisJobRepository(db *gorm.DB) repositories.AnalysisJobRepository {
	return &analysisJobRepository{db: db}
}

// Create creates a new job
func (r *analysisJobRepository) Create(ctx context.Context, job *entities.AnalysisJob) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *analysisJobRepository) first(ctx context.Context, query string, args ...interface{}) (*entities.AnalysisJob, error) {
	var job entities.AnalysisJob
	if err := r.db.WithContext(ctx).Where(query, args...).Order("created_at DESC").First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// FindByID retrieves a job by ID
func (r *analysisJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.AnalysisJob, error) {
	return r.first(ctx, "id = ?", id)
}

// FindByExternalID retrieves a job by AssemblyAI transcript ID
func (r *analysisJobRepository) FindByExternalID(ctx context.Context, externalID string) (*entities.AnalysisJob, error) {
	return r.first(ctx, "external_job_id = ?", externalID)
}

// ListByStatus retrieves jobs with a specific status, oldest first
func (r *analysisJobRepository) ListByStatus(ctx context.Context, status entities.AnalysisJobStatus, limit int) ([]*entities.AnalysisJob, error) {
	var jobs []*entities.AnalysisJob
	if limit == 0 {
		limit = 100
	}
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// Claim atomically moves a job between statuses.
// No rows affected means another worker already claimed it.
func (r *analysisJobRepository) Claim(ctx context.Context, id uuid.UUID, from, to entities.AnalysisJobStatus) (bool, error) {
	now := time.Now()
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": now,
	}
	if from == entities.AnalysisJobStatusPending {
		updates["started_at"] = now
	}

	result := r.db.WithContext(ctx).
		Model(&entities.AnalysisJob{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// MarkSubmitted marks a job as submitted with external ID
func (r *analysisJobRepository) MarkSubmitted(ctx context.Context, id uuid.UUID, externalID string) error {
	return r.db.WithContext(ctx).
		Model(&entities.AnalysisJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":          entities.AnalysisJobStatusSubmitted,
			"external_job_id": externalID,
			"updated_at":      time.Now(),
		}).Error
}

// MarkTranscriptReady links the stored transcript and queues the job for analysis
func (r *analysisJobRepository) MarkTranscriptReady(ctx context.Context, id, transcriptID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entities.AnalysisJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        entities.AnalysisJobStatusTranscriptReady,
			"transcript_id": transcriptID,
			"updated_at":    time.Now(),
		}).Error
}

// MarkCompleted marks a job as completed. Struct updates keep the json
// serializer of the metadata column in play.
func (r *analysisJobRepository) MarkCompleted(ctx context.Context, id uuid.UUID, meta entities.AnalysisJobMetadata) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.AnalysisJob{ID: id}).
		Select("status", "metadata", "completed_at", "updated_at").
		Updates(&entities.AnalysisJob{
			Status:      entities.AnalysisJobStatusCompleted,
			Metadata:    meta,
			CompletedAt: &now,
			UpdatedAt:   now,
		}).Error
}

// MarkFailed marks a job as failed with error message
func (r *analysisJobRepository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	return r.db.WithContext(ctx).
		Model(&entities.AnalysisJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     entities.AnalysisJobStatusFailed,
			"last_error": errMsg,
			"updated_at": time.Now(),
		}).Error
}

// Requeue returns a job to pending and increments the retry count
func (r *analysisJobRepository) Requeue(ctx context.Context, id uuid.UUID, errMsg string) error {
	return r.db.WithContext(ctx).
		Model(&entities.AnalysisJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"retry_count": gorm.Expr("retry_count + 1"),
			"status":      entities.AnalysisJobStatusPending,
			"last_error":  errMsg,
			"updated_at":  time.Now(),
		}).Error
}

// ResetStale moves jobs stuck in status back to target
func (r *analysisJobRepository) ResetStale(ctx context.Context, status, target entities.AnalysisJobStatus, olderThan time.Duration) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.AnalysisJob{}).
		Where("status = ? AND updated_at < ?", status, time.Now().Add(-olderThan)).
		Updates(map[string]interface{}{
			"status":     target,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}
