package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/memory-care/internal/domain/entities"
	"github.com/johnquangdev/memory-care/internal/domain/repositories"
)

// transcriptRepository handles transcript data operations
type transcriptRepository struct {
	db *gorm.DB
}

// NewTranscriptRepository creates a new transcript repository
func NewTranscriptRepository(db *gorm.DB) repositories.TranscriptRepository {
	return &transcriptRepository{db: db}
}

// Save inserts the transcript or replaces the one stored for the same
// recording, keeping the existing row ID. A redelivered webhook therefore
// never duplicates rows.
func (r *transcriptRepository) Save(ctx context.Context, transcript *entities.Transcript) error {
	if transcript == nil {
		return errors.New("transcript cannot be nil")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entities.Transcript
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "created_at").
			Where("recording_id = ?", transcript.RecordingID).
			First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(transcript).Error
		case err != nil:
			return err
		}

		transcript.ID = existing.ID
		transcript.CreatedAt = existing.CreatedAt
		return tx.Save(transcript).Error
	})
}

// FindByID retrieves a transcript by ID
func (r *transcriptRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Transcript, error) {
	var transcript entities.Transcript
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&transcript).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &transcript, nil
}

// FindByRecordingID retrieves the transcript of a recording
func (r *transcriptRepository) FindByRecordingID(ctx context.Context, recordingID uuid.UUID) (*entities.Transcript, error) {
	var transcript entities.Transcript
	if err := r.db.WithContext(ctx).Where("recording_id = ?", recordingID).First(&transcript).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &transcript, nil
}
