package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/memory-care/internal/domain/entities"
)

// RecordingFilters represents filters for listing recordings
type RecordingFilters struct {
	UserID   uuid.UUID
	TaskType *entities.TaskType
	Status   *entities.RecordingStatus
	Since    *time.Time
	Limit    int
	Offset   int
}

// RecordingRepository defines the interface for speech recording data access
type RecordingRepository interface {
	// Create creates a new recording
	Create(ctx context.Context, rec *entities.SpeechRecording) error

	// FindByID retrieves a recording by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.SpeechRecording, error)

	// FindBaseline retrieves the user's baseline recording, if any
	FindBaseline(ctx context.Context, userID uuid.UUID) (*entities.SpeechRecording, error)

	// List retrieves recordings with filters and pagination, newest first
	List(ctx context.Context, filters RecordingFilters) ([]*entities.SpeechRecording, int64, error)

	// Update overwrites an existing recording and returns
	// entities.ErrRecordingNotFound when no row matches
	Update(ctx context.Context, rec *entities.SpeechRecording) error

	// SetBaseline makes id the only baseline recording of the user
	SetBaseline(ctx context.Context, userID, id uuid.UUID) error

	// Delete removes a recording together with its jobs and transcript
	Delete(ctx context.Context, id uuid.UUID) error
}

// AnalysisJobRepository defines the interface for transcription/analysis jobs
type AnalysisJobRepository interface {
	Create(ctx context.Context, job *entities.AnalysisJob) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.AnalysisJob, error)
	FindByExternalID(ctx context.Context, externalID string) (*entities.AnalysisJob, error)
	ListByStatus(ctx context.Context, status entities.AnalysisJobStatus, limit int) ([]*entities.AnalysisJob, error)

	// Claim moves a job from one status to another only if it is still in
	// the expected status. It reports whether this caller won the claim.
	Claim(ctx context.Context, id uuid.UUID, from, to entities.AnalysisJobStatus) (bool, error)

	MarkSubmitted(ctx context.Context, id uuid.UUID, externalID string) error
	MarkTranscriptReady(ctx context.Context, id, transcriptID uuid.UUID) error
	MarkCompleted(ctx context.Context, id uuid.UUID, meta entities.AnalysisJobMetadata) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error

	// Requeue returns a job to pending and counts the attempt
	Requeue(ctx context.Context, id uuid.UUID, errMsg string) error

	// ResetStale moves jobs stuck in status for longer than olderThan back to target
	ResetStale(ctx context.Context, status, target entities.AnalysisJobStatus, olderThan time.Duration) (int64, error)
}

// TranscriptRepository defines the interface for stored transcripts
type TranscriptRepository interface {
	// Save inserts the transcript or replaces the one stored for the same recording
	Save(ctx context.Context, t *entities.Transcript) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Transcript, error)
	FindByRecordingID(ctx context.Context, recordingID uuid.UUID) (*entities.Transcript, error)
}
