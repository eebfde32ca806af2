package entities

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisJobStatus represents the status of a transcription/analysis job
type AnalysisJobStatus string

const (
	AnalysisJobStatusPending         AnalysisJobStatus = "pending"          // Waiting to be submitted to AssemblyAI
	AnalysisJobStatusSubmitted       AnalysisJobStatus = "submitted"        // Submitted, waiting for webhook
	AnalysisJobStatusTranscriptReady AnalysisJobStatus = "transcript_ready" // Transcript stored, waiting for analysis
	AnalysisJobStatusAnalyzing       AnalysisJobStatus = "analyzing"        // Claimed by the analysis worker
	AnalysisJobStatusCompleted       AnalysisJobStatus = "completed"
	AnalysisJobStatusFailed          AnalysisJobStatus = "failed"
)

// AnalysisJob tracks one recording through transcription and analysis
type AnalysisJob struct {
	ID            uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	RecordingID   uuid.UUID         `json:"recording_id" gorm:"type:uuid;not null;index"`
	UserID        uuid.UUID         `json:"user_id" gorm:"type:uuid;not null"`
	Status        AnalysisJobStatus `json:"status" gorm:"type:varchar(50);not null;index;default:'pending'"`
	ExternalJobID *string           `json:"external_job_id,omitempty" gorm:"type:varchar(255);index"` // AssemblyAI transcript ID
	ObjectName    string            `json:"object_name" gorm:"type:text;not null"`
	TranscriptID  *uuid.UUID        `json:"transcript_id,omitempty" gorm:"type:uuid"`

	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	RetryCount  int        `json:"retry_count" gorm:"type:integer;default:0"`
	MaxRetries  int        `json:"max_retries" gorm:"type:integer;default:3"`
	LastError   *string    `json:"last_error,omitempty" gorm:"type:text"`

	Metadata AnalysisJobMetadata `json:"metadata,omitempty" gorm:"type:jsonb;serializer:json"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// AnalysisJobMetadata stores additional metadata for jobs
type AnalysisJobMetadata struct {
	Language         string `json:"language,omitempty"`
	WordCount        int    `json:"word_count,omitempty"`
	ProcessingTimeMs int64  `json:"processing_time_ms,omitempty"`
}

// TableName specifies the table name for GORM
func (AnalysisJob) TableName() string {
	return "analysis_jobs"
}

// NewAnalysisJob creates a pending job for a stored recording
func NewAnalysisJob(rec *SpeechRecording, maxRetries int) *AnalysisJob {
	now := time.Now()
	return &AnalysisJob{
		ID:          uuid.New(),
		RecordingID: rec.ID,
		UserID:      rec.UserID,
		Status:      AnalysisJobStatusPending,
		ObjectName:  rec.ObjectName,
		MaxRetries:  maxRetries,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsRetryable checks if job can be retried
func (j *AnalysisJob) IsRetryable() bool {
	return j.RetryCount < j.MaxRetries
}

// CanBeSubmitted checks if job is ready to be submitted
func (j *AnalysisJob) CanBeSubmitted() bool {
	return j.Status == AnalysisJobStatusPending
}
