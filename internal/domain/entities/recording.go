package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/johnquangdev/memory-care/pkg/speechmetrics"
)

// TaskType is the kind of speech sample the user was asked to record
type TaskType string

const (
	TaskTypePhoto        TaskType = "photo"        // describe a photo
	TaskTypeScript       TaskType = "script"       // read a script aloud
	TaskTypeConversation TaskType = "conversation" // free conversation, gets a journal entry
)

// Valid reports whether t is a known task type
func (t TaskType) Valid() bool {
	switch t {
	case TaskTypePhoto, TaskTypeScript, TaskTypeConversation:
		return true
	}
	return false
}

// RecordingStatus represents the status of a recording
type RecordingStatus string

const (
	RecordingStatusUploaded   RecordingStatus = "uploaded"
	RecordingStatusProcessing RecordingStatus = "processing"
	RecordingStatusCompleted  RecordingStatus = "completed"
	RecordingStatusFailed     RecordingStatus = "failed"
)

// SpeechRecording is one speech sample and, once analysed, its metrics
type SpeechRecording struct {
	ID              uuid.UUID              `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID          uuid.UUID              `json:"user_id" gorm:"type:uuid;not null;index"`
	TaskType        TaskType               `json:"task_type" gorm:"type:varchar(20);not null"`
	Status          RecordingStatus        `json:"status" gorm:"type:varchar(20);not null;default:'uploaded';index"`
	ObjectName      string                 `json:"object_name" gorm:"type:text;not null"`
	FileURL         string                 `json:"file_url,omitempty" gorm:"-"` // presigned, filled on read
	ContentType     string                 `json:"content_type" gorm:"type:varchar(100)"`
	FileSize        int64                  `json:"file_size"`
	DurationSec     float64                `json:"duration_sec"`
	Metrics         *speechmetrics.Metrics `json:"metrics,omitempty" gorm:"type:jsonb;serializer:json"`
	OverallLevel    *speechmetrics.Level   `json:"overall_level,omitempty" gorm:"type:varchar(20);index"`
	IsBaseline      bool                   `json:"is_baseline" gorm:"not null;default:false"`
	JournalText     *string                `json:"journal_text,omitempty" gorm:"type:text"`
	ProcessingError *string                `json:"processing_error,omitempty" gorm:"type:text"`
	Metadata        datatypes.JSONMap      `json:"metadata,omitempty" gorm:"type:jsonb"`
	RecordedAt      time.Time              `json:"recorded_at" gorm:"not null;default:now()"`
	AnalyzedAt      *time.Time             `json:"analyzed_at,omitempty"`
	CreatedAt       time.Time              `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time              `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (SpeechRecording) TableName() string {
	return "speech_recordings"
}

// NewSpeechRecording creates a recording in the uploaded state
func NewSpeechRecording(userID uuid.UUID, taskType TaskType) *SpeechRecording {
	now := time.Now()
	return &SpeechRecording{
		ID:         uuid.New(),
		UserID:     userID,
		TaskType:   taskType,
		Status:     RecordingStatusUploaded,
		Metadata:   datatypes.JSONMap{},
		RecordedAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsCompleted checks if recording has been analysed
func (r *SpeechRecording) IsCompleted() bool {
	return r.Status == RecordingStatusCompleted && r.Metrics != nil
}

// MarkAsProcessing marks recording as processing
func (r *SpeechRecording) MarkAsProcessing() {
	r.Status = RecordingStatusProcessing
	r.UpdatedAt = time.Now()
}

// MarkAsCompleted stores the metrics and their overall level
func (r *SpeechRecording) MarkAsCompleted(m speechmetrics.Metrics, level speechmetrics.Level) {
	now := time.Now()
	r.Status = RecordingStatusCompleted
	r.Metrics = &m
	r.OverallLevel = &level
	r.ProcessingError = nil
	r.AnalyzedAt = &now
	r.UpdatedAt = now
}

// MarkAsFailed marks recording as failed
func (r *SpeechRecording) MarkAsFailed(errorMsg string) {
	r.Status = RecordingStatusFailed
	r.ProcessingError = &errorMsg
	r.UpdatedAt = time.Now()
}
