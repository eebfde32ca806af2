package recording

import (
	"time"

	"github.com/johnquangdev/memory-care/internal/adapter/dto/common"
	"github.com/johnquangdev/memory-care/pkg/speechmetrics"
)

// RecordingResponse represents a speech recording in API responses
type RecordingResponse struct {
	ID              string                 `json:"id"`
	TaskType        string                 `json:"task_type"`
	Status          string                 `json:"status"`
	FileURL         string                 `json:"file_url,omitempty"`
	ContentType     string                 `json:"content_type"`
	FileSize        int64                  `json:"file_size"`
	DurationSec     float64                `json:"duration_sec"`
	Metrics         *speechmetrics.Metrics `json:"metrics,omitempty"`
	OverallLevel    *string                `json:"overall_level,omitempty"`
	IsBaseline      bool                   `json:"is_baseline"`
	JournalText     *string                `json:"journal_text,omitempty"`
	ProcessingError *string                `json:"processing_error,omitempty"`
	RecordedAt      time.Time              `json:"recorded_at"`
	AnalyzedAt      *time.Time             `json:"analyzed_at,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

// RecordingListResponse represents a page of recordings
type RecordingListResponse struct {
	Recordings []*RecordingResponse      `json:"recordings"`
	Pagination common.PaginationResponse `json:"pagination"`
}
