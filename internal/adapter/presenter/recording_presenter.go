package presenter

import (
	"github.com/johnquangdev/memory-care/internal/adapter/dto/common"
	"github.com/johnquangdev/memory-care/internal/adapter/dto/recording"
	"github.com/johnquangdev/memory-care/internal/domain/entities"
)

// ToRecordingResponse converts a SpeechRecording entity to RecordingResponse DTO
func ToRecordingResponse(r *entities.SpeechRecording) *recording.RecordingResponse {
	if r == nil {
		return nil
	}

	response := &recording.RecordingResponse{
		ID:              r.ID.String(),
		TaskType:        string(r.TaskType),
		Status:          string(r.Status),
		FileURL:         r.FileURL,
		ContentType:     r.ContentType,
		FileSize:        r.FileSize,
		DurationSec:     r.DurationSec,
		Metrics:         r.Metrics,
		IsBaseline:      r.IsBaseline,
		JournalText:     r.JournalText,
		ProcessingError: r.ProcessingError,
		RecordedAt:      r.RecordedAt,
		AnalyzedAt:      r.AnalyzedAt,
		CreatedAt:       r.CreatedAt,
	}

	if r.OverallLevel != nil {
		level := string(*r.OverallLevel)
		response.OverallLevel = &level
	}

	return response
}

// ToRecordingListResponse converts a page of recordings
func ToRecordingListResponse(recs []*entities.SpeechRecording, total int64, page, pageSize int) *recording.RecordingListResponse {
	items := make([]*recording.RecordingResponse, len(recs))
	for i, r := range recs {
		items[i] = ToRecordingResponse(r)
	}

	return &recording.RecordingListResponse{
		Recordings: items,
		Pagination: common.NewPagination(page, pageSize, total),
	}
}
