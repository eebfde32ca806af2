package entities

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/memory-care/pkg/speechmetrics"
)

// WordTimestamp represents a single recognised word. Nil timings were not
// reported by the provider.
type WordTimestamp struct {
	Word       string   `json:"word"`
	Start      *float64 `json:"start,omitempty"`
	End        *float64 `json:"end,omitempty"`
	Confidence float64  `json:"confidence,omitempty"`
}

// Transcript is the stored speech-to-text result for a recording
type Transcript struct {
	ID               uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	RecordingID      uuid.UUID       `json:"recording_id" gorm:"type:uuid;not null;uniqueIndex"`
	ExternalID       string          `json:"external_id,omitempty" gorm:"type:varchar(255)"`
	Text             string          `json:"text" gorm:"type:text"`
	Language         string          `json:"language,omitempty" gorm:"type:varchar(20)"`
	Words            []WordTimestamp `json:"words,omitempty" gorm:"type:jsonb;serializer:json"`
	ConfidenceScore  float64         `json:"confidence_score,omitempty"`
	AudioDurationSec float64         `json:"audio_duration_sec,omitempty"`
	ModelUsed        string          `json:"model_used,omitempty" gorm:"type:varchar(100)"`
	CreatedAt        time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Transcript) TableName() string {
	return "transcripts"
}

// NewTranscript creates a new transcript
func NewTranscript(recordingID uuid.UUID) *Transcript {
	return &Transcript{
		ID:          uuid.New(),
		RecordingID: recordingID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

// MetricsInput converts stored words into calculator input. Missing timings
// become NaN so the calculator discards them.
func (t *Transcript) MetricsInput() *speechmetrics.Transcript {
	words := make([]speechmetrics.Word, 0, len(t.Words))
	for _, w := range t.Words {
		word := speechmetrics.Word{Word: w.Word, Start: math.NaN(), End: math.NaN()}
		if w.Start != nil {
			word.Start = *w.Start
		}
		if w.End != nil {
			word.End = *w.End
		}
		words = append(words, word)
	}
	return &speechmetrics.Transcript{Words: words}
}
