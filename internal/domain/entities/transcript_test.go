package entities

import (
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/johnquangdev/memory-care/pkg/speechmetrics"
)

func f(v float64) *float64 { return &v }

func TestTranscript_MetricsInput(t *testing.T) {
	tr := NewTranscript(uuid.New())
	tr.Words = []WordTimestamp{
		{Word: "안녕", Start: f(0), End: f(0.4)},
		{Word: "음"},
		{Word: "하세요", Start: f(0.9), End: f(1.3)},
	}

	in := tr.MetricsInput()
	if len(in.Words) != 3 {
		t.Fatalf("expected 3 words, got %d", len(in.Words))
	}
	if !math.IsNaN(in.Words[1].Start) || !math.IsNaN(in.Words[1].End) {
		t.Fatalf("missing timings should map to NaN: %+v", in.Words[1])
	}

	m := speechmetrics.Calculate(in)
	if m.TotalWords != 2 || m.PauseCount != 1 {
		t.Fatalf("unexpected metrics %+v", m)
	}
}

func TestSpeechRecording_Lifecycle(t *testing.T) {
	rec := NewSpeechRecording(uuid.New(), TaskTypeScript)
	if rec.Status != RecordingStatusUploaded || rec.IsCompleted() {
		t.Fatalf("unexpected initial state %+v", rec)
	}

	rec.MarkAsFailed("boom")
	if rec.Status != RecordingStatusFailed || *rec.ProcessingError != "boom" {
		t.Fatalf("unexpected failed state %+v", rec)
	}

	rec.MarkAsCompleted(speechmetrics.Metrics{TotalWords: 60}, speechmetrics.LevelNormal)
	if !rec.IsCompleted() || rec.ProcessingError != nil || rec.AnalyzedAt == nil {
		t.Fatalf("unexpected completed state %+v", rec)
	}
	if *rec.OverallLevel != speechmetrics.LevelNormal {
		t.Fatalf("overall level = %s", *rec.OverallLevel)
	}
}

func TestTaskType_Valid(t *testing.T) {
	for _, tt := range []TaskType{TaskTypePhoto, TaskTypeScript, TaskTypeConversation} {
		if !tt.Valid() {
			t.Errorf("%s should be valid", tt)
		}
	}
	if TaskType("game").Valid() {
		t.Error("game should not be a valid task type")
	}
}
