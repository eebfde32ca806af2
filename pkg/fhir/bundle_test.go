package fhir

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/memory-care/pkg/speechmetrics"
)

func sampleInput() BundleInput {
	m := speechmetrics.Metrics{
		SpeechRateWPM:        110,
		MeanPauseDurationSec: 1.2,
		PausesPerMinute:      4,
		MLU:                  8,
		TTR:                  0.71,
		TotalWords:           120,
		SpeakingDurationSec:  65,
		UtteranceCount:       15,
		PauseCount:           4,
	}
	return BundleInput{
		RecordingID: uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		UserID:      uuid.MustParse("22222222-2222-2222-2222-222222222222"),
		RecordedAt:  time.Date(2026, 3, 1, 9, 30, 0, 0, time.FixedZone("KST", 9*3600)),
		Metrics:     m,
		Summary:     speechmetrics.Summarize(&m),
	}
}

func TestBuildSpeechBundle_Shape(t *testing.T) {
	b := BuildSpeechBundle(sampleInput())

	if b.ResourceType != "Bundle" || b.Type != "collection" {
		t.Fatalf("unexpected bundle header %+v", b)
	}
	if len(b.Entry) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(b.Entry))
	}
	if b.Timestamp != "2026-03-01T00:30:00Z" {
		t.Fatalf("timestamp = %s", b.Timestamp)
	}

	seen := map[string]bool{}
	for _, e := range b.Entry {
		if seen[e.Resource.ID] {
			t.Fatalf("duplicate entry id %s", e.Resource.ID)
		}
		seen[e.Resource.ID] = true
		if e.FullURL != "urn:uuid:"+e.Resource.ID {
			t.Fatalf("fullUrl mismatch %s", e.FullURL)
		}
		if e.Resource.Subject.Reference != "Patient/22222222-2222-2222-2222-222222222222" {
			t.Fatalf("unexpected subject %s", e.Resource.Subject.Reference)
		}
	}

	rate := b.Entry[0].Resource
	if rate.Code.Coding[0].Code != "speech-rate" || rate.ValueQuantity.Value != 110 {
		t.Fatalf("unexpected rate observation %+v", rate)
	}
	// 110 wpm is below the warning cutoff
	if rate.Interpretation[0].Coding[0].Code != "A" {
		t.Fatalf("rate interpretation = %s, want A", rate.Interpretation[0].Coding[0].Code)
	}

	mlu := b.Entry[3].Resource
	if mlu.Interpretation[0].Coding[0].Code != "H" {
		t.Fatalf("mlu interpretation = %s, want H", mlu.Interpretation[0].Coding[0].Code)
	}

	overall := b.Entry[6].Resource
	if overall.ValueString != string(speechmetrics.LevelWarning) {
		t.Fatalf("overall = %s", overall.ValueString)
	}
	if len(overall.Note) == 0 {
		t.Fatal("expected rationale note on overall observation")
	}
}

func TestBuildSpeechBundle_Deterministic(t *testing.T) {
	a, _ := json.Marshal(BuildSpeechBundle(sampleInput()))
	b, _ := json.Marshal(BuildSpeechBundle(sampleInput()))
	if !bytes.Equal(a, b) {
		t.Fatal("same input produced different JSON")
	}

	other := sampleInput()
	other.RecordingID = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	if BuildSpeechBundle(other).Entry[0].Resource.ID == BuildSpeechBundle(sampleInput()).Entry[0].Resource.ID {
		t.Fatal("entry ids should depend on the recording id")
	}
}

func TestBuildSpeechBundle_WithoutSummary(t *testing.T) {
	in := sampleInput()
	in.Summary = nil
	b := BuildSpeechBundle(in)
	if len(b.Entry) != 6 {
		t.Fatalf("expected 6 entries without summary, got %d", len(b.Entry))
	}
	for _, e := range b.Entry {
		if len(e.Resource.Interpretation) != 0 {
			t.Fatalf("unexpected interpretation on %s", e.Resource.Code.Text)
		}
	}
}

func TestInterpretation(t *testing.T) {
	tests := map[speechmetrics.Level]string{
		speechmetrics.LevelNormal:   "N",
		speechmetrics.LevelWarning:  "A",
		speechmetrics.LevelRisk:     "H",
		speechmetrics.LevelCritical: "AA",
	}
	for level, want := range tests {
		if got := interpretation(level).Coding[0].Code; got != want {
			t.Errorf("%s -> %s, want %s", level, got, want)
		}
	}
}
