// Package fhir maps speech analysis results onto FHIR R4 resources.
package fhir

import (
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/memory-care/pkg/speechmetrics"
)

const (
	codeSystem           = "https://memory-care.app/fhir/CodeSystem/speech-metrics"
	categorySystem       = "http://terminology.hl7.org/CodeSystem/observation-category"
	interpretationSystem = "http://terminology.hl7.org/CodeSystem/v3-ObservationInterpretation"
	ucum                 = "http://unitsofmeasure.org"
)

// namespace for name-based entry ids
var namespace = uuid.MustParse("6f1d3c2a-8a52-4f0e-9b61-3f6e2c7d9a10")

type Bundle struct {
	ResourceType string  `json:"resourceType"`
	ID           string  `json:"id"`
	Type         string  `json:"type"`
	Timestamp    string  `json:"timestamp,omitempty"`
	Entry        []Entry `json:"entry"`
}

type Entry struct {
	FullURL  string      `json:"fullUrl"`
	Resource Observation `json:"resource"`
}

type Observation struct {
	ResourceType      string            `json:"resourceType"`
	ID                string            `json:"id"`
	Status            string            `json:"status"`
	Category          []CodeableConcept `json:"category"`
	Code              CodeableConcept   `json:"code"`
	Subject           Reference         `json:"subject"`
	EffectiveDateTime string            `json:"effectiveDateTime,omitempty"`
	ValueQuantity     *Quantity         `json:"valueQuantity,omitempty"`
	ValueString       string            `json:"valueString,omitempty"`
	Interpretation    []CodeableConcept `json:"interpretation,omitempty"`
	Note              []Annotation      `json:"note,omitempty"`
}

type CodeableConcept struct {
	Coding []Coding `json:"coding"`
	Text   string   `json:"text,omitempty"`
}

type Coding struct {
	System  string `json:"system"`
	Code    string `json:"code"`
	Display string `json:"display,omitempty"`
}

type Reference struct {
	Reference string `json:"reference"`
}

type Quantity struct {
	Value  float64 `json:"value"`
	Unit   string  `json:"unit"`
	System string  `json:"system"`
	Code   string  `json:"code"`
}

type Annotation struct {
	Text string `json:"text"`
}

// BundleInput is everything needed to export one analysed recording
type BundleInput struct {
	RecordingID uuid.UUID
	UserID      uuid.UUID
	RecordedAt  time.Time
	Metrics     speechmetrics.Metrics
	Summary     *speechmetrics.Summary
}

type metricRow struct {
	key     string
	display string
	value   float64
	unit    string
	level   speechmetrics.Level
}

// BuildSpeechBundle builds a collection bundle with one Observation per metric
// and one overall assessment. Output depends only on the input.
func BuildSpeechBundle(in BundleInput) Bundle {
	m := in.Metrics
	var rateLevel, pauseLevel, mluLevel speechmetrics.Level
	if in.Summary != nil {
		rateLevel = in.Summary.SpeechRate.Level
		pauseLevel = in.Summary.PauseDuration.Level
		mluLevel = in.Summary.SentenceLength.Level
	}

	rows := []metricRow{
		{"speech-rate", "Speech rate", m.SpeechRateWPM, "{words}/min", rateLevel},
		{"mean-pause-duration", "Mean pause duration", m.MeanPauseDurationSec, "s", pauseLevel},
		{"pauses-per-minute", "Pauses per minute", m.PausesPerMinute, "/min", ""},
		{"mean-length-of-utterance", "Mean length of utterance", m.MLU, "{words}", mluLevel},
		{"type-token-ratio", "Type-token ratio", m.TTR, "1", ""},
		{"total-words", "Total words", float64(m.TotalWords), "{words}", ""},
	}

	subject := Reference{Reference: "Patient/" + in.UserID.String()}
	effective := ""
	if !in.RecordedAt.IsZero() {
		effective = in.RecordedAt.UTC().Format(time.RFC3339)
	}

	bundle := Bundle{
		ResourceType: "Bundle",
		ID:           entryID(in.RecordingID, "bundle"),
		Type:         "collection",
		Timestamp:    effective,
		Entry:        make([]Entry, 0, len(rows)+1),
	}

	for _, row := range rows {
		obs := newObservation(in.RecordingID, row.key, row.display, subject, effective)
		obs.ValueQuantity = &Quantity{Value: row.value, Unit: row.unit, System: ucum, Code: row.unit}
		if row.level != "" {
			obs.Interpretation = []CodeableConcept{interpretation(row.level)}
		}
		bundle.Entry = append(bundle.Entry, entry(obs))
	}

	if in.Summary != nil {
		obs := newObservation(in.RecordingID, "overall-assessment", "Overall speech assessment", subject, effective)
		obs.ValueString = string(in.Summary.OverallLevel)
		obs.Interpretation = []CodeableConcept{interpretation(in.Summary.OverallLevel)}
		if in.Summary.Rationale != "" {
			obs.Note = append(obs.Note, Annotation{Text: in.Summary.Rationale})
		}
		for _, s := range in.Summary.Suggestions {
			obs.Note = append(obs.Note, Annotation{Text: s})
		}
		bundle.Entry = append(bundle.Entry, entry(obs))
	}

	return bundle
}

func newObservation(recordingID uuid.UUID, key, display string, subject Reference, effective string) Observation {
	return Observation{
		ResourceType: "Observation",
		ID:           entryID(recordingID, key),
		Status:       "final",
		Category: []CodeableConcept{{
			Coding: []Coding{{System: categorySystem, Code: "exam", Display: "Exam"}},
		}},
		Code: CodeableConcept{
			Coding: []Coding{{System: codeSystem, Code: key, Display: display}},
			Text:   display,
		},
		Subject:           subject,
		EffectiveDateTime: effective,
	}
}

func entry(obs Observation) Entry {
	return Entry{FullURL: "urn:uuid:" + obs.ID, Resource: obs}
}

func entryID(recordingID uuid.UUID, key string) string {
	return uuid.NewSHA1(namespace, []byte(recordingID.String()+"/"+key)).String()
}

// interpretation maps a level onto HL7 v3 ObservationInterpretation
func interpretation(level speechmetrics.Level) CodeableConcept {
	var code, display string
	switch level {
	case speechmetrics.LevelWarning:
		code, display = "A", "Abnormal"
	case speechmetrics.LevelRisk:
		code, display = "H", "High"
	case speechmetrics.LevelCritical:
		code, display = "AA", "Critical abnormal"
	default:
		code, display = "N", "Normal"
	}
	return CodeableConcept{
		Coding: []Coding{{System: interpretationSystem, Code: code, Display: display}},
		Text:   string(level),
	}
}
