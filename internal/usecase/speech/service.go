package speech

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/memory-care/internal/domain/entities"
	"github.com/johnquangdev/memory-care/internal/domain/repositories"
	"github.com/johnquangdev/memory-care/internal/infrastructure/cache"
	ucErrors "github.com/johnquangdev/memory-care/internal/usecase/errors"
	"github.com/johnquangdev/memory-care/pkg/fhir"
	"github.com/johnquangdev/memory-care/pkg/speechmetrics"
)

const (
	defaultStatsDays = 30
	maxStatsDays     = 365
)

// Service exposes the metrics calculator and the per-user reports built on it
type Service interface {
	Analyze(words []speechmetrics.Word) Analysis
	Summarize(m *speechmetrics.Metrics) *speechmetrics.Summary
	Compare(baseline, current *speechmetrics.Metrics) *speechmetrics.ChangeSummary
	Report(ctx context.Context, userID, recordingID uuid.UUID) (*Report, error)
	Bundle(ctx context.Context, userID, recordingID uuid.UUID) (*fhir.Bundle, error)
	Stats(ctx context.Context, userID uuid.UUID, days int) (*Stats, error)
}

// Analysis is the stateless result for a raw transcript
type Analysis struct {
	Metrics speechmetrics.Metrics  `json:"metrics"`
	Summary *speechmetrics.Summary `json:"summary"`
}

// Report describes one analysed recording against the user's baseline
type Report struct {
	RecordingID  uuid.UUID                    `json:"recording_id"`
	TaskType     entities.TaskType            `json:"task_type"`
	RecordedAt   time.Time                    `json:"recorded_at"`
	Metrics      speechmetrics.Metrics        `json:"metrics"`
	Summary      *speechmetrics.Summary       `json:"summary"`
	JournalText  *string                      `json:"journal_text,omitempty"`
	BaselineID   *uuid.UUID                   `json:"baseline_id,omitempty"`
	BaselineDate *time.Time                   `json:"baseline_recorded_at,omitempty"`
	Change       *speechmetrics.ChangeSummary `json:"change,omitempty"`
}

// Averages are per-metric means over completed recordings
type Averages struct {
	SpeechRateWPM        float64 `json:"speech_rate_wpm"`
	MeanPauseDurationSec float64 `json:"mean_pause_duration_sec"`
	MLU                  float64 `json:"mlu"`
	TTR                  float64 `json:"ttr"`
	TotalWords           float64 `json:"total_words"`
}

// Stats is the dashboard view over a time window
type Stats struct {
	Days           int                          `json:"days"`
	Since          time.Time                    `json:"since"`
	RecordingCount int                          `json:"recording_count"`
	CompletedCount int                          `json:"completed_count"`
	Averages       *Averages                    `json:"averages,omitempty"`
	LevelCounts    map[speechmetrics.Level]int  `json:"level_counts"`
	LatestLevel    *speechmetrics.Level         `json:"latest_level,omitempty"`
	LatestAt       *time.Time                   `json:"latest_recorded_at,omitempty"`
	LatestChange   *speechmetrics.ChangeSummary `json:"latest_change,omitempty"`
}

type speechService struct {
	recordingRepo repositories.RecordingRepository
	analyzer      *speechmetrics.Analyzer
	cache         cache.Cache
	reportTTL     time.Duration
	logger        *zap.Logger
	now           func() time.Time
}

// NewService constructs the speech service
func NewService(
	recordingRepo repositories.RecordingRepository,
	analyzer *speechmetrics.Analyzer,
	c cache.Cache,
	reportTTL time.Duration,
	logger *zap.Logger,
) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &speechService{
		recordingRepo: recordingRepo,
		analyzer:      analyzer,
		cache:         c,
		reportTTL:     reportTTL,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *speechService) Analyze(words []speechmetrics.Word) Analysis {
	m := s.analyzer.Calculate(&speechmetrics.Transcript{Words: words})
	return Analysis{Metrics: m, Summary: s.analyzer.Summarize(&m)}
}

func (s *speechService) Summarize(m *speechmetrics.Metrics) *speechmetrics.Summary {
	return s.analyzer.Summarize(m)
}

func (s *speechService) Compare(baseline, current *speechmetrics.Metrics) *speechmetrics.ChangeSummary {
	return s.analyzer.EvaluateChange(baseline, current)
}

// completedRecording loads a recording owned by userID that has metrics.
// Recordings of other users are reported as not found.
func (s *speechService) completedRecording(ctx context.Context, userID, recordingID uuid.UUID) (*entities.SpeechRecording, error) {
	rec, err := s.recordingRepo.FindByID(ctx, recordingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recording: %w", err)
	}
	if rec == nil || rec.UserID != userID {
		return nil, ucErrors.ErrRecordingNotFound
	}
	if !rec.IsCompleted() {
		return nil, ucErrors.ErrRecordingNotAnalyzed
	}
	return rec, nil
}

func reportCacheKey(recordingID uuid.UUID, baseline *entities.SpeechRecording) string {
	baselineKey := "none"
	if baseline != nil {
		baselineKey = baseline.ID.String()
	}
	return fmt.Sprintf("speech:report:%s:%s", recordingID, baselineKey)
}

// Report returns metrics, summary and the change against the user's baseline.
// The cache key includes the baseline id so moving the baseline never serves
// a stale comparison.
func (s *speechService) Report(ctx context.Context, userID, recordingID uuid.UUID) (*Report, error) {
	rec, err := s.completedRecording(ctx, userID, recordingID)
	if err != nil {
		return nil, err
	}

	baseline, err := s.recordingRepo.FindBaseline(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load baseline: %w", err)
	}

	key := reportCacheKey(recordingID, baseline)
	if s.cache != nil {
		var cached Report
		found, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("report cache read failed", zap.String("key", key), zap.Error(err))
		} else if found {
			return &cached, nil
		}
	}

	report := &Report{
		RecordingID: rec.ID,
		TaskType:    rec.TaskType,
		RecordedAt:  rec.RecordedAt,
		Metrics:     *rec.Metrics,
		Summary:     s.analyzer.Summarize(rec.Metrics),
		JournalText: rec.JournalText,
	}

	if baseline != nil && baseline.ID != rec.ID && baseline.Metrics != nil {
		report.BaselineID = &baseline.ID
		report.BaselineDate = &baseline.RecordedAt
		report.Change = s.analyzer.EvaluateChange(baseline.Metrics, rec.Metrics)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, report, s.reportTTL); err != nil {
			s.logger.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return report, nil
}

// Bundle exports one analysed recording as a FHIR collection bundle
func (s *speechService) Bundle(ctx context.Context, userID, recordingID uuid.UUID) (*fhir.Bundle, error) {
	rec, err := s.completedRecording(ctx, userID, recordingID)
	if err != nil {
		return nil, err
	}

	bundle := fhir.BuildSpeechBundle(fhir.BundleInput{
		RecordingID: rec.ID,
		UserID:      rec.UserID,
		RecordedAt:  rec.RecordedAt,
		Metrics:     *rec.Metrics,
		Summary:     s.analyzer.Summarize(rec.Metrics),
	})
	return &bundle, nil
}

// Stats aggregates the user's recordings of the last days days
func (s *speechService) Stats(ctx context.Context, userID uuid.UUID, days int) (*Stats, error) {
	if days <= 0 {
		days = defaultStatsDays
	}
	if days > maxStatsDays {
		days = maxStatsDays
	}
	since := s.now().AddDate(0, 0, -days)

	recs, _, err := s.recordingRepo.List(ctx, repositories.RecordingFilters{
		UserID: userID,
		Since:  &since,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list recordings: %w", err)
	}

	stats := &Stats{
		Days:           days,
		Since:          since,
		RecordingCount: len(recs),
		LevelCounts:    map[speechmetrics.Level]int{},
	}

	var sum Averages
	var latest *entities.SpeechRecording
	for _, rec := range recs {
		if !rec.IsCompleted() {
			continue
		}
		stats.CompletedCount++
		m := rec.Metrics
		sum.SpeechRateWPM += m.SpeechRateWPM
		sum.MeanPauseDurationSec += m.MeanPauseDurationSec
		sum.MLU += m.MLU
		sum.TTR += m.TTR
		sum.TotalWords += float64(m.TotalWords)

		level := s.analyzer.Summarize(m).OverallLevel
		stats.LevelCounts[level]++

		if latest == nil || rec.RecordedAt.After(latest.RecordedAt) {
			latest = rec
		}
	}

	if stats.CompletedCount == 0 {
		return stats, nil
	}

	n := float64(stats.CompletedCount)
	stats.Averages = &Averages{
		SpeechRateWPM:        round(sum.SpeechRateWPM/n, 2),
		MeanPauseDurationSec: round(sum.MeanPauseDurationSec/n, 2),
		MLU:                  round(sum.MLU/n, 2),
		TTR:                  round(sum.TTR/n, 3),
		TotalWords:           round(sum.TotalWords/n, 2),
	}

	level := s.analyzer.Summarize(latest.Metrics).OverallLevel
	stats.LatestLevel = &level
	stats.LatestAt = &latest.RecordedAt

	baseline, err := s.recordingRepo.FindBaseline(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load baseline for stats", zap.String("user_id", userID.String()), zap.Error(err))
	} else if baseline != nil && baseline.ID != latest.ID && baseline.Metrics != nil {
		stats.LatestChange = s.analyzer.EvaluateChange(baseline.Metrics, latest.Metrics)
	}

	return stats, nil
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
