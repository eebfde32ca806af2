package recording

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/memory-care/internal/domain/entities"
	ucErrors "github.com/johnquangdev/memory-care/internal/usecase/errors"
	"github.com/johnquangdev/memory-care/pkg/ai"
	"github.com/johnquangdev/memory-care/pkg/jobcontext"
)

const transcriberModel = "assemblyai"

func newSubmitBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 30 * time.Second
	return bo
}

// webhookPayload is the body AssemblyAI posts when a transcript changes state
type webhookPayload struct {
	TranscriptID string `json:"transcript_id"`
	Status       string `json:"status"`
}

// SubmitJob claims a pending job and hands its audio to the transcriber.
// Upload and submission are retried with exponential backoff; when that gives
// up the job is requeued until its retry budget is spent.
func (s *recordingService) SubmitJob(ctx context.Context, jobID uuid.UUID) error {
	if s.transcriber == nil {
		return ucErrors.ErrTranscriberMissing
	}

	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to load job: %w", err)
	}
	if job == nil {
		return ucErrors.ErrJobNotFound
	}
	if !job.CanBeSubmitted() {
		return entities.ErrJobNotClaimable
	}

	won, err := s.jobRepo.Claim(ctx, job.ID, entities.AnalysisJobStatusPending, entities.AnalysisJobStatusSubmitted)
	if err != nil {
		return fmt.Errorf("failed to claim job: %w", err)
	}
	if !won {
		return entities.ErrJobNotClaimable
	}

	rec, err := s.recordingRepo.FindByID(ctx, job.RecordingID)
	if err != nil {
		return s.retryOrFail(ctx, job, fmt.Errorf("failed to load recording: %w", err))
	}
	if rec == nil {
		s.abandonJob(ctx, job, "recording no longer exists")
		return ucErrors.ErrRecordingNotFound
	}
	rec.MarkAsProcessing()
	if err := s.recordingRepo.Update(ctx, rec); err != nil {
		if stdErrors.Is(err, entities.ErrRecordingNotFound) {
			s.abandonJob(ctx, job, "recording no longer exists")
			return ucErrors.ErrRecordingNotFound
		}
		s.logger.Warn("failed to mark recording as processing",
			zap.String("recording_id", rec.ID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("📤 Submitting recording for transcription",
		zap.String("job_id", job.ID.String()),
		zap.String("recording_id", job.RecordingID.String()),
		zap.Int("retry_count", job.RetryCount),
	)

	var transcriptID string
	submitFn := func() error {
		audio, err := s.storage.OpenFile(ctx, job.ObjectName)
		if err != nil {
			return fmt.Errorf("failed to open audio: %w", err)
		}
		defer audio.Close()

		id, err := s.transcriber.Submit(ctx, audio)
		if err != nil {
			return err
		}
		transcriptID = id

		// the webhook can arrive within seconds, so the external id is stored
		// before anything else happens
		if err := s.jobRepo.MarkSubmitted(ctx, job.ID, transcriptID); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to store transcript id: %w", err))
		}
		return nil
	}

	if err := backoff.Retry(submitFn, backoff.WithContext(s.submitBackOff(), ctx)); err != nil {
		return s.retryOrFail(ctx, job, fmt.Errorf("failed to submit to transcriber: %w", err))
	}

	s.logger.Info("✅ Transcription submitted",
		zap.String("job_id", job.ID.String()),
		zap.String("transcript_id", transcriptID),
	)
	return nil
}

// retryOrFail requeues the job while it has retries left, otherwise fails
// the job and its recording. It returns cause.
func (s *recordingService) retryOrFail(ctx context.Context, job *entities.AnalysisJob, cause error) error {
	if job.IsRetryable() {
		s.logger.Warn("🔁 Requeueing job",
			zap.String("job_id", job.ID.String()),
			zap.Int("retry_count", job.RetryCount+1),
			zap.Error(cause),
		)
		if err := s.jobRepo.Requeue(ctx, job.ID, cause.Error()); err != nil {
			s.logger.Error("❌ Failed to requeue job", zap.String("job_id", job.ID.String()), zap.Error(err))
		}
		return cause
	}
	s.failJob(ctx, job, cause.Error())
	return cause
}

// failJob marks the job and its recording as failed
func (s *recordingService) failJob(ctx context.Context, job *entities.AnalysisJob, msg string) {
	s.logger.Error("❌ Analysis job failed",
		zap.String("job_id", job.ID.String()),
		zap.String("recording_id", job.RecordingID.String()),
		zap.String("error", msg),
	)
	if err := s.jobRepo.MarkFailed(ctx, job.ID, msg); err != nil {
		s.logger.Error("failed to mark job as failed", zap.String("job_id", job.ID.String()), zap.Error(err))
	}

	rec, err := s.recordingRepo.FindByID(ctx, job.RecordingID)
	if err != nil || rec == nil {
		return
	}
	rec.MarkAsFailed(msg)
	if err := s.recordingRepo.Update(ctx, rec); err != nil {
		if stdErrors.Is(err, entities.ErrRecordingNotFound) {
			s.logger.Info("recording deleted before it could be marked failed", zap.String("recording_id", rec.ID.String()))
			return
		}
		s.logger.Error("failed to mark recording as failed", zap.String("recording_id", rec.ID.String()), zap.Error(err))
	}
}

// abandonJob fails a job whose recording is gone. The recording is left
// alone.
func (s *recordingService) abandonJob(ctx context.Context, job *entities.AnalysisJob, msg string) {
	if err := s.jobRepo.MarkFailed(ctx, job.ID, msg); err != nil {
		s.logger.Error("failed to mark job as failed", zap.String("job_id", job.ID.String()), zap.Error(err))
	}
}

// HandleWebhook processes a transcript status callback. Callbacks for jobs
// that already left the submitted state are acknowledged and ignored.
func (s *recordingService) HandleWebhook(ctx context.Context, payload []byte, token string) error {
	if !ai.VerifyWebhookToken(s.cfg.Assembly.WebhookSecret, token) {
		s.logger.Warn("invalid webhook token from AssemblyAI")
		return ucErrors.ErrInvalidSignature
	}

	var body webhookPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return fmt.Errorf("%w: %v", ucErrors.ErrInvalidInput, err)
	}
	if body.TranscriptID == "" {
		return fmt.Errorf("%w: transcript_id missing", ucErrors.ErrInvalidInput)
	}

	s.logger.Info("📥 Received AssemblyAI webhook",
		zap.String("transcript_id", body.TranscriptID),
		zap.String("status", body.Status),
	)

	job, err := s.jobRepo.FindByExternalID(ctx, body.TranscriptID)
	if err != nil {
		return fmt.Errorf("failed to find job: %w", err)
	}
	if job == nil {
		return ucErrors.ErrJobNotFound
	}
	if job.Status != entities.AnalysisJobStatusSubmitted {
		s.logger.Info("⏭️ Webhook for job already handled",
			zap.String("job_id", job.ID.String()),
			zap.String("status", string(job.Status)),
		)
		return nil
	}

	switch body.Status {
	case ai.StatusCompleted:
		return s.storeTranscript(ctx, job, body.TranscriptID)
	case ai.StatusError:
		msg := "transcription failed"
		if s.transcriber != nil {
			if result, err := s.transcriber.GetTranscript(ctx, body.TranscriptID); err == nil && result.Error != "" {
				msg = fmt.Sprintf("transcription failed: %s", result.Error)
			}
		}
		s.failJob(ctx, job, msg)
	}
	return nil
}

// storeTranscript fetches the finished transcript, persists it and queues the
// job for analysis
func (s *recordingService) storeTranscript(ctx context.Context, job *entities.AnalysisJob, transcriptID string) error {
	if s.transcriber == nil {
		return ucErrors.ErrTranscriberMissing
	}

	result, err := s.transcriber.GetTranscript(ctx, transcriptID)
	if err != nil {
		return fmt.Errorf("%w: %w", ucErrors.ErrTranscriptFetch, err)
	}
	if result.Status != ai.StatusCompleted {
		return fmt.Errorf("transcript %s is %s", transcriptID, result.Status)
	}

	t := entities.NewTranscript(job.RecordingID)
	t.ExternalID = result.ID
	t.Text = result.Text
	t.Language = result.LanguageCode
	t.ConfidenceScore = result.Confidence
	t.AudioDurationSec = result.AudioDurationSec
	t.ModelUsed = transcriberModel
	t.Words = make([]entities.WordTimestamp, 0, len(result.Words))
	for _, w := range result.Words {
		t.Words = append(t.Words, entities.WordTimestamp{
			Word:       w.Text,
			Start:      w.StartSec,
			End:        w.EndSec,
			Confidence: w.Confidence,
		})
	}

	if err := s.transcriptRepo.Save(ctx, t); err != nil {
		return fmt.Errorf("failed to store transcript: %w", err)
	}
	if err := s.jobRepo.MarkTranscriptReady(ctx, job.ID, t.ID); err != nil {
		return fmt.Errorf("failed to mark transcript ready: %w", err)
	}

	s.logger.Info("✅ Transcript stored",
		zap.String("job_id", job.ID.String()),
		zap.String("recording_id", job.RecordingID.String()),
		zap.Int("word_count", len(t.Words)),
	)

	wake(s.analyzeWake)
	return nil
}

// analyze computes the metrics of a transcript-ready job and completes the
// recording. The first analysed recording of a user becomes the baseline.
func (s *recordingService) analyze(ctx context.Context, job *entities.AnalysisJob) error {
	started := time.Now()

	transcript, err := s.transcriptRepo.FindByRecordingID(ctx, job.RecordingID)
	if err != nil {
		return jobcontext.Transient(fmt.Errorf("failed to load transcript: %w", err))
	}
	if transcript == nil {
		return fmt.Errorf("transcript missing for recording %s", job.RecordingID)
	}

	rec, err := s.recordingRepo.FindByID(ctx, job.RecordingID)
	if err != nil {
		return jobcontext.Transient(fmt.Errorf("failed to load recording: %w", err))
	}
	if rec == nil {
		return ucErrors.ErrRecordingNotFound
	}

	metrics := s.analyzer.Calculate(transcript.MetricsInput())
	summary := s.analyzer.Summarize(&metrics)

	if rec.TaskType == entities.TaskTypeConversation && s.journal != nil && transcript.Text != "" {
		entry, err := s.journal.GenerateJournal(ctx, transcript.Text)
		if err != nil {
			s.logger.Warn("⚠️ Journal generation failed",
				zap.String("recording_id", rec.ID.String()),
				zap.Error(err),
			)
		} else {
			rec.JournalText = &entry
		}
	}

	rec.DurationSec = transcript.AudioDurationSec
	rec.MarkAsCompleted(metrics, summary.OverallLevel)
	if err := s.recordingRepo.Update(ctx, rec); err != nil {
		if stdErrors.Is(err, entities.ErrRecordingNotFound) {
			return ucErrors.ErrRecordingNotFound
		}
		return jobcontext.Transient(fmt.Errorf("failed to store metrics: %w", err))
	}

	baseline, err := s.recordingRepo.FindBaseline(ctx, rec.UserID)
	if err != nil {
		s.logger.Warn("failed to look up baseline", zap.String("user_id", rec.UserID.String()), zap.Error(err))
	} else if baseline == nil {
		if err := s.recordingRepo.SetBaseline(ctx, rec.UserID, rec.ID); err != nil {
			s.logger.Warn("failed to set first baseline", zap.String("recording_id", rec.ID.String()), zap.Error(err))
		} else {
			s.logger.Info("📌 First recording set as baseline", zap.String("recording_id", rec.ID.String()))
		}
	}

	meta := entities.AnalysisJobMetadata{
		Language:         transcript.Language,
		WordCount:        metrics.TotalWords,
		ProcessingTimeMs: time.Since(started).Milliseconds(),
	}
	if err := s.jobRepo.MarkCompleted(ctx, job.ID, meta); err != nil {
		return jobcontext.Transient(fmt.Errorf("failed to complete job: %w", err))
	}

	s.logger.Info("✅ Recording analysed",
		zap.String("recording_id", rec.ID.String()),
		zap.Float64("speech_rate_wpm", metrics.SpeechRateWPM),
		zap.Int("total_words", metrics.TotalWords),
		zap.String("overall_level", string(summary.OverallLevel)),
	)
	return nil
}
