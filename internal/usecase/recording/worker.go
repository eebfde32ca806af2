package recording

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/memory-care/internal/domain/entities"
	ucErrors "github.com/johnquangdev/memory-care/internal/usecase/errors"
	"github.com/johnquangdev/memory-care/pkg/ai"
	"github.com/johnquangdev/memory-care/pkg/jobcontext"
)

const (
	pendingBatchSize    = 5
	maintenanceInterval = 2 * time.Minute
	webhookTimeout      = 10 * time.Minute
	analysisWorkerID    = 0
)

// StartWorkerPool starts the pending-job submitter, the single analysis
// worker and the maintenance loop
func (s *recordingService) StartWorkerPool(ctx context.Context) error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if s.isWorkerPoolRunning {
		return ucErrors.ErrWorkerPoolRunning
	}

	s.isWorkerPoolRunning = true
	s.workerStopChan = make(chan struct{})

	s.logger.Info("🚀 Starting recording worker pool",
		zap.Duration("poll_interval", s.pollInterval()),
	)

	s.workerWg.Add(3)
	go s.pendingJobWorker(ctx)
	go s.analysisWorker(ctx)
	go s.maintenanceWorker(ctx)

	// pick up whatever was queued before a restart
	wake(s.submitWake)
	wake(s.analyzeWake)

	return nil
}

func (s *recordingService) StopWorkerPool() error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if !s.isWorkerPoolRunning {
		return ucErrors.ErrWorkerPoolNotRunning
	}

	s.logger.Info("🛑 Stopping recording worker pool...")

	close(s.workerStopChan)
	s.workerWg.Wait()
	s.isWorkerPoolRunning = false

	s.logger.Info("✅ Recording worker pool stopped")
	return nil
}

func (s *recordingService) pollInterval() time.Duration {
	if s.cfg.Worker.PollInterval > 0 {
		return s.cfg.Worker.PollInterval
	}
	return 15 * time.Second
}

// pendingJobWorker submits pending jobs to the transcriber
func (s *recordingService) pendingJobWorker(ctx context.Context) {
	defer s.workerWg.Done()

	ticker := time.NewTicker(s.pollInterval())
	defer ticker.Stop()

	s.logger.Info("👷 Pending job worker started")

	for {
		select {
		case <-s.workerStopChan:
			s.logger.Info("👷 Pending job worker stopping")
			return
		case <-ticker.C:
		case <-s.submitWake:
		}
		s.submitPending(ctx)
	}
}

func (s *recordingService) submitPending(ctx context.Context) {
	if s.transcriber == nil {
		return
	}

	jobs, err := s.jobRepo.ListByStatus(ctx, entities.AnalysisJobStatusPending, pendingBatchSize)
	if err != nil {
		s.logger.Error("❌ Failed to poll pending jobs", zap.Error(err))
		return
	}

	for _, job := range jobs {
		err := s.SubmitJob(ctx, job.ID)
		switch {
		case err == nil:
		case stdErrors.Is(err, entities.ErrJobNotClaimable):
			s.logger.Info("⏭️ Job already claimed", zap.String("job_id", job.ID.String()))
		case stdErrors.Is(err, ucErrors.ErrRecordingNotFound):
			s.logger.Info("🗑️ Recording removed before submission", zap.String("job_id", job.ID.String()))
		default:
			s.logger.Error("❌ Failed to submit job",
				zap.String("job_id", job.ID.String()),
				zap.Error(err),
			)
		}
	}
}

// analysisWorker is the only consumer of transcript-ready jobs, so at most
// one analysis runs at a time
func (s *recordingService) analysisWorker(ctx context.Context) {
	defer s.workerWg.Done()

	ticker := time.NewTicker(s.pollInterval())
	defer ticker.Stop()

	s.logger.Info("👷 Analysis worker started")

	for {
		select {
		case <-s.workerStopChan:
			s.logger.Info("👷 Analysis worker stopping")
			return
		case <-ticker.C:
		case <-s.analyzeWake:
		}
		if s.analyzeNext(ctx) {
			// drain the queue one job at a time
			wake(s.analyzeWake)
		}
	}
}

// analyzeNext claims and runs the oldest transcript-ready job. It reports
// whether a job was processed.
func (s *recordingService) analyzeNext(ctx context.Context) bool {
	jobs, err := s.jobRepo.ListByStatus(ctx, entities.AnalysisJobStatusTranscriptReady, 1)
	if err != nil {
		s.logger.Error("❌ Failed to poll transcript-ready jobs", zap.Error(err))
		return false
	}
	if len(jobs) == 0 {
		return false
	}
	job := jobs[0]

	won, err := s.jobRepo.Claim(ctx, job.ID, entities.AnalysisJobStatusTranscriptReady, entities.AnalysisJobStatusAnalyzing)
	if err != nil {
		s.logger.Error("❌ Failed to claim job", zap.String("job_id", job.ID.String()), zap.Error(err))
		return false
	}
	if !won {
		return true
	}

	s.logger.Info("👷 Analysing recording",
		zap.String("job_id", job.ID.String()),
		zap.String("recording_id", job.RecordingID.String()),
	)

	jobCtx, cancel := jobcontext.JobBegin(ctx, job.ID, jobcontext.JobTypeAnalyze, analysisWorkerID, jobcontext.Options{
		Timeout:    s.cfg.Worker.JobTimeout,
		MaxRetries: s.cfg.Worker.MaxRetries,
	})
	err = jobcontext.JobEnd(jobCtx, func(ctx context.Context) error {
		if meta := jobcontext.GetJobMetadata(ctx); meta.RetryAttempt > 0 {
			s.logger.Warn("🔁 Retrying analysis",
				zap.String("job_id", meta.JobID.String()),
				zap.Int("worker_id", meta.WorkerID),
				zap.Int("attempt", meta.RetryAttempt),
				zap.Int("max_retries", meta.MaxRetries),
			)
		}
		return s.analyze(ctx, job)
	})
	meta := jobcontext.GetJobMetadata(jobCtx)
	cancel()

	switch {
	case err == nil:
	case stdErrors.Is(err, ucErrors.ErrRecordingNotFound):
		// deleted while the job was running
		s.logger.Info("🗑️ Recording removed during analysis",
			zap.String("job_id", meta.JobID.String()),
			zap.String("recording_id", job.RecordingID.String()),
		)
		s.abandonJob(ctx, job, "recording no longer exists")
	default:
		s.logger.Error("❌ Analysis failed",
			zap.String("job_id", meta.JobID.String()),
			zap.String("job_type", meta.JobType),
			zap.Int("worker_id", meta.WorkerID),
			zap.Duration("elapsed", time.Since(meta.StartTime)),
			zap.Error(err),
		)
		s.failJob(ctx, job, err.Error())
	}
	return true
}

// maintenanceWorker recovers jobs left behind by crashes and missed webhooks
func (s *recordingService) maintenanceWorker(ctx context.Context) {
	defer s.workerWg.Done()

	ticker := time.NewTicker(maintenanceInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.workerStopChan:
			return
		case <-ticker.C:
			s.resetStaleAnalyses(ctx)
			s.pollStuckSubmissions(ctx)
		}
	}
}

func (s *recordingService) resetStaleAnalyses(ctx context.Context) {
	staleAfter := 2 * s.cfg.Worker.JobTimeout
	if staleAfter <= 0 {
		staleAfter = 2 * jobcontext.DefaultOptions.Timeout
	}

	n, err := s.jobRepo.ResetStale(ctx, entities.AnalysisJobStatusAnalyzing, entities.AnalysisJobStatusTranscriptReady, staleAfter)
	if err != nil {
		s.logger.Error("❌ Failed to reset stale analyses", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Warn("🧹 Reset stale analysis jobs", zap.Int64("count", n))
		wake(s.analyzeWake)
	}
}

// pollStuckSubmissions asks the transcriber about jobs whose webhook never
// arrived
func (s *recordingService) pollStuckSubmissions(ctx context.Context) {
	if s.transcriber == nil {
		return
	}

	jobs, err := s.jobRepo.ListByStatus(ctx, entities.AnalysisJobStatusSubmitted, 20)
	if err != nil {
		s.logger.Error("❌ Failed to query submitted jobs", zap.Error(err))
		return
	}

	cutoff := time.Now().Add(-webhookTimeout)
	for _, job := range jobs {
		if job.UpdatedAt.After(cutoff) {
			continue
		}

		if job.ExternalJobID == nil || *job.ExternalJobID == "" {
			// claimed but never handed over
			s.retryOrFail(ctx, job, fmt.Errorf("submission did not complete"))
			wake(s.submitWake)
			continue
		}

		transcriptID := *job.ExternalJobID
		result, err := s.transcriber.GetTranscript(ctx, transcriptID)
		if err != nil {
			s.logger.Warn("failed to poll transcript",
				zap.String("transcript_id", transcriptID),
				zap.Error(err),
			)
			continue
		}

		switch result.Status {
		case ai.StatusCompleted:
			s.logger.Info("✅ Transcript completed (webhook missed)",
				zap.String("job_id", job.ID.String()),
				zap.String("transcript_id", transcriptID),
			)
			if err := s.storeTranscript(ctx, job, transcriptID); err != nil {
				s.failJob(ctx, job, fmt.Sprintf("failed to process transcript: %v", err))
			}
		case ai.StatusError:
			s.failJob(ctx, job, fmt.Sprintf("transcription failed: %s", result.Error))
		default:
			s.logger.Info("⏳ Transcript still processing",
				zap.String("job_id", job.ID.String()),
				zap.String("status", result.Status),
			)
		}
	}
}
