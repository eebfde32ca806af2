package recording

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"sync"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/memory-care/internal/domain/entities"
	"github.com/johnquangdev/memory-care/internal/domain/repositories"
	ucErrors "github.com/johnquangdev/memory-care/internal/usecase/errors"
	"github.com/johnquangdev/memory-care/pkg/ai"
	"github.com/johnquangdev/memory-care/pkg/config"
	"github.com/johnquangdev/memory-care/pkg/speechmetrics"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	fileURLExpiry    = time.Hour
)

// audioExtensions maps accepted audio content types to object extensions
var audioExtensions = map[string]string{
	"audio/wav":    ".wav",
	"audio/wave":   ".wav",
	"audio/x-wav":  ".wav",
	"audio/mpeg":   ".mp3",
	"audio/mp3":    ".mp3",
	"audio/mp4":    ".m4a",
	"audio/m4a":    ".m4a",
	"audio/x-m4a":  ".m4a",
	"audio/aac":    ".aac",
	"audio/webm":   ".webm",
	"audio/ogg":    ".ogg",
	"audio/flac":   ".flac",
	"audio/x-flac": ".flac",
}

// ObjectStorage stores the uploaded audio
type ObjectStorage interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	OpenFile(ctx context.Context, objectName string) (io.ReadCloser, error)
	RemoveFile(ctx context.Context, objectName string) error
	GetFileURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// Transcriber turns audio into timed words
type Transcriber interface {
	Submit(ctx context.Context, audio io.Reader) (string, error)
	GetTranscript(ctx context.Context, transcriptID string) (*ai.TranscriptResult, error)
}

// JournalWriter writes a diary entry from a conversation transcript
type JournalWriter interface {
	GenerateJournal(ctx context.Context, transcript string) (string, error)
}

// UploadInput describes one uploaded speech sample
type UploadInput struct {
	UserID      uuid.UUID
	TaskType    string
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
	RecordedAt  *time.Time
}

// ListInput holds list filters and pagination
type ListInput struct {
	TaskType string
	Status   string
	Limit    int
	Offset   int
}

// Service manages speech recordings and their transcription pipeline
type Service interface {
	Upload(ctx context.Context, in UploadInput) (*entities.SpeechRecording, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*entities.SpeechRecording, error)
	List(ctx context.Context, userID uuid.UUID, in ListInput) ([]*entities.SpeechRecording, int64, error)
	SetBaseline(ctx context.Context, userID, id uuid.UUID) (*entities.SpeechRecording, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error

	SubmitJob(ctx context.Context, jobID uuid.UUID) error
	HandleWebhook(ctx context.Context, payload []byte, token string) error
	StartWorkerPool(ctx context.Context) error
	StopWorkerPool() error
}

type recordingService struct {
	recordingRepo  repositories.RecordingRepository
	jobRepo        repositories.AnalysisJobRepository
	transcriptRepo repositories.TranscriptRepository
	storage        ObjectStorage
	transcriber    Transcriber
	journal        JournalWriter
	analyzer       *speechmetrics.Analyzer
	cfg            *config.Config
	logger         *zap.Logger
	submitBackOff  func() backoff.BackOff

	submitWake          chan struct{}
	analyzeWake         chan struct{}
	workerStopChan      chan struct{}
	workerWg            sync.WaitGroup
	isWorkerPoolRunning bool
	workerMutex         sync.Mutex
}

// NewService constructs the recording service. transcriber and journal may
// be nil when the providers are not configured.
func NewService(
	recordingRepo repositories.RecordingRepository,
	jobRepo repositories.AnalysisJobRepository,
	transcriptRepo repositories.TranscriptRepository,
	storage ObjectStorage,
	transcriber Transcriber,
	journal JournalWriter,
	analyzer *speechmetrics.Analyzer,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &recordingService{
		recordingRepo:  recordingRepo,
		jobRepo:        jobRepo,
		transcriptRepo: transcriptRepo,
		storage:        storage,
		transcriber:    transcriber,
		journal:        journal,
		analyzer:       analyzer,
		cfg:            cfg,
		logger:         logger,
		submitBackOff:  newSubmitBackOff,
		submitWake:     make(chan struct{}, 1),
		analyzeWake:    make(chan struct{}, 1),
		workerStopChan: make(chan struct{}),
	}
}

// audioExtension resolves the object extension from the content type, or
// from the file name when the client sent a generic type.
func audioExtension(contentType, filename string) (string, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err == nil {
		if ext, ok := audioExtensions[strings.ToLower(mediaType)]; ok {
			return ext, true
		}
	}
	if contentType == "" || mediaType == "application/octet-stream" {
		ext := strings.ToLower(filepath.Ext(filename))
		for _, known := range audioExtensions {
			if known == ext {
				return ext, true
			}
		}
	}
	return "", false
}

func objectName(userID, recordingID uuid.UUID, ext string) string {
	return fmt.Sprintf("recordings/%s/%s%s", userID, recordingID, ext)
}

// Upload stores the audio and queues it for transcription
func (s *recordingService) Upload(ctx context.Context, in UploadInput) (*entities.SpeechRecording, error) {
	taskType := entities.TaskType(strings.ToLower(strings.TrimSpace(in.TaskType)))
	if !taskType.Valid() {
		return nil, ucErrors.ErrInvalidTaskType
	}
	if in.Reader == nil || in.Size == 0 {
		return nil, ucErrors.ErrEmptyAudio
	}
	ext, ok := audioExtension(in.ContentType, in.Filename)
	if !ok {
		return nil, ucErrors.ErrUnsupportedAudio
	}

	rec := entities.NewSpeechRecording(in.UserID, taskType)
	if in.RecordedAt != nil && !in.RecordedAt.IsZero() {
		rec.RecordedAt = *in.RecordedAt
	}
	rec.ObjectName = objectName(in.UserID, rec.ID, ext)
	rec.ContentType = in.ContentType
	rec.FileSize = in.Size
	if in.Filename != "" {
		rec.Metadata["original_filename"] = in.Filename
	}

	if err := s.storage.UploadFile(ctx, rec.ObjectName, in.Reader, in.Size, in.ContentType); err != nil {
		return nil, fmt.Errorf("%w: %w", ucErrors.ErrAudioStoreFailed, err)
	}

	if err := s.recordingRepo.Create(ctx, rec); err != nil {
		if rmErr := s.storage.RemoveFile(ctx, rec.ObjectName); rmErr != nil {
			s.logger.Warn("failed to remove orphaned audio",
				zap.String("object", rec.ObjectName),
				zap.Error(rmErr),
			)
		}
		return nil, fmt.Errorf("failed to create recording: %w", err)
	}

	job := entities.NewAnalysisJob(rec, s.cfg.Worker.MaxRetries)
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create analysis job: %w", err)
	}

	s.logger.Info("🎙️ Recording uploaded",
		zap.String("recording_id", rec.ID.String()),
		zap.String("user_id", rec.UserID.String()),
		zap.String("task_type", string(rec.TaskType)),
		zap.Int64("size", rec.FileSize),
	)

	wake(s.submitWake)
	s.fillFileURL(ctx, rec)
	return rec, nil
}

// owned loads a recording of userID. Recordings of other users are reported
// as not found.
func (s *recordingService) owned(ctx context.Context, userID, id uuid.UUID) (*entities.SpeechRecording, error) {
	rec, err := s.recordingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load recording: %w", err)
	}
	if rec == nil || rec.UserID != userID {
		return nil, ucErrors.ErrRecordingNotFound
	}
	return rec, nil
}

func (s *recordingService) fillFileURL(ctx context.Context, rec *entities.SpeechRecording) {
	url, err := s.storage.GetFileURL(ctx, rec.ObjectName, fileURLExpiry)
	if err != nil {
		s.logger.Warn("failed to presign audio URL",
			zap.String("recording_id", rec.ID.String()),
			zap.Error(err),
		)
		return
	}
	rec.FileURL = url
}

func (s *recordingService) Get(ctx context.Context, userID, id uuid.UUID) (*entities.SpeechRecording, error) {
	rec, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	s.fillFileURL(ctx, rec)
	return rec, nil
}

func (s *recordingService) List(ctx context.Context, userID uuid.UUID, in ListInput) ([]*entities.SpeechRecording, int64, error) {
	filters := repositories.RecordingFilters{
		UserID: userID,
		Limit:  in.Limit,
		Offset: in.Offset,
	}
	if filters.Limit <= 0 {
		filters.Limit = defaultListLimit
	}
	if filters.Limit > maxListLimit {
		filters.Limit = maxListLimit
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}
	if in.TaskType != "" {
		taskType := entities.TaskType(in.TaskType)
		if !taskType.Valid() {
			return nil, 0, ucErrors.ErrInvalidTaskType
		}
		filters.TaskType = &taskType
	}
	if in.Status != "" {
		status := entities.RecordingStatus(in.Status)
		filters.Status = &status
	}

	recs, total, err := s.recordingRepo.List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recordings: %w", err)
	}
	for _, rec := range recs {
		s.fillFileURL(ctx, rec)
	}
	return recs, total, nil
}

// SetBaseline makes an analysed recording the user's only baseline
func (s *recordingService) SetBaseline(ctx context.Context, userID, id uuid.UUID) (*entities.SpeechRecording, error) {
	rec, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !rec.IsCompleted() {
		return nil, ucErrors.ErrRecordingNotAnalyzed
	}

	if err := s.recordingRepo.SetBaseline(ctx, userID, id); err != nil {
		if stdErrors.Is(err, entities.ErrRecordingNotCompleted) {
			return nil, ucErrors.ErrRecordingNotAnalyzed
		}
		return nil, fmt.Errorf("failed to set baseline: %w", err)
	}
	rec.IsBaseline = true

	s.logger.Info("📌 Baseline updated",
		zap.String("user_id", userID.String()),
		zap.String("recording_id", id.String()),
	)
	s.fillFileURL(ctx, rec)
	return rec, nil
}

// Delete removes the recording row, its jobs and transcript, then the audio
func (s *recordingService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	rec, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.recordingRepo.Delete(ctx, rec.ID); err != nil {
		return fmt.Errorf("failed to delete recording: %w", err)
	}
	if err := s.storage.RemoveFile(ctx, rec.ObjectName); err != nil {
		s.logger.Warn("failed to remove audio object",
			zap.String("recording_id", rec.ID.String()),
			zap.String("object", rec.ObjectName),
			zap.Error(err),
		)
	}

	s.logger.Info("🗑️ Recording deleted", zap.String("recording_id", rec.ID.String()))
	return nil
}

// wake nudges a worker without blocking when one is already pending
func wake(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
