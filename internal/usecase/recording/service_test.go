package recording

import (
	"bytes"
	"context"
	stdErrors "errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/johnquangdev/memory-care/internal/domain/entities"
	"github.com/johnquangdev/memory-care/internal/domain/repositories"
	ucErrors "github.com/johnquangdev/memory-care/internal/usecase/errors"
	"github.com/johnquangdev/memory-care/pkg/ai"
	"github.com/johnquangdev/memory-care/pkg/config"
	"github.com/johnquangdev/memory-care/pkg/speechmetrics"
)

// fakes

type fakeRecordings struct {
	mu   sync.Mutex
	recs map[uuid.UUID]*entities.SpeechRecording
	// runs before Update takes the lock
	beforeUpdate func(id uuid.UUID)
}

func (f *fakeRecordings) Create(_ context.Context, rec *entities.SpeechRecording) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs[rec.ID] = rec
	return nil
}

func (f *fakeRecordings) FindByID(_ context.Context, id uuid.UUID) (*entities.SpeechRecording, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.recs[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeRecordings) FindBaseline(_ context.Context, userID uuid.UUID) (*entities.SpeechRecording, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.recs {
		if rec.UserID == userID && rec.IsBaseline {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRecordings) List(_ context.Context, filters repositories.RecordingFilters) ([]*entities.SpeechRecording, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.SpeechRecording
	for _, rec := range f.recs {
		if rec.UserID == filters.UserID {
			out = append(out, rec)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRecordings) Update(_ context.Context, rec *entities.SpeechRecording) error {
	if f.beforeUpdate != nil {
		f.beforeUpdate(rec.ID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.recs[rec.ID]; !ok {
		return entities.ErrRecordingNotFound
	}
	cp := *rec
	f.recs[rec.ID] = &cp
	return nil
}

func (f *fakeRecordings) SetBaseline(_ context.Context, userID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	target, ok := f.recs[id]
	if !ok || target.Status != entities.RecordingStatusCompleted {
		return entities.ErrRecordingNotCompleted
	}
	for _, rec := range f.recs {
		if rec.UserID == userID {
			rec.IsBaseline = rec.ID == id
		}
	}
	return nil
}

func (f *fakeRecordings) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.recs, id)
	return nil
}

func (f *fakeRecordings) get(id uuid.UUID) *entities.SpeechRecording {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recs[id]
}

type fakeJobs struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*entities.AnalysisJob
}

func (f *fakeJobs) Create(_ context.Context, job *entities.AnalysisJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs[job.ID] = job
	return nil
}

func (f *fakeJobs) find(match func(*entities.AnalysisJob) bool) *entities.AnalysisJob {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, job := range f.jobs {
		if match(job) {
			cp := *job
			return &cp
		}
	}
	return nil
}

func (f *fakeJobs) FindByID(_ context.Context, id uuid.UUID) (*entities.AnalysisJob, error) {
	return f.find(func(j *entities.AnalysisJob) bool { return j.ID == id }), nil
}

func (f *fakeJobs) FindByExternalID(_ context.Context, externalID string) (*entities.AnalysisJob, error) {
	return f.find(func(j *entities.AnalysisJob) bool {
		return j.ExternalJobID != nil && *j.ExternalJobID == externalID
	}), nil
}

func (f *fakeJobs) FindLatestByRecording(_ context.Context, recordingID uuid.UUID) (*entities.AnalysisJob, error) {
	return f.find(func(j *entities.AnalysisJob) bool { return j.RecordingID == recordingID }), nil
}

func (f *fakeJobs) ListByStatus(_ context.Context, status entities.AnalysisJobStatus, limit int) ([]*entities.AnalysisJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.AnalysisJob
	for _, job := range f.jobs {
		if job.Status == status && len(out) < limit {
			cp := *job
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeJobs) update(id uuid.UUID, fn func(*entities.AnalysisJob)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if job, ok := f.jobs[id]; ok {
		fn(job)
		job.UpdatedAt = time.Now()
	}
	return nil
}

func (f *fakeJobs) Claim(_ context.Context, id uuid.UUID, from, to entities.AnalysisJobStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok || job.Status != from {
		return false, nil
	}
	job.Status = to
	return true, nil
}

func (f *fakeJobs) MarkSubmitted(_ context.Context, id uuid.UUID, externalID string) error {
	return f.update(id, func(j *entities.AnalysisJob) {
		j.Status = entities.AnalysisJobStatusSubmitted
		j.ExternalJobID = &externalID
	})
}

func (f *fakeJobs) MarkTranscriptReady(_ context.Context, id, transcriptID uuid.UUID) error {
	return f.update(id, func(j *entities.AnalysisJob) {
		j.Status = entities.AnalysisJobStatusTranscriptReady
		j.TranscriptID = &transcriptID
	})
}

func (f *fakeJobs) MarkCompleted(_ context.Context, id uuid.UUID, meta entities.AnalysisJobMetadata) error {
	return f.update(id, func(j *entities.AnalysisJob) {
		j.Status = entities.AnalysisJobStatusCompleted
		j.Metadata = meta
	})
}

func (f *fakeJobs) MarkFailed(_ context.Context, id uuid.UUID, errMsg string) error {
	return f.update(id, func(j *entities.AnalysisJob) {
		j.Status = entities.AnalysisJobStatusFailed
		j.LastError = &errMsg
	})
}

func (f *fakeJobs) Requeue(_ context.Context, id uuid.UUID, errMsg string) error {
	return f.update(id, func(j *entities.AnalysisJob) {
		j.Status = entities.AnalysisJobStatusPending
		j.RetryCount++
		j.LastError = &errMsg
	})
}

func (f *fakeJobs) ResetStale(_ context.Context, status, target entities.AnalysisJobStatus, olderThan time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, job := range f.jobs {
		if job.Status == status && job.UpdatedAt.Before(time.Now().Add(-olderThan)) {
			job.Status = target
			n++
		}
	}
	return n, nil
}

type fakeTranscripts struct {
	mu    sync.Mutex
	byRec map[uuid.UUID]*entities.Transcript
}

func (f *fakeTranscripts) Save(_ context.Context, t *entities.Transcript) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byRec[t.RecordingID] = t
	return nil
}

func (f *fakeTranscripts) FindByID(_ context.Context, id uuid.UUID) (*entities.Transcript, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.byRec {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeTranscripts) FindByRecordingID(_ context.Context, recordingID uuid.UUID) (*entities.Transcript, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byRec[recordingID], nil
}

type fakeStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
}

func (f *fakeStorage) UploadFile(_ context.Context, name string, r io.Reader, _ int64, _ string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[name] = data
	return nil
}

func (f *fakeStorage) OpenFile(_ context.Context, name string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[name]
	if !ok {
		return nil, stdErrors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStorage) RemoveFile(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, name)
	return nil
}

func (f *fakeStorage) GetFileURL(_ context.Context, name string, _ time.Duration) (string, error) {
	return "https://files.example/" + name, nil
}

type fakeTranscriber struct {
	submitErr error
	result    *ai.TranscriptResult
}

func (f *fakeTranscriber) Submit(_ context.Context, audio io.Reader) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	if _, err := io.ReadAll(audio); err != nil {
		return "", err
	}
	return "tx-1", nil
}

func (f *fakeTranscriber) GetTranscript(_ context.Context, id string) (*ai.TranscriptResult, error) {
	if f.result == nil {
		return nil, stdErrors.New("no transcript")
	}
	return f.result, nil
}

type fakeJournal struct{ calls int }

func (f *fakeJournal) GenerateJournal(_ context.Context, transcript string) (string, error) {
	f.calls++
	return "오늘의 일기: " + transcript, nil
}

// helpers

type harness struct {
	svc         *recordingService
	recs        *fakeRecordings
	jobs        *fakeJobs
	transcripts *fakeTranscripts
	storage     *fakeStorage
	transcriber *fakeTranscriber
	journal     *fakeJournal
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		recs:        &fakeRecordings{recs: map[uuid.UUID]*entities.SpeechRecording{}},
		jobs:        &fakeJobs{jobs: map[uuid.UUID]*entities.AnalysisJob{}},
		transcripts: &fakeTranscripts{byRec: map[uuid.UUID]*entities.Transcript{}},
		storage:     &fakeStorage{objects: map[string][]byte{}},
		transcriber: &fakeTranscriber{},
		journal:     &fakeJournal{},
	}
	cfg := &config.Config{
		Assembly: config.AssemblyAIConfig{WebhookSecret: "hook-secret"},
		Worker:   config.WorkerConfig{PollInterval: time.Hour, JobTimeout: 5 * time.Second, MaxRetries: 2},
	}
	svc := NewService(h.recs, h.jobs, h.transcripts, h.storage, h.transcriber, h.journal,
		speechmetrics.New(speechmetrics.DefaultThresholds()), cfg, nil).(*recordingService)
	svc.submitBackOff = func() backoff.BackOff { return &backoff.StopBackOff{} }
	h.svc = svc
	return h
}

func (h *harness) upload(t *testing.T, user uuid.UUID, taskType string) *entities.SpeechRecording {
	t.Helper()
	audio := "RIFF....WAVE"
	rec, err := h.svc.Upload(context.Background(), UploadInput{
		UserID:      user,
		TaskType:    taskType,
		Filename:    "sample.wav",
		ContentType: "audio/wav",
		Size:        int64(len(audio)),
		Reader:      strings.NewReader(audio),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	return rec
}

func ptr(v float64) *float64 { return &v }

// sixty words, one per second with a 0.6s gap after every tenth word
func sampleResult() *ai.TranscriptResult {
	var words []ai.TranscriptWord
	var text []string
	at := 0.0
	for i := 0; i < 60; i++ {
		w := "단어" + string(rune('가'+i))
		words = append(words, ai.TranscriptWord{Text: w, StartSec: ptr(at), EndSec: ptr(at + 0.4), Confidence: 0.9})
		text = append(text, w)
		at += 0.4
		if i%10 == 9 {
			at += 0.6
		}
	}
	return &ai.TranscriptResult{
		ID:               "tx-1",
		Status:           ai.StatusCompleted,
		Text:             strings.Join(text, " "),
		LanguageCode:     "ko",
		AudioDurationSec: at,
		Words:            words,
	}
}

// tests

func TestUpload(t *testing.T) {
	h := newHarness(t)
	user := uuid.New()

	rec := h.upload(t, user, "Photo")

	if rec.TaskType != entities.TaskTypePhoto || rec.Status != entities.RecordingStatusUploaded {
		t.Fatalf("unexpected recording %+v", rec)
	}
	wantObject := "recordings/" + user.String() + "/" + rec.ID.String() + ".wav"
	if rec.ObjectName != wantObject {
		t.Fatalf("object = %q, want %q", rec.ObjectName, wantObject)
	}
	if _, ok := h.storage.objects[wantObject]; !ok {
		t.Fatal("audio not stored")
	}
	if rec.FileURL == "" {
		t.Fatal("file URL not filled")
	}
	job := h.jobs.find(func(j *entities.AnalysisJob) bool { return j.RecordingID == rec.ID })
	if job == nil || job.Status != entities.AnalysisJobStatusPending || job.MaxRetries != 2 {
		t.Fatalf("unexpected job %+v", job)
	}
}

func TestUpload_Validation(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name string
		in   UploadInput
		want error
	}{
		{"bad task", UploadInput{TaskType: "song", ContentType: "audio/wav", Size: 1, Reader: strings.NewReader("x")}, ucErrors.ErrInvalidTaskType},
		{"empty", UploadInput{TaskType: "script", ContentType: "audio/wav", Size: 0, Reader: strings.NewReader("")}, ucErrors.ErrEmptyAudio},
		{"video", UploadInput{TaskType: "script", ContentType: "video/mp4", Size: 1, Reader: strings.NewReader("x")}, ucErrors.ErrUnsupportedAudio},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := h.svc.Upload(context.Background(), tt.in); !stdErrors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUpload_StorageFailure(t *testing.T) {
	h := newHarness(t)
	h.storage.uploadErr = stdErrors.New("bucket unavailable")
	user := uuid.New()

	_, err := h.svc.Upload(context.Background(), UploadInput{
		UserID:      user,
		TaskType:    "script",
		ContentType: "audio/wav",
		Size:        4,
		Reader:      strings.NewReader("RIFF"),
	})
	if !stdErrors.Is(err, ucErrors.ErrAudioStoreFailed) {
		t.Fatalf("expected audio store failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "bucket unavailable") {
		t.Fatalf("cause lost: %v", err)
	}
	if len(h.recs.recs) != 0 || len(h.jobs.jobs) != 0 {
		t.Fatal("nothing should be persisted when the audio is not stored")
	}
}

func TestAudioExtension(t *testing.T) {
	tests := []struct {
		contentType, filename, want string
		ok                          bool
	}{
		{"audio/webm;codecs=opus", "", ".webm", true},
		{"audio/x-m4a", "a.m4a", ".m4a", true},
		{"application/octet-stream", "voice.MP3", ".mp3", true},
		{"", "voice.ogg", ".ogg", true},
		{"application/octet-stream", "notes.txt", "", false},
		{"text/plain", "voice.wav", "", false},
	}
	for _, tt := range tests {
		got, ok := audioExtension(tt.contentType, tt.filename)
		if got != tt.want || ok != tt.ok {
			t.Errorf("audioExtension(%q, %q) = %q, %v", tt.contentType, tt.filename, got, ok)
		}
	}
}

func TestGet_ForeignRecording(t *testing.T) {
	h := newHarness(t)
	rec := h.upload(t, uuid.New(), "script")

	if _, err := h.svc.Get(context.Background(), uuid.New(), rec.ID); !stdErrors.Is(err, ucErrors.ErrRecordingNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSubmitJob(t *testing.T) {
	h := newHarness(t)
	rec := h.upload(t, uuid.New(), "script")
	job := h.jobs.find(func(j *entities.AnalysisJob) bool { return j.RecordingID == rec.ID })

	if err := h.svc.SubmitJob(context.Background(), job.ID); err != nil {
		t.Fatalf("SubmitJob: %v", err)
	}

	got, _ := h.jobs.FindByID(context.Background(), job.ID)
	if got.Status != entities.AnalysisJobStatusSubmitted || got.ExternalJobID == nil || *got.ExternalJobID != "tx-1" {
		t.Fatalf("unexpected job %+v", got)
	}
	if h.recs.get(rec.ID).Status != entities.RecordingStatusProcessing {
		t.Fatal("recording should be processing")
	}

	if err := h.svc.SubmitJob(context.Background(), job.ID); !stdErrors.Is(err, entities.ErrJobNotClaimable) {
		t.Fatalf("second submit should not claim, got %v", err)
	}
}

func TestSubmitJob_RequeueThenFail(t *testing.T) {
	h := newHarness(t)
	h.transcriber.submitErr = stdErrors.New("upload rejected")
	rec := h.upload(t, uuid.New(), "script")
	job := h.jobs.find(func(j *entities.AnalysisJob) bool { return j.RecordingID == rec.ID })

	for attempt := 1; attempt <= 2; attempt++ {
		if err := h.svc.SubmitJob(context.Background(), job.ID); err == nil {
			t.Fatal("expected error")
		}
		got, _ := h.jobs.FindByID(context.Background(), job.ID)
		if got.Status != entities.AnalysisJobStatusPending || got.RetryCount != attempt {
			t.Fatalf("attempt %d: unexpected job %+v", attempt, got)
		}
	}

	if err := h.svc.SubmitJob(context.Background(), job.ID); err == nil {
		t.Fatal("expected error")
	}
	got, _ := h.jobs.FindByID(context.Background(), job.ID)
	if got.Status != entities.AnalysisJobStatusFailed {
		t.Fatalf("job should be failed, got %s", got.Status)
	}
	if h.recs.get(rec.ID).Status != entities.RecordingStatusFailed {
		t.Fatal("recording should be failed")
	}
}

func TestSubmitJob_RecordingDeletedWhileClaiming(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := uuid.New()
	rec := h.upload(t, user, "script")
	job := h.jobs.find(func(j *entities.AnalysisJob) bool { return j.RecordingID == rec.ID })

	h.recs.beforeUpdate = func(id uuid.UUID) { h.recs.Delete(ctx, id) }

	if err := h.svc.SubmitJob(ctx, job.ID); !stdErrors.Is(err, ucErrors.ErrRecordingNotFound) {
		t.Fatalf("expected recording not found, got %v", err)
	}
	if h.recs.get(rec.ID) != nil {
		t.Fatal("deleted recording was written back")
	}
	got, _ := h.jobs.FindByID(ctx, job.ID)
	if got.Status != entities.AnalysisJobStatusFailed {
		t.Fatalf("job should be failed, got %s", got.Status)
	}
	if got.ExternalJobID != nil {
		t.Fatal("audio of a deleted recording was submitted")
	}
}

func TestAnalyze_RecordingDeletedMidway(t *testing.T) {
	h := newHarness(t)
	h.transcriber.result = sampleResult()
	ctx := context.Background()

	rec := h.upload(t, uuid.New(), "script")
	job := h.jobs.find(func(j *entities.AnalysisJob) bool { return j.RecordingID == rec.ID })
	if err := h.svc.SubmitJob(ctx, job.ID); err != nil {
		t.Fatalf("SubmitJob: %v", err)
	}
	if err := h.svc.HandleWebhook(ctx, []byte(`{"transcript_id":"tx-1","status":"completed"}`), "hook-secret"); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}

	var updates int
	h.recs.beforeUpdate = func(id uuid.UUID) {
		updates++
		h.recs.Delete(ctx, id)
	}

	if !h.svc.analyzeNext(ctx) {
		t.Fatal("expected a job to be analysed")
	}
	if h.recs.get(rec.ID) != nil {
		t.Fatal("deleted recording was written back")
	}
	if updates != 1 {
		t.Fatalf("update attempts = %d, want 1 (no retry)", updates)
	}
	got, _ := h.jobs.FindByID(ctx, job.ID)
	if got.Status != entities.AnalysisJobStatusFailed {
		t.Fatalf("job should be failed, got %s", got.Status)
	}
}

func TestHandleWebhook_InvalidToken(t *testing.T) {
	h := newHarness(t)
	err := h.svc.HandleWebhook(context.Background(), []byte(`{"transcript_id":"tx-1","status":"completed"}`), "wrong")
	if !stdErrors.Is(err, ucErrors.ErrInvalidSignature) {
		t.Fatalf("expected invalid signature, got %v", err)
	}
}

func TestHandleWebhook_UnknownTranscript(t *testing.T) {
	h := newHarness(t)
	err := h.svc.HandleWebhook(context.Background(), []byte(`{"transcript_id":"nope","status":"completed"}`), "hook-secret")
	if !stdErrors.Is(err, ucErrors.ErrJobNotFound) {
		t.Fatalf("expected job not found, got %v", err)
	}
	err = h.svc.HandleWebhook(context.Background(), []byte(`{"status":"completed"}`), "hook-secret")
	if !stdErrors.Is(err, ucErrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestHandleWebhook_TranscriptFetchFails(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	rec := h.upload(t, uuid.New(), "script")
	job := h.jobs.find(func(j *entities.AnalysisJob) bool { return j.RecordingID == rec.ID })
	if err := h.svc.SubmitJob(ctx, job.ID); err != nil {
		t.Fatalf("SubmitJob: %v", err)
	}

	// fakeTranscriber has no result, so fetching the transcript fails
	err := h.svc.HandleWebhook(ctx, []byte(`{"transcript_id":"tx-1","status":"completed"}`), "hook-secret")
	if !stdErrors.Is(err, ucErrors.ErrTranscriptFetch) {
		t.Fatalf("expected transcript fetch error, got %v", err)
	}
	got, _ := h.jobs.FindByID(ctx, job.ID)
	if got.Status != entities.AnalysisJobStatusSubmitted {
		t.Fatalf("job should stay submitted for the next callback, got %s", got.Status)
	}
}

func TestPipeline_EndToEnd(t *testing.T) {
	h := newHarness(t)
	h.transcriber.result = sampleResult()
	ctx := context.Background()
	user := uuid.New()

	rec := h.upload(t, user, "conversation")
	job := h.jobs.find(func(j *entities.AnalysisJob) bool { return j.RecordingID == rec.ID })

	if err := h.svc.SubmitJob(ctx, job.ID); err != nil {
		t.Fatalf("SubmitJob: %v", err)
	}

	payload := []byte(`{"transcript_id":"tx-1","status":"completed"}`)
	if err := h.svc.HandleWebhook(ctx, payload, "hook-secret"); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	got, _ := h.jobs.FindByID(ctx, job.ID)
	if got.Status != entities.AnalysisJobStatusTranscriptReady || got.TranscriptID == nil {
		t.Fatalf("unexpected job after webhook %+v", got)
	}

	// a duplicate callback is acknowledged and ignored
	if err := h.svc.HandleWebhook(ctx, payload, "hook-secret"); err != nil {
		t.Fatalf("duplicate webhook: %v", err)
	}

	if !h.svc.analyzeNext(ctx) {
		t.Fatal("expected a job to be analysed")
	}

	done := h.recs.get(rec.ID)
	if done.Status != entities.RecordingStatusCompleted || done.Metrics == nil {
		t.Fatalf("recording not completed: %+v", done)
	}
	if done.Metrics.TotalWords != 60 || done.Metrics.PauseCount != 5 {
		t.Fatalf("unexpected metrics %+v", done.Metrics)
	}
	if !done.IsBaseline {
		t.Fatal("first analysed recording should become the baseline")
	}
	if done.JournalText == nil || h.journal.calls != 1 {
		t.Fatal("conversation recording should get a journal entry")
	}

	got, _ = h.jobs.FindByID(ctx, job.ID)
	if got.Status != entities.AnalysisJobStatusCompleted || got.Metadata.WordCount != 60 {
		t.Fatalf("unexpected job after analysis %+v", got)
	}

	if h.svc.analyzeNext(ctx) {
		t.Fatal("queue should be empty")
	}
}

func TestHandleWebhook_Error(t *testing.T) {
	h := newHarness(t)
	h.transcriber.result = &ai.TranscriptResult{ID: "tx-1", Status: ai.StatusError, Error: "audio too short"}
	ctx := context.Background()

	rec := h.upload(t, uuid.New(), "photo")
	job := h.jobs.find(func(j *entities.AnalysisJob) bool { return j.RecordingID == rec.ID })
	if err := h.svc.SubmitJob(ctx, job.ID); err != nil {
		t.Fatalf("SubmitJob: %v", err)
	}

	if err := h.svc.HandleWebhook(ctx, []byte(`{"transcript_id":"tx-1","status":"error"}`), "hook-secret"); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	failed := h.recs.get(rec.ID)
	if failed.Status != entities.RecordingStatusFailed || failed.ProcessingError == nil ||
		!strings.Contains(*failed.ProcessingError, "audio too short") {
		t.Fatalf("unexpected recording %+v", failed)
	}
}

func TestSetBaselineAndDelete(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := uuid.New()

	rec := h.upload(t, user, "script")
	if _, err := h.svc.SetBaseline(ctx, user, rec.ID); !stdErrors.Is(err, ucErrors.ErrRecordingNotAnalyzed) {
		t.Fatalf("expected not analyzed, got %v", err)
	}

	stored := h.recs.get(rec.ID)
	stored.MarkAsCompleted(speechmetrics.Metrics{TotalWords: 80}, speechmetrics.LevelNormal)

	updated, err := h.svc.SetBaseline(ctx, user, rec.ID)
	if err != nil {
		t.Fatalf("SetBaseline: %v", err)
	}
	if !updated.IsBaseline {
		t.Fatal("expected baseline flag")
	}

	if err := h.svc.Delete(ctx, user, rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if h.recs.get(rec.ID) != nil {
		t.Fatal("recording still stored")
	}
	if _, ok := h.storage.objects[rec.ObjectName]; ok {
		t.Fatal("audio object still stored")
	}
}

func TestWorkerPool_StartStop(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if err := h.svc.StartWorkerPool(ctx); err != nil {
		t.Fatalf("StartWorkerPool: %v", err)
	}
	if err := h.svc.StartWorkerPool(ctx); !stdErrors.Is(err, ucErrors.ErrWorkerPoolRunning) {
		t.Fatalf("expected already running, got %v", err)
	}
	if err := h.svc.StopWorkerPool(); err != nil {
		t.Fatalf("StopWorkerPool: %v", err)
	}
	if err := h.svc.StopWorkerPool(); !stdErrors.Is(err, ucErrors.ErrWorkerPoolNotRunning) {
		t.Fatalf("expected not running, got %v", err)
	}
}

func TestWorkerPool_ProcessesUpload(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if err := h.svc.StartWorkerPool(ctx); err != nil {
		t.Fatalf("StartWorkerPool: %v", err)
	}
	defer h.svc.StopWorkerPool()

	rec := h.upload(t, uuid.New(), "photo")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, _ := h.jobs.FindLatestByRecording(ctx, rec.ID)
		if job != nil && job.Status == entities.AnalysisJobStatusSubmitted {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("pending job was not submitted by the worker")
}
