package errors

import "errors"

// Common errors
var (
	ErrInvalidInput = errors.New("invalid input")
)

// Recording errors
var (
	ErrRecordingNotFound    = errors.New("recording not found")
	ErrRecordingNotAnalyzed = errors.New("recording has not been analyzed")
	ErrInvalidTaskType      = errors.New("invalid task type")
	ErrUnsupportedAudio     = errors.New("unsupported audio format")
	ErrEmptyAudio           = errors.New("audio file is empty")
	ErrAudioStoreFailed     = errors.New("failed to store audio")
)

// Job errors
var (
	ErrJobNotFound          = errors.New("analysis job not found")
	ErrWorkerPoolRunning    = errors.New("worker pool already running")
	ErrWorkerPoolNotRunning = errors.New("worker pool not running")
	ErrInvalidSignature     = errors.New("invalid webhook signature")
	ErrTranscriberMissing   = errors.New("transcriber not configured")
	ErrTranscriptFetch      = errors.New("failed to fetch transcript")
)
