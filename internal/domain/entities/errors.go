package entities

import "errors"

// Domain errors
var (
	ErrRecordingNotFound     = errors.New("recording not found")
	ErrRecordingNotCompleted = errors.New("recording is not completed")
	ErrJobNotClaimable       = errors.New("job is not in a claimable state")
)
