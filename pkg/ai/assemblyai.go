package ai

import (
	"context"
	"fmt"
	"io"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/johnquangdev/memory-care/pkg/config"
)

// Transcript statuses reported by AssemblyAI
const (
	StatusQueued     = string(aai.TranscriptStatusQueued)
	StatusProcessing = string(aai.TranscriptStatusProcessing)
	StatusCompleted  = string(aai.TranscriptStatusCompleted)
	StatusError      = string(aai.TranscriptStatusError)
)

// AssemblyAIClient wraps the official SDK with the settings used for speech samples
type AssemblyAIClient struct {
	sdk           *aai.Client
	languageCode  string
	webhookURL    string
	webhookSecret string
}

// TranscriptWord is a recognised word with timings in seconds.
// Nil timings mean the provider did not report them.
type TranscriptWord struct {
	Text       string
	StartSec   *float64
	EndSec     *float64
	Confidence float64
}

// TranscriptResult is the subset of an AssemblyAI transcript the service stores
type TranscriptResult struct {
	ID               string
	Status           string
	Text             string
	LanguageCode     string
	Confidence       float64
	AudioDurationSec float64
	Words            []TranscriptWord
	Error            string
}

// NewAssemblyAIClient creates an AssemblyAI client using the provided config.
// Extra SDK options (base URL, HTTP client) are mostly useful in tests.
func NewAssemblyAIClient(cfg config.AssemblyAIConfig, opts ...aai.ClientOption) *AssemblyAIClient {
	opts = append([]aai.ClientOption{aai.WithAPIKey(cfg.APIKey)}, opts...)
	return &AssemblyAIClient{
		sdk:           aai.NewClientWithOptions(opts...),
		languageCode:  cfg.LanguageCode,
		webhookURL:    cfg.WebhookBaseURL,
		webhookSecret: cfg.WebhookSecret,
	}
}

// Submit uploads the audio and starts an asynchronous transcription.
// Completion is reported to the configured webhook. Returns the transcript id.
func (c *AssemblyAIClient) Submit(ctx context.Context, audio io.Reader) (string, error) {
	uploadURL, err := c.sdk.Upload(ctx, audio)
	if err != nil {
		return "", fmt.Errorf("failed to upload to AssemblyAI: %w", err)
	}

	params := &aai.TranscriptOptionalParams{
		LanguageCode: aai.TranscriptLanguageCode(c.languageCode),
		Punctuate:    aai.Bool(true),
	}
	if c.webhookURL != "" {
		params.WebhookURL = aai.String(c.webhookURL)
		if c.webhookSecret != "" {
			params.WebhookAuthHeaderName = aai.String(WebhookAuthHeader)
			params.WebhookAuthHeaderValue = aai.String(c.webhookSecret)
		}
	}

	transcript, err := c.sdk.Transcripts.SubmitFromURL(ctx, uploadURL, params)
	if err != nil {
		return "", fmt.Errorf("failed to submit transcription: %w", err)
	}
	if transcript.ID == nil {
		return "", fmt.Errorf("assemblyai returned no transcript id")
	}
	return *transcript.ID, nil
}

// GetTranscript fetches a transcript and converts word timings to seconds
func (c *AssemblyAIClient) GetTranscript(ctx context.Context, transcriptID string) (*TranscriptResult, error) {
	transcript, err := c.sdk.Transcripts.Get(ctx, transcriptID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transcript: %w", err)
	}

	result := &TranscriptResult{
		ID:           transcriptID,
		Status:       string(transcript.Status),
		LanguageCode: string(transcript.LanguageCode),
	}
	if transcript.Text != nil {
		result.Text = *transcript.Text
	}
	if transcript.Confidence != nil {
		result.Confidence = *transcript.Confidence
	}
	if transcript.AudioDuration != nil {
		result.AudioDurationSec = float64(*transcript.AudioDuration)
	}
	if transcript.Error != nil {
		result.Error = *transcript.Error
	}

	result.Words = make([]TranscriptWord, 0, len(transcript.Words))
	for _, w := range transcript.Words {
		word := TranscriptWord{}
		if w.Text != nil {
			word.Text = *w.Text
		}
		if w.Start != nil {
			start := float64(*w.Start) / 1000.0 // ms to seconds
			word.StartSec = &start
		}
		if w.End != nil {
			end := float64(*w.End) / 1000.0
			word.EndSec = &end
		}
		if w.Confidence != nil {
			word.Confidence = *w.Confidence
		}
		result.Words = append(result.Words, word)
	}

	return result, nil
}
