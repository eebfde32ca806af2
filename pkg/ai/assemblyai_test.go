package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/johnquangdev/memory-care/pkg/config"
)

func newMockAssemblyAI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	// The SDK only decodes responses served as application/json.
	jsonResponse := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			h(w, r)
		}
	}
	mux.HandleFunc("/v2/upload", jsonResponse(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if string(body) != "audio-bytes" {
			t.Errorf("unexpected upload body %q", body)
		}
		json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.example/audio"})
	}))
	mux.HandleFunc("/v2/transcript", jsonResponse(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("invalid payload: %v", err)
		}
		if payload["audio_url"] != "https://cdn.example/audio" {
			t.Errorf("audio_url = %v", payload["audio_url"])
		}
		if payload["language_code"] != "ko" {
			t.Errorf("language_code = %v", payload["language_code"])
		}
		if payload["webhook_auth_header_name"] != WebhookAuthHeader {
			t.Errorf("webhook auth header = %v", payload["webhook_auth_header_name"])
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "transcript-123", "status": "queued"})
	}))
	mux.HandleFunc("/v2/transcript/transcript-123", jsonResponse(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"id": "transcript-123",
			"status": "completed",
			"text": "안녕 하세요",
			"language_code": "ko",
			"audio_duration": 12,
			"confidence": 0.93,
			"words": [
				{"text": "안녕", "start": 0, "end": 400, "confidence": 0.9},
				{"text": "하세요", "start": 900, "end": 1300, "confidence": 0.95},
				{"text": "음", "confidence": 0.2}
			]
		}`))
	}))
	return httptest.NewServer(mux)
}

func TestAssemblyAIClient_Submit(t *testing.T) {
	ts := newMockAssemblyAI(t)
	defer ts.Close()

	client := NewAssemblyAIClient(config.AssemblyAIConfig{
		APIKey:         "test-key",
		LanguageCode:   "ko",
		WebhookBaseURL: "https://api.example/v1/webhooks/assemblyai",
		WebhookSecret:  "shh",
	}, aai.WithBaseURL(ts.URL))

	id, err := client.Submit(context.Background(), strings.NewReader("audio-bytes"))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if id != "transcript-123" {
		t.Fatalf("unexpected id %s", id)
	}
}

func TestAssemblyAIClient_GetTranscript(t *testing.T) {
	ts := newMockAssemblyAI(t)
	defer ts.Close()

	client := NewAssemblyAIClient(config.AssemblyAIConfig{APIKey: "test-key"}, aai.WithBaseURL(ts.URL))

	result, err := client.GetTranscript(context.Background(), "transcript-123")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if result.Status != StatusCompleted || result.Text != "안녕 하세요" {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(result.Words) != 3 {
		t.Fatalf("expected 3 words, got %d", len(result.Words))
	}
	second := result.Words[1]
	if second.StartSec == nil || *second.StartSec != 0.9 || *second.EndSec != 1.3 {
		t.Fatalf("timings not converted to seconds: %+v", second)
	}
	if result.Words[2].StartSec != nil || result.Words[2].EndSec != nil {
		t.Fatalf("missing timings should stay nil: %+v", result.Words[2])
	}
}

func TestVerifyWebhookToken(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		received string
		want     bool
	}{
		{"disabled", "", "", true},
		{"match", "shh", "shh", true},
		{"mismatch", "shh", "nope", false},
		{"missing header", "shh", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifyWebhookToken(tt.secret, tt.received); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}
