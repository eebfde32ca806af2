package validator

import (
	"strings"
	"testing"
)

type listQuery struct {
	Status   string `query:"status" validate:"omitempty,oneof=uploaded completed"`
	PageSize int    `query:"page_size" validate:"min=1,max=100"`
}

type wordsBody struct {
	Words []struct {
		Word string `json:"word" validate:"max=3"`
	} `json:"words" validate:"dive"`
	Current *int `json:"current" validate:"required"`
}

func TestValidate_OK(t *testing.T) {
	if err := New().Validate(&listQuery{Status: "completed", PageSize: 20}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_UsesTagNames(t *testing.T) {
	err := New().Validate(&listQuery{Status: "lost", PageSize: 500})
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, want := range []string{"status must be one of [uploaded completed]", "page_size must be at most 100"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q does not contain %q", msg, want)
		}
	}
}

func TestValidate_NestedFields(t *testing.T) {
	body := wordsBody{}
	body.Words = append(body.Words, struct {
		Word string `json:"word" validate:"max=3"`
	}{Word: "toolong"})

	err := New().Validate(&body)
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "words[0].word must be at most 3") || !strings.Contains(msg, "current is required") {
		t.Fatalf("unexpected message %q", msg)
	}
}
