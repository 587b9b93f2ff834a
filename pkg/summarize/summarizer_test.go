package summarize

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/testsabirweb/slack_extract/pkg/models"
)

func TestSummarize(t *testing.T) {
	var gotReq ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(ChatResponse{
			Model:   gotReq.Model,
			Message: Message{Role: "assistant", Content: "  A short summary.\n"},
			Done:    true,
		})
	}))
	defer srv.Close()

	s := NewSummarizer(srv.URL, "llama3:8b")

	rec := models.Record{
		Timestamp:    "100.0",
		Conversation: "Alice | 1970-01-01 00:01:40: hello",
	}

	summary, err := s.Summarize(context.Background(), rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary != "A short summary." {
		t.Errorf("expected trimmed summary, got %q", summary)
	}

	if gotReq.Model != "llama3:8b" {
		t.Errorf("expected configured model, got %s", gotReq.Model)
	}
	if gotReq.Stream {
		t.Error("expected non-streaming request")
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Fatalf("expected system+user messages, got %+v", gotReq.Messages)
	}
	if gotReq.Messages[1].Content != rec.Conversation {
		t.Error("expected the conversation text as the user message")
	}
}

func TestSummarizeRejectsEmptyConversation(t *testing.T) {
	s := NewSummarizer("http://unused", "llama3:8b")

	if _, err := s.Summarize(context.Background(), models.Record{Timestamp: "100.0"}); err == nil {
		t.Fatal("expected error for empty conversation")
	}
}

func TestSummarizeSurfacesServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	s := NewSummarizer(srv.URL, "missing-model")

	rec := models.Record{Timestamp: "100.0", Conversation: "some text"}
	if _, err := s.Summarize(context.Background(), rec); err == nil {
		t.Fatal("expected error from non-200 response")
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer srv.Close()

	if err := NewSummarizer(srv.URL, "llama3:8b").Ping(context.Background()); err != nil {
		t.Errorf("unexpected ping error: %v", err)
	}
}
