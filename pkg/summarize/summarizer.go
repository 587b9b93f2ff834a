package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/testsabirweb/slack_extract/pkg/models"
)

const systemPrompt = "You summarize Slack conversations. Reply with a " +
	"concise summary of the discussion: the topic, the outcome or open " +
	"question, and who was involved. Three sentences maximum."

// Summarizer produces one-paragraph summaries of extracted threads.
type Summarizer struct {
	client *Client
	model  string
}

// NewSummarizer creates a summarizer using the given Ollama endpoint and model.
func NewSummarizer(baseURL, model string) *Summarizer {
	return &Summarizer{
		client: NewClient(baseURL),
		model:  model,
	}
}

// Ping checks that the backing model server is reachable.
func (s *Summarizer) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

// Summarize summarizes one record's conversation text.
func (s *Summarizer) Summarize(ctx context.Context, rec models.Record) (string, error) {
	if rec.Conversation == "" {
		return "", fmt.Errorf("record %s has no conversation text", rec.Timestamp)
	}

	resp, err := s.client.Chat(ctx, ChatRequest{
		Model: s.model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: rec.Conversation},
		},
		Options: &Options{Temperature: 0.2},
	})
	if err != nil {
		return "", fmt.Errorf("failed to summarize record %s: %w", rec.Timestamp, err)
	}

	return strings.TrimSpace(resp.Message.Content), nil
}
