package records

import (
	"strings"
	"testing"

	"github.com/testsabirweb/slack_extract/pkg/models"
	"github.com/testsabirweb/slack_extract/pkg/resolver"
)

func testDirectories() resolver.Directories {
	return resolver.Directories{
		Users:    map[string]string{"U1": "Alice", "U2": "Bob"},
		Channels: map[string]string{"C1": "general"},
	}
}

func TestFormatThread(t *testing.T) {
	thread := models.Thread{
		Root: models.Message{
			Timestamp:  "100.0",
			ThreadTS:   "100.0",
			User:       "U1",
			Text:       "<@U1> hi <#C1>",
			ReplyCount: 1,
		},
		Replies: []models.Message{
			{Timestamp: "101.0", User: "U2", Text: "ok"},
		},
	}

	rec := Format(thread, testDirectories())

	if rec.Timestamp != "100.0" {
		t.Errorf("expected root ts, got %s", rec.Timestamp)
	}
	if rec.Date != "1970-01-01" {
		t.Errorf("expected epoch date, got %s", rec.Date)
	}
	if rec.Author != "Alice" {
		t.Errorf("expected resolved author, got %s", rec.Author)
	}
	if rec.Text != "@Alice hi #general" {
		t.Errorf("expected resolved text, got %q", rec.Text)
	}

	wantConversation := "Alice | 1970-01-01 00:01:40: @Alice hi #general\n\n" +
		"Bob | 1970-01-01 00:01:41: ok"
	if rec.Conversation != wantConversation {
		t.Errorf("conversation mismatch:\ngot:  %q\nwant: %q", rec.Conversation, wantConversation)
	}

	if rec.ReplyCount != 1 {
		t.Errorf("expected 1 reply, got %d", rec.ReplyCount)
	}
	if rec.Participants != 2 {
		t.Errorf("expected 2 participants, got %d", rec.Participants)
	}
	if len(rec.Replies) != 1 || rec.Replies[0].Author != "Bob" || rec.Replies[0].Text != "ok" {
		t.Errorf("unexpected replies payload: %+v", rec.Replies)
	}
}

func TestFormatSingletonThread(t *testing.T) {
	thread := models.Thread{
		Root: models.Message{Timestamp: "100.5", User: "U2", Text: "just me"},
	}

	rec := Format(thread, testDirectories())

	if rec.ReplyCount != 0 || len(rec.Replies) != 0 {
		t.Errorf("expected no replies, got %d", rec.ReplyCount)
	}
	if rec.Participants != 1 {
		t.Errorf("expected 1 participant, got %d", rec.Participants)
	}
	if strings.Contains(rec.Conversation, "\n\n") {
		t.Error("singleton conversation must be a single block")
	}
}

func TestFormatUnparseableTimestampDegrades(t *testing.T) {
	thread := models.Thread{
		Root: models.Message{Timestamp: "not-a-ts", User: "U1", Text: "hello"},
	}

	rec := Format(thread, testDirectories())

	if rec.Date != "" {
		t.Errorf("expected empty date for bad ts, got %q", rec.Date)
	}
	if rec.Conversation != "Alice | : hello" {
		t.Errorf("expected empty datetime slot, got %q", rec.Conversation)
	}
}

func TestFormatUnknownAuthorKeepsID(t *testing.T) {
	thread := models.Thread{
		Root: models.Message{Timestamp: "100.0", User: "U999", Text: "who am I"},
	}

	rec := Format(thread, testDirectories())

	if rec.Author != "U999" {
		t.Errorf("expected raw ID for unknown user, got %q", rec.Author)
	}
}

func TestFormatRepeatedParticipantCountedOnce(t *testing.T) {
	thread := models.Thread{
		Root: models.Message{Timestamp: "100.0", ThreadTS: "100.0", User: "U1", Text: "q", ReplyCount: 2},
		Replies: []models.Message{
			{Timestamp: "101.0", User: "U2", Text: "a"},
			{Timestamp: "102.0", User: "U1", Text: "thanks"},
		},
	}

	rec := Format(thread, testDirectories())

	if rec.Participants != 2 {
		t.Errorf("expected 2 distinct participants, got %d", rec.Participants)
	}
	if rec.ReplyCount != 2 {
		t.Errorf("expected 2 replies, got %d", rec.ReplyCount)
	}
}
