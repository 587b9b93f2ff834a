package records

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"testing"

	"github.com/testsabirweb/slack_extract/pkg/models"
)

func sampleRecords() []models.Record {
	return []models.Record{
		{
			Timestamp:    "100.0",
			Date:         "1970-01-01",
			Author:       "Alice",
			Text:         "hello, world",
			Conversation: "Alice | 1970-01-01 00:01:40: hello, world",
			ReplyCount:   0,
			Participants: 1,
		},
		{
			Timestamp:    "200.0",
			Date:         "1970-01-01",
			Author:       "Bob",
			Text:         "line one\nline two",
			Conversation: "Bob | 1970-01-01 00:03:20: line one\nline two",
			ReplyCount:   3,
			Participants: 2,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRecords()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}

	wantHeader := []string{"timestamp", "date", "author", "text", "reply_count", "participants", "conversation"}
	for i, col := range wantHeader {
		if rows[0][i] != col {
			t.Errorf("header column %d: expected %q, got %q", i, col, rows[0][i])
		}
	}

	if rows[1][0] != "100.0" || rows[1][2] != "Alice" || rows[1][4] != "0" {
		t.Errorf("unexpected first row: %v", rows[1])
	}
	// Embedded commas and newlines must round-trip through quoting.
	if rows[2][3] != "line one\nline two" {
		t.Errorf("multiline text did not survive CSV encoding: %q", rows[2][3])
	}
	if rows[2][4] != "3" || rows[2][5] != "2" {
		t.Errorf("unexpected counts in second row: %v", rows[2])
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected header only, got %d rows", len(rows))
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleRecords()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded []models.Record
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 records, got %d", len(decoded))
	}
	if decoded[1].Author != "Bob" || decoded[1].ReplyCount != 3 {
		t.Errorf("unexpected decoded record: %+v", decoded[1])
	}
}

func TestWriteCSVFile(t *testing.T) {
	path := t.TempDir() + "/out.csv"
	if err := WriteCSVFile(path, sampleRecords()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A second write truncates rather than appends.
	if err := WriteCSVFile(path, sampleRecords()[:1]); err != nil {
		t.Fatalf("unexpected error on rewrite: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("expected header + 1 row after rewrite, got %d rows", len(rows))
	}
}
