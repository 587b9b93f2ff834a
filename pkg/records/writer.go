package records

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/testsabirweb/slack_extract/pkg/models"
)

// csvHeader is the column layout of the CSV sink. Reply bodies travel
// inside the conversation column; the replies array is JSON-only.
var csvHeader = []string{
	"timestamp", "date", "author", "text", "reply_count", "participants", "conversation",
}

// WriteCSV writes the records as CSV with a header row.
func WriteCSV(w io.Writer, recs []models.Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, rec := range recs {
		row := []string{
			rec.Timestamp,
			rec.Date,
			rec.Author,
			rec.Text,
			strconv.Itoa(rec.ReplyCount),
			strconv.Itoa(rec.Participants),
			rec.Conversation,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write record %s: %w", rec.Timestamp, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the records to a CSV file, creating or truncating it.
// The file is written only after the full run has been assembled, so a
// killed run leaves no partial output.
func WriteCSVFile(path string, recs []models.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	return WriteCSV(f, recs)
}

// WriteJSON writes the records as an indented JSON array.
func WriteJSON(w io.Writer, recs []models.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(recs); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	return nil
}
