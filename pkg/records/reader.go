package records

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/testsabirweb/slack_extract/pkg/models"
)

// ReadCSV reads records previously written by WriteCSV. Columns are located
// by header name so reordered or extended files still load. Malformed rows
// are skipped and collected; the partial result is returned together with
// a combined error when any row failed.
func ReadCSV(r io.Reader) ([]models.Record, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columnMap := make(map[string]int)
	for i, col := range header {
		columnMap[strings.TrimSpace(col)] = i
	}
	for _, col := range []string{"timestamp", "author", "conversation"} {
		if _, ok := columnMap[col]; !ok {
			return nil, fmt.Errorf("required column %s not found in CSV", col)
		}
	}

	var recs []models.Record
	var rowErrs []string
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			rowErrs = append(rowErrs, fmt.Sprintf("row %d: %v", row, err))
			continue
		}

		getField := func(name string) string {
			if idx, ok := columnMap[name]; ok && idx < len(record) {
				return record[idx]
			}
			return ""
		}

		rec := models.Record{
			Timestamp:    getField("timestamp"),
			Date:         getField("date"),
			Author:       getField("author"),
			Text:         getField("text"),
			Conversation: getField("conversation"),
		}
		if rec.Timestamp == "" {
			rowErrs = append(rowErrs, fmt.Sprintf("row %d: missing timestamp", row))
			continue
		}
		rec.ReplyCount, _ = strconv.Atoi(getField("reply_count"))
		rec.Participants, _ = strconv.Atoi(getField("participants"))

		recs = append(recs, rec)
	}

	if len(rowErrs) > 0 {
		return recs, fmt.Errorf("skipped %d malformed rows: %s", len(rowErrs), strings.Join(rowErrs, "; "))
	}
	return recs, nil
}

// ReadCSVFile reads records from a CSV file on disk.
func ReadCSVFile(path string) ([]models.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}
