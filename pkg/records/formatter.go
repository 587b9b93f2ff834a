// Package records turns assembled threads into flat output records and
// writes them to the configured sink.
package records

import (
	"fmt"
	"strings"

	"github.com/testsabirweb/slack_extract/pkg/models"
	"github.com/testsabirweb/slack_extract/pkg/resolver"
)

const (
	dateLayout     = "2006-01-02"
	datetimeLayout = "2006-01-02 15:04:05"
)

// Format converts one thread into its output record. It is a pure function
// of the thread and the directories: no I/O, safe to call repeatedly and in
// any order. A message with an unparseable timestamp keeps empty date
// fields rather than failing the record.
func Format(t models.Thread, dirs resolver.Directories) models.Record {
	author := dirs.UserName(t.Root.Author())
	date, datetime := renderTime(t.Root.Timestamp)
	text := dirs.Clean(t.Root.Text)

	blocks := []string{formatLine(author, datetime, text)}
	replies := make([]models.Reply, 0, len(t.Replies))
	for _, r := range t.Replies {
		replyAuthor := dirs.UserName(r.Author())
		replyDate, replyDatetime := renderTime(r.Timestamp)
		replyText := dirs.Clean(r.Text)

		replies = append(replies, models.Reply{
			Author: replyAuthor,
			Date:   replyDate,
			Text:   replyText,
		})
		blocks = append(blocks, formatLine(replyAuthor, replyDatetime, replyText))
	}

	return models.Record{
		Timestamp:    t.Root.Timestamp,
		Date:         date,
		Author:       author,
		Text:         text,
		Conversation: strings.Join(blocks, "\n\n"),
		Replies:      replies,
		ReplyCount:   len(t.Replies),
		Participants: len(t.ParticipantIDs()),
	}
}

func formatLine(author, datetime, text string) string {
	return fmt.Sprintf("%s | %s: %s", author, datetime, text)
}

func renderTime(ts string) (date, datetime string) {
	t, err := models.ParseTimestamp(ts)
	if err != nil {
		return "", ""
	}
	return t.UTC().Format(dateLayout), t.UTC().Format(datetimeLayout)
}
