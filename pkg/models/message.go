package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Message represents a single item returned by the Slack conversations APIs.
// The ts field is both the message identity and its sort key within a channel.
type Message struct {
	Type       string `json:"type"`
	Subtype    string `json:"subtype,omitempty"`
	User       string `json:"user,omitempty"`
	BotID      string `json:"bot_id,omitempty"`
	Text       string `json:"text"`
	Timestamp  string `json:"ts"`
	ThreadTS   string `json:"thread_ts,omitempty"`
	ReplyCount int    `json:"reply_count,omitempty"`
}

// Author returns the best available author identifier for the message.
// Messages without a user field (bot posts, system events) fall back to
// the subtype, then to "unknown".
func (m Message) Author() string {
	if m.User != "" {
		return m.User
	}
	if m.Subtype != "" {
		return m.Subtype
	}
	return "unknown"
}

// IsThreadRoot reports whether the message is the parent of a thread
// with at least one reply.
func (m Message) IsThreadRoot() bool {
	return m.ThreadTS != "" && m.ThreadTS == m.Timestamp && m.ReplyCount > 0
}

// ParseTimestamp parses Slack's timestamp format, Unix seconds with an
// optional fractional part (e.g. "1599934232.150700").
func ParseTimestamp(ts string) (time.Time, error) {
	if ts == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if strings.Contains(ts, ".") {
		parts := strings.SplitN(ts, ".", 2)
		seconds, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp format: %s", ts)
		}
		micros, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp format: %s", ts)
		}
		return time.Unix(0, seconds*1e9+micros*1000), nil
	}

	seconds, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp format: %s", ts)
	}
	return time.Unix(seconds, 0), nil
}
