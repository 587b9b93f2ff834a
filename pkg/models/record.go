package models

import "time"

// Reply is one reply line of a formatted record.
type Reply struct {
	Author string `json:"user"`
	Date   string `json:"date"`
	Text   string `json:"text"`
}

// Record is the final flat artifact produced for one thread: identifiers
// resolved, text cleaned, timestamps rendered human-readable.
type Record struct {
	// Timestamp is the root message ts, kept verbatim as the record identity.
	Timestamp string `json:"timestamp"`

	// Date is the root message date in YYYY-MM-DD form.
	Date string `json:"date"`

	// Author is the resolved display name of the root author.
	Author string `json:"author"`

	// Text is the cleaned and resolved root message text.
	Text string `json:"text"`

	// Conversation is the full thread rendered as
	// "{author} | {datetime}: {text}" blocks separated by blank lines.
	Conversation string `json:"conversation"`

	Replies      []Reply `json:"replies"`
	ReplyCount   int     `json:"reply_count"`
	Participants int     `json:"participants"`
}

// RunStatus is the completion status recorded for one extraction run.
type RunStatus string

const (
	// RunSuccess means the run completed with no fetch failures.
	RunSuccess RunStatus = "success"

	// RunPartial means records were produced but at least one terminal
	// fetch failure was observed, so the result may be truncated.
	RunPartial RunStatus = "partial"

	// RunNoData means the run completed cleanly but the channel had no
	// qualifying messages in the requested window.
	RunNoData RunStatus = "no_data"

	// RunFailed means a fetch failure prevented any records from being
	// produced.
	RunFailed RunStatus = "failed"
)

// RunDescriptor describes one extraction run for run-history and audit
// collaborators.
type RunDescriptor struct {
	ID          string    `json:"id"`
	Channel     string    `json:"channel"`
	Oldest      string    `json:"oldest"`
	Latest      string    `json:"latest"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	Status      RunStatus `json:"status"`
	Error       string    `json:"error,omitempty"`
}
