package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/testsabirweb/slack_extract/pkg/models"
)

// Extraction request errors
var (
	ErrMissingChannel = errors.New("channel_id is required")
	ErrMissingDates   = errors.New("start_date and end_date are required")
	ErrBadDateFormat  = errors.New("date format must be YYYY-MM-DD")
	ErrBadDateRange   = errors.New("end_date must not be before start_date")
	ErrMissingToken   = errors.New("no token provided and no default token configured")
)

const dateLayout = "2006-01-02"

// ExtractRequest represents one extraction run request
type ExtractRequest struct {
	// Token overrides the configured bearer token for this run
	Token string `json:"token,omitempty"`

	// ChannelID is the channel to extract
	ChannelID string `json:"channel_id"`

	// StartDate and EndDate bound the run, YYYY-MM-DD
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	// MaxThreads caps the number of threads assembled (0 = unbounded)
	MaxThreads int `json:"max_threads,omitempty"`
}

// Validate checks the request before any network activity happens.
func (r *ExtractRequest) Validate() error {
	if r.ChannelID == "" {
		return ErrMissingChannel
	}
	if r.StartDate == "" || r.EndDate == "" {
		return ErrMissingDates
	}
	if r.MaxThreads < 0 {
		r.MaxThreads = 0
	}
	_, _, err := r.Bounds()
	return err
}

// Bounds converts the request dates into the Unix-second pagination bounds
// the history endpoint expects. Dates are interpreted as UTC midnights;
// the end bound is exclusive at midnight of the end date.
func (r *ExtractRequest) Bounds() (oldest, latest string, err error) {
	start, err := time.ParseInLocation(dateLayout, r.StartDate, time.UTC)
	if err != nil {
		return "", "", ErrBadDateFormat
	}
	end, err := time.ParseInLocation(dateLayout, r.EndDate, time.UTC)
	if err != nil {
		return "", "", ErrBadDateFormat
	}
	if end.Before(start) {
		return "", "", ErrBadDateRange
	}

	return strconv.FormatInt(start.Unix(), 10), strconv.FormatInt(end.Unix(), 10), nil
}

// ExtractResponse represents the extraction API response
type ExtractResponse struct {
	// Records in ascending root ts order
	Records []models.Record `json:"records"`

	// Run is the descriptor for run-history collaborators; its status
	// distinguishes a clean run from a silently truncated one
	Run models.RunDescriptor `json:"run"`

	// Stats is the per-run statistics summary
	Stats map[string]interface{} `json:"stats"`

	// Errors lists fetch failures observed during the run, if any
	Errors []string `json:"errors,omitempty"`
}
