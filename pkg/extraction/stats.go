package extraction

import "time"

// Stats tracks what one extraction run saw and produced. Runs are
// single-threaded, so plain fields suffice.
type Stats struct {
	EventsSeen         int `json:"events_seen"`
	FilteredRoots      int `json:"filtered_roots"`
	Threads            int `json:"threads"`
	Replies            int `json:"replies"`
	UniqueParticipants int `json:"unique_participants"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	// FetchErrors collects every terminal fetch failure observed during
	// the run. The listings involved were silently truncated; this is the
	// diagnostic trail that distinguishes truncation from a short channel.
	FetchErrors []error `json:"-"`
}

func (s *Stats) recordError(err error) {
	s.FetchErrors = append(s.FetchErrors, err)
}

// ErrorStrings renders the fetch errors for JSON output and logs.
func (s *Stats) ErrorStrings() []string {
	if len(s.FetchErrors) == 0 {
		return nil
	}
	out := make([]string, 0, len(s.FetchErrors))
	for _, err := range s.FetchErrors {
		out = append(out, err.Error())
	}
	return out
}

// Summary returns a loggable summary of the run.
func (s *Stats) Summary() map[string]interface{} {
	duration := s.EndTime.Sub(s.StartTime)
	if s.EndTime.IsZero() {
		duration = time.Since(s.StartTime)
	}

	return map[string]interface{}{
		"events_seen":         s.EventsSeen,
		"filtered_roots":      s.FilteredRoots,
		"threads":             s.Threads,
		"replies":             s.Replies,
		"unique_participants": s.UniqueParticipants,
		"fetch_errors":        len(s.FetchErrors),
		"duration_seconds":    duration.Seconds(),
	}
}
