// Package extraction orchestrates one batch extraction run: directory
// build, history pagination, thread assembly and record formatting.
package extraction

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/testsabirweb/slack_extract/pkg/models"
	"github.com/testsabirweb/slack_extract/pkg/records"
	"github.com/testsabirweb/slack_extract/pkg/resolver"
)

// Conversations is the slice of the Slack client the extractor depends on.
// Defined here so tests can substitute a synthetic API.
type Conversations interface {
	FetchUsers(ctx context.Context) (map[string]string, error)
	FetchChannels(ctx context.Context) (map[string]string, error)
	FetchUsergroups(ctx context.Context) (map[string]string, error)
	VisitHistory(ctx context.Context, channelID, oldest, latest string, visit func(models.Message) bool) error
	FetchReplies(ctx context.Context, channelID, threadTS string, max int) ([]models.Message, error)
}

// Config contains configuration for the extractor.
type Config struct {
	ReplyCap int
}

// DefaultConfig returns default extractor configuration.
func DefaultConfig() Config {
	return Config{ReplyCap: DefaultReplyCap}
}

// Extractor runs batch extractions against one Slack workspace. Runs are
// strictly sequential; the extractor holds no mutable state between them.
type Extractor struct {
	client   Conversations
	replyCap int
}

// New creates a new extractor on top of the given client.
func New(client Conversations, config ...Config) *Extractor {
	cfg := DefaultConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.ReplyCap <= 0 {
		cfg.ReplyCap = DefaultReplyCap
	}
	return &Extractor{client: client, replyCap: cfg.ReplyCap}
}

// Request describes one extraction run.
type Request struct {
	Channel string
	Oldest  string // Unix-second lower bound, empty for unbounded
	Latest  string // Unix-second upper bound, empty for unbounded
	// MaxThreads stops the run after this many threads have been
	// assembled; zero means unbounded.
	MaxThreads int
}

// Result is the output of one run: the formatted records, the run
// statistics, and the descriptor for run-history collaborators.
type Result struct {
	Records []models.Record      `json:"records"`
	Stats   Stats                `json:"stats"`
	Run     models.RunDescriptor `json:"run"`
}

// Run executes one extraction. Fetch failures never abort the run: the
// affected listing is truncated, the error is recorded in the stats, and
// the run descriptor reports partial or failed instead of success.
func (e *Extractor) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Channel == "" {
		return nil, errors.New("channel is required")
	}

	stats := Stats{StartTime: time.Now()}
	run := models.RunDescriptor{
		ID:        uuid.New().String(),
		Channel:   req.Channel,
		Oldest:    req.Oldest,
		Latest:    req.Latest,
		StartedAt: stats.StartTime,
	}

	dirs := e.buildDirectories(ctx, &stats)

	asm := &assembler{client: e.client, channel: req.Channel, replyCap: e.replyCap}
	var threads []models.Thread

	err := e.client.VisitHistory(ctx, req.Channel, req.Oldest, req.Latest, func(m models.Message) bool {
		stats.EventsSeen++
		if isBotAuthor(m.Author()) {
			stats.FilteredRoots++
			return true
		}

		thread, err := asm.assemble(ctx, m)
		if err != nil {
			stats.recordError(err)
		}
		threads = append(threads, thread)
		stats.Replies += len(thread.Replies)
		return req.MaxThreads <= 0 || len(threads) < req.MaxThreads
	})
	if err != nil {
		stats.recordError(err)
	}

	// The history endpoint walks newest-first; records are emitted in
	// ascending root ts order.
	sort.Slice(threads, func(i, j int) bool {
		return threads[i].Root.Timestamp < threads[j].Root.Timestamp
	})

	participants := make(map[string]bool)
	recs := make([]models.Record, 0, len(threads))
	for _, t := range threads {
		for _, id := range t.ParticipantIDs() {
			participants[id] = true
		}
		recs = append(recs, records.Format(t, dirs))
	}

	stats.Threads = len(recs)
	stats.UniqueParticipants = len(participants)
	stats.EndTime = time.Now()

	run.CompletedAt = stats.EndTime
	run.Status = classify(len(recs), stats.FetchErrors)
	if len(stats.FetchErrors) > 0 {
		run.Error = stats.FetchErrors[0].Error()
	}

	return &Result{Records: recs, Stats: stats, Run: run}, nil
}

// buildDirectories fetches the three identifier directories once per run.
// A partial directory is still usable; failures are recorded and resolution
// degrades to pass-through IDs.
func (e *Extractor) buildDirectories(ctx context.Context, stats *Stats) resolver.Directories {
	users, err := e.client.FetchUsers(ctx)
	if err != nil {
		stats.recordError(err)
	}
	channels, err := e.client.FetchChannels(ctx)
	if err != nil {
		stats.recordError(err)
	}
	groups, err := e.client.FetchUsergroups(ctx)
	if err != nil {
		stats.recordError(err)
	}
	return resolver.Directories{Users: users, Channels: channels, Usergroups: groups}
}

// classify derives the run completion status. Any observed fetch failure
// demotes the run to partial (records produced) or failed (none); a clean
// run with no records means the window was genuinely empty.
func classify(recordCount int, fetchErrors []error) models.RunStatus {
	switch {
	case len(fetchErrors) > 0 && recordCount > 0:
		return models.RunPartial
	case len(fetchErrors) > 0:
		return models.RunFailed
	case recordCount == 0:
		return models.RunNoData
	default:
		return models.RunSuccess
	}
}
