// Package scheduler runs recurring extractions from a cron expression,
// writing each run's records to a CSV file in the configured output
// directory.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/testsabirweb/slack_extract/internal/config"
	"github.com/testsabirweb/slack_extract/pkg/extraction"
	"github.com/testsabirweb/slack_extract/pkg/records"
	"github.com/testsabirweb/slack_extract/pkg/slack"
)

// runTimeout bounds one scheduled batch run end to end, retry sleeps
// included.
const runTimeout = 30 * time.Minute

// Scheduler owns the cron loop for scheduled extractions.
type Scheduler struct {
	cfg  *config.Config
	cron *cron.Cron
}

// New creates a scheduler from the loaded configuration.
func New(cfg *config.Config) *Scheduler {
	return &Scheduler{cfg: cfg}
}

// Start registers the schedule and starts the cron loop. Runs are
// serialized: a tick that fires while the previous run is still going is
// skipped rather than stacked.
func (s *Scheduler) Start() error {
	s.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	if _, err := s.cron.AddFunc(s.cfg.Extract.Schedule, s.runAll); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", s.cfg.Extract.Schedule, err)
	}

	s.cron.Start()
	log.Printf("Scheduler started: %q covering the last %d day(s) for %d channel(s)",
		s.cfg.Extract.Schedule, s.cfg.Extract.WindowDays, len(s.cfg.Extract.Channels))
	return nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// runAll extracts every configured channel once, sequentially.
func (s *Scheduler) runAll() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	now := time.Now().UTC()
	oldest := fmt.Sprintf("%d", now.AddDate(0, 0, -s.cfg.Extract.WindowDays).Unix())
	latest := fmt.Sprintf("%d", now.Unix())

	client := slack.NewClient(s.cfg.Slack.Token, slack.ClientConfig{
		BaseURL:        s.cfg.Slack.BaseURL,
		MaxRetries:     s.cfg.Extract.MaxRetries,
		InitialBackoff: s.cfg.Extract.InitialBackoff,
		PageSize:       s.cfg.Extract.PageSize,
	})
	extractor := extraction.New(client, extraction.Config{ReplyCap: s.cfg.Extract.ReplyCap})

	for _, channel := range s.cfg.Extract.Channels {
		result, err := extractor.Run(ctx, extraction.Request{
			Channel:    channel,
			Oldest:     oldest,
			Latest:     latest,
			MaxThreads: s.cfg.Extract.MaxThreads,
		})
		if err != nil {
			log.Printf("Scheduled run for %s failed: %v", channel, err)
			continue
		}

		log.Printf("Run %s for %s: status=%s threads=%d replies=%d fetch_errors=%d",
			result.Run.ID, channel, result.Run.Status,
			result.Stats.Threads, result.Stats.Replies, len(result.Stats.FetchErrors))

		if len(result.Records) == 0 {
			continue
		}

		path := filepath.Join(s.cfg.Extract.OutputDir,
			fmt.Sprintf("slack_%s_%s.csv", channel, now.Format("2006-01-02")))
		if err := records.WriteCSVFile(path, result.Records); err != nil {
			log.Printf("Failed to write %s: %v", path, err)
			continue
		}
		log.Printf("Wrote %d records to %s", len(result.Records), path)
	}
}
