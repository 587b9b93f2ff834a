package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/testsabirweb/slack_extract/internal/config"
	"github.com/testsabirweb/slack_extract/pkg/extraction"
	"github.com/testsabirweb/slack_extract/pkg/records"
	"github.com/testsabirweb/slack_extract/pkg/slack"
	"github.com/testsabirweb/slack_extract/pkg/summarize"
)

func main() {
	// Define command-line flags
	var (
		channel    = flag.String("channel", "", "Channel ID to extract (required)")
		startDate  = flag.String("start", "", "Start date, YYYY-MM-DD (required)")
		endDate    = flag.String("end", "", "End date, YYYY-MM-DD (required)")
		output     = flag.String("output", "", "Output file path (default: stdout)")
		format     = flag.String("format", "csv", "Output format: 'csv' or 'json'")
		maxThreads = flag.Int("max-threads", 0, "Stop after this many threads (0 = unbounded)")
		doSummary  = flag.Bool("summarize", false, "Summarize each thread with the configured Ollama model")
		help       = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	if *help || *channel == "" || *startDate == "" || *endDate == "" {
		printUsage()
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Slack.Token == "" {
		log.Fatal("SLACK_BOT_TOKEN is required")
	}

	oldest, latest, err := parseBounds(*startDate, *endDate)
	if err != nil {
		log.Fatalf("Invalid date bounds: %v", err)
	}

	client := slack.NewClient(cfg.Slack.Token, slack.ClientConfig{
		BaseURL:        cfg.Slack.BaseURL,
		MaxRetries:     cfg.Extract.MaxRetries,
		InitialBackoff: cfg.Extract.InitialBackoff,
		PageSize:       cfg.Extract.PageSize,
	})
	extractor := extraction.New(client, extraction.Config{ReplyCap: cfg.Extract.ReplyCap})

	log.Printf("Extracting channel %s between %s and %s (token %s)",
		*channel, *startDate, *endDate, config.MaskToken(cfg.Slack.Token))

	ctx := context.Background()
	startTime := time.Now()

	result, err := extractor.Run(ctx, extraction.Request{
		Channel:    *channel,
		Oldest:     oldest,
		Latest:     latest,
		MaxThreads: *maxThreads,
	})
	if err != nil {
		log.Fatalf("Extraction failed: %v", err)
	}

	// Write records
	switch *format {
	case "csv":
		if *output == "" {
			err = records.WriteCSV(os.Stdout, result.Records)
		} else {
			err = records.WriteCSVFile(*output, result.Records)
		}
	case "json":
		if *output == "" {
			err = records.WriteJSON(os.Stdout, result.Records)
		} else {
			var f *os.File
			if f, err = os.Create(*output); err == nil {
				err = records.WriteJSON(f, result.Records)
				f.Close()
			}
		}
	default:
		log.Fatalf("Invalid format: %s", *format)
	}
	if err != nil {
		log.Fatalf("Failed to write records: %v", err)
	}

	// Optional LLM post-processing
	if *doSummary {
		summarizeRecords(ctx, cfg, result)
	}

	// Print results
	duration := time.Since(startTime)
	fmt.Fprintln(os.Stderr, "\n=== Extraction Complete ===")
	fmt.Fprintf(os.Stderr, "Run ID: %s\n", result.Run.ID)
	fmt.Fprintf(os.Stderr, "Status: %s\n", result.Run.Status)
	fmt.Fprintf(os.Stderr, "Duration: %s\n", duration.Round(time.Second))
	fmt.Fprintf(os.Stderr, "Events seen: %d\n", result.Stats.EventsSeen)
	fmt.Fprintf(os.Stderr, "Filtered bot roots: %d\n", result.Stats.FilteredRoots)
	fmt.Fprintf(os.Stderr, "Threads: %d\n", result.Stats.Threads)
	fmt.Fprintf(os.Stderr, "Replies: %d\n", result.Stats.Replies)
	fmt.Fprintf(os.Stderr, "Unique participants: %d\n", result.Stats.UniqueParticipants)

	if errs := result.Stats.ErrorStrings(); len(errs) > 0 {
		fmt.Fprintf(os.Stderr, "\nFetch errors encountered: %d\n", len(errs))
		for i, msg := range errs {
			if i >= 10 {
				fmt.Fprintf(os.Stderr, "... and %d more errors\n", len(errs)-10)
				break
			}
			fmt.Fprintf(os.Stderr, "  - %s\n", msg)
		}
	}
}

// summarizeRecords prints a summary per record. Summarization is
// best-effort: a failure is logged and the remaining records continue.
func summarizeRecords(ctx context.Context, cfg *config.Config, result *extraction.Result) {
	summarizer := summarize.NewSummarizer(cfg.Ollama.URL, cfg.Ollama.Model)
	if err := summarizer.Ping(ctx); err != nil {
		log.Printf("Ollama server not available, skipping summaries: %v", err)
		return
	}

	for _, rec := range result.Records {
		summary, err := summarizer.Summarize(ctx, rec)
		if err != nil {
			log.Printf("Failed to summarize thread %s: %v", rec.Timestamp, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "\n--- %s (%s) ---\n%s\n", rec.Author, rec.Date, summary)
	}
}

func parseBounds(startDate, endDate string) (oldest, latest string, err error) {
	start, err := time.ParseInLocation("2006-01-02", startDate, time.UTC)
	if err != nil {
		return "", "", fmt.Errorf("date format must be YYYY-MM-DD: %s", startDate)
	}
	end, err := time.ParseInLocation("2006-01-02", endDate, time.UTC)
	if err != nil {
		return "", "", fmt.Errorf("date format must be YYYY-MM-DD: %s", endDate)
	}
	if end.Before(start) {
		return "", "", fmt.Errorf("end date %s is before start date %s", endDate, startDate)
	}
	return strconv.FormatInt(start.Unix(), 10), strconv.FormatInt(end.Unix(), 10), nil
}

func printUsage() {
	fmt.Println("Slack Thread Extraction Tool")
	fmt.Println("\nUsage:")
	fmt.Println("  extract -channel <id> -start <date> -end <date> [options]")
	fmt.Println("\nRequired:")
	fmt.Println("  -channel string")
	fmt.Println("        Channel ID to extract")
	fmt.Println("  -start, -end string")
	fmt.Println("        Date bounds, YYYY-MM-DD")
	fmt.Println("\nOptions:")
	flag.PrintDefaults()
	fmt.Println("\nExamples:")
	fmt.Println("  # Extract one week of a channel to CSV")
	fmt.Println("  extract -channel C0123456789 -start 2025-08-01 -end 2025-08-08 -output general.csv")
	fmt.Println("\n  # Extract to JSON and summarize each thread")
	fmt.Println("  extract -channel C0123456789 -start 2025-08-01 -end 2025-08-08 -format json -summarize")
}
