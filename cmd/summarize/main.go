package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/testsabirweb/slack_extract/internal/config"
	"github.com/testsabirweb/slack_extract/pkg/records"
	"github.com/testsabirweb/slack_extract/pkg/summarize"
)

// Post-processes a previously extracted CSV file: each record's
// conversation is summarized by the configured Ollama model.
func main() {
	var (
		input = flag.String("input", "", "CSV file produced by the extract tool (required)")
		limit = flag.Int("limit", 0, "Summarize at most this many records (0 = all)")
		help  = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	if *help || *input == "" {
		fmt.Println("Slack Thread Summarization Tool")
		fmt.Println("\nUsage:")
		fmt.Println("  summarize -input <file.csv> [options]")
		fmt.Println("\nOptions:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	recs, err := records.ReadCSVFile(*input)
	if err != nil {
		if len(recs) == 0 {
			log.Fatalf("Failed to read records: %v", err)
		}
		log.Printf("Some rows could not be read: %v", err)
	}
	log.Printf("Loaded %d records from %s", len(recs), *input)

	ctx := context.Background()
	summarizer := summarize.NewSummarizer(cfg.Ollama.URL, cfg.Ollama.Model)
	if err := summarizer.Ping(ctx); err != nil {
		log.Fatalf("Ollama server not available at %s: %v", cfg.Ollama.URL, err)
	}

	summarized := 0
	for _, rec := range recs {
		if *limit > 0 && summarized >= *limit {
			break
		}

		summary, err := summarizer.Summarize(ctx, rec)
		if err != nil {
			log.Printf("Failed to summarize thread %s: %v", rec.Timestamp, err)
			continue
		}
		summarized++

		fmt.Printf("--- %s (%s, %d replies) ---\n%s\n\n", rec.Author, rec.Date, rec.ReplyCount, summary)
	}

	log.Printf("Summarized %d of %d records", summarized, len(recs))
}
