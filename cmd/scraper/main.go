package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"ticket-events-scraper/internal/models"
	"ticket-events-scraper/internal/services"
)

func main() {
	var (
		source  = flag.String("source", "yes24", "listing source: yes24 (HTML) or melon (JSON)")
		genre   = flag.String("genre", "", "genre to fetch (yes24: concert, musical, ... / melon: concerts, arts, ...; default all)")
		input   = flag.String("input", "", "parse an existing document file instead of fetching")
		output  = flag.String("output", "events_parsed.json", "output JSON file path")
		filter  = flag.String("filter", "", "only extract blocks whose genre matches this label")
		timeout = flag.Duration("timeout", services.DefaultFetchTimeout, "fetch timeout")
		upload  = flag.Bool("upload", false, "also upload the output to S3")
	)
	flag.Parse()

	format, err := formatForSource(*source)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	doc, sourceLabel, err := loadDocument(*source, *genre, *input, *timeout)
	if err != nil {
		// Transport or read failure is fatal: no partial output.
		log.Fatalf("❌ Failed to obtain document: %v", err)
	}
	log.Printf("Fetched document: %d bytes from %s", len(doc), sourceLabel)

	result := services.Run(doc, format, *filter)
	log.Printf("Extracted %d events (%d failures)", len(result.Events), len(result.Failures))
	for _, failure := range result.Failures {
		log.Printf("⚠ block %d: %s", failure.BlockIndex, failure.Reason)
	}

	runOutput := services.BuildOutput(models.NewRunMetadata(sourceLabel), result)
	if err := services.WriteRunOutput(*output, runOutput); err != nil {
		log.Fatalf("❌ Failed to write output: %v", err)
	}
	log.Printf("✔ Wrote %s: %d events, %d genres, %d venues",
		*output,
		result.Summary.TotalEvents,
		result.Summary.Genres.Len(),
		result.Summary.Venues.Len())

	if *upload {
		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		defer cancel()

		s3Client, err := services.NewS3Client(ctx)
		if err != nil {
			log.Fatalf("❌ Failed to create S3 client: %v", err)
		}
		uploaded, err := s3Client.UploadRunOutputWithTimestamp(ctx, runOutput)
		if err != nil {
			log.Fatalf("❌ Failed to upload output: %v", err)
		}
		log.Printf("✔ Uploaded to %s", uploaded.PublicURL)
	}

	// A run with zero events and a whole-document failure means nothing
	// usable was extracted at all; per-block failures alone are only a
	// warning.
	if len(result.Events) == 0 && hasWholeDocumentFailure(result.Failures) {
		log.Printf("❌ Document did not match any expected structure")
		os.Exit(1)
	}
}

func formatForSource(source string) (models.SourceFormat, error) {
	switch source {
	case "yes24":
		return models.FormatHTML, nil
	case "melon":
		return models.FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown source %q (valid: yes24, melon)", source)
	}
}

// loadDocument returns the raw document plus a label identifying where
// it came from, either by reading a saved file or by fetching live.
func loadDocument(source, genre, input string, timeout time.Duration) (string, string, error) {
	if input != "" {
		data, err := os.ReadFile(input)
		if err != nil {
			return "", "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(data), "file:" + input, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	switch source {
	case "yes24":
		if genre == "" {
			genre = "all"
		}
		doc, err := services.NewYes24Client(timeout).FetchListing(ctx, genre)
		return doc, "yes24:" + genre, err
	case "melon":
		if genre == "" {
			genre = "all"
		}
		category, ok := services.MelonCategoryByKey(genre)
		if !ok {
			return "", "", fmt.Errorf("unknown melon category %q", genre)
		}
		doc, err := services.NewMelonClient(timeout).FetchProductList(ctx, category)
		return doc, "melon:" + genre, err
	default:
		return "", "", fmt.Errorf("unknown source %q", source)
	}
}

func hasWholeDocumentFailure(failures []models.ParseFailure) bool {
	for _, failure := range failures {
		if failure.BlockIndex == models.WholeDocumentIndex {
			return true
		}
	}
	return false
}
