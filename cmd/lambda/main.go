package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/lambda"

	"ticket-events-scraper/internal/models"
	"ticket-events-scraper/internal/services"
)

// LambdaEvent represents the trigger event for one scraping run
type LambdaEvent struct {
	Source         string   `json:"source,omitempty"`          // "melon" (default) or "yes24"
	CategoryFilter []string `json:"category-filter,omitempty"` // optional subset of category/genre keys
	GenreFilter    string   `json:"genre-filter,omitempty"`    // per-block extraction filter
}

// LambdaResponse represents the function response
type LambdaResponse struct {
	Success        bool             `json:"success"`
	Message        string           `json:"message"`
	RunID          string           `json:"run_id"`
	TotalEvents    int              `json:"total_events"`
	TotalFailures  int              `json:"total_failures"`
	ProcessingTime int64            `json:"processing_time_ms"`
	Results        []CategoryResult `json:"results"`
	Errors         []string         `json:"errors,omitempty"`
}

// CategoryResult represents the outcome for a single category
type CategoryResult struct {
	Category    string `json:"category"`
	Success     bool   `json:"success"`
	EventsFound int    `json:"events_found"`
	Failures    int    `json:"failures"`
	UploadedKey string `json:"uploaded_key,omitempty"`
	Error       string `json:"error,omitempty"`
}

// HandleScraping runs one scraping pass over the configured categories
// and uploads each run's output to S3. One invocation, one batch; the
// schedule lives outside in EventBridge.
func HandleScraping(ctx context.Context, event LambdaEvent) (LambdaResponse, error) {
	start := time.Now()
	runID := models.NewRunMetadata("lambda").RunID
	log.Printf("Starting scraping run %s (source=%s)", runID, sourceOrDefault(event.Source))

	s3Client, err := services.NewS3Client(ctx)
	if err != nil {
		return LambdaResponse{}, fmt.Errorf("failed to create S3 client: %w", err)
	}

	response := LambdaResponse{RunID: runID}
	for _, category := range selectedCategories(event) {
		result := scrapeCategory(ctx, event, category, s3Client)
		response.Results = append(response.Results, result)

		if result.Success {
			response.TotalEvents += result.EventsFound
			response.TotalFailures += result.Failures
		} else {
			response.Errors = append(response.Errors, fmt.Sprintf("%s: %s", result.Category, result.Error))
		}
	}

	response.ProcessingTime = time.Since(start).Milliseconds()
	response.Success = len(response.Errors) < len(response.Results)
	response.Message = fmt.Sprintf("%d/%d categories succeeded, %d events total",
		len(response.Results)-len(response.Errors), len(response.Results), response.TotalEvents)
	log.Printf("Run %s finished: %s", runID, response.Message)

	return response, nil
}

// scrapeCategory fetches, extracts and uploads a single category
func scrapeCategory(ctx context.Context, event LambdaEvent, category services.MelonCategory, s3Client *services.S3Client) CategoryResult {
	result := CategoryResult{Category: category.Key}

	doc, sourceLabel, err := fetchCategory(ctx, event.Source, category)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	run := services.Run(doc, formatForSource(event.Source), event.GenreFilter)
	result.EventsFound = len(run.Events)
	result.Failures = len(run.Failures)

	output := services.BuildOutput(models.NewRunMetadata(sourceLabel), run)
	uploaded, err := s3Client.UploadRunOutputWithTimestamp(ctx, output)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Success = true
	result.UploadedKey = uploaded.Key
	log.Printf("✔ %s: %d events, %d failures → %s", category.Key, result.EventsFound, result.Failures, uploaded.Key)
	return result
}

func fetchCategory(ctx context.Context, source string, category services.MelonCategory) (string, string, error) {
	if sourceOrDefault(source) == "yes24" {
		doc, err := services.NewYes24Client(services.DefaultFetchTimeout).FetchListing(ctx, category.Key)
		return doc, "yes24:" + category.Key, err
	}
	doc, err := services.NewMelonClient(services.DefaultFetchTimeout).FetchProductList(ctx, category)
	return doc, "melon:" + category.Key, err
}

// selectedCategories resolves the event's category filter against the
// registry. yes24 genre keys are mapped onto placeholder categories so
// both sources share the same loop.
func selectedCategories(event LambdaEvent) []services.MelonCategory {
	if sourceOrDefault(event.Source) == "yes24" {
		keys := event.CategoryFilter
		if len(keys) == 0 {
			keys = services.Yes24GenreKeys()
		}
		categories := make([]services.MelonCategory, 0, len(keys))
		for _, key := range keys {
			categories = append(categories, services.MelonCategory{Key: key, Name: key})
		}
		return categories
	}

	all := services.MelonCategories()
	if len(event.CategoryFilter) == 0 {
		return all
	}
	selected := make([]services.MelonCategory, 0, len(event.CategoryFilter))
	for _, key := range event.CategoryFilter {
		if category, ok := services.MelonCategoryByKey(key); ok {
			selected = append(selected, category)
		} else {
			log.Printf("⚠ Skipping unknown category %q", key)
		}
	}
	return selected
}

func formatForSource(source string) models.SourceFormat {
	if sourceOrDefault(source) == "yes24" {
		return models.FormatHTML
	}
	return models.FormatJSON
}

func sourceOrDefault(source string) string {
	if source == "" {
		return "melon"
	}
	return source
}

func main() {
	lambda.Start(HandleScraping)
}
