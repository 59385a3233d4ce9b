package services

import "ticket-events-scraper/internal/models"

// Run executes the core pipeline on an already-fetched, in-memory
// document: extract, then aggregate. It performs no I/O and never
// fails; per-block problems are reported inside the result.
func Run(doc string, format models.SourceFormat, genreFilter string) models.RunResult {
	events, failures := ExtractEvents(doc, format, genreFilter)
	return models.RunResult{
		Events:   events,
		Failures: failures,
		Summary:  Summarize(events, len(failures)),
	}
}

// BuildOutput merges a run result with caller-supplied metadata into
// the serialized file shape.
func BuildOutput(metadata models.RunMetadata, result models.RunResult) models.RunOutput {
	return models.RunOutput{
		Metadata: metadata,
		Summary:  result.Summary,
		Events:   result.Events,
	}
}
