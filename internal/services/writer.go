package services

import (
	"encoding/json"
	"fmt"

	"github.com/google/renameio/v2"

	"ticket-events-scraper/internal/models"
)

// WriteRunOutput serializes a run's output to path as indented JSON.
// The write is atomic: readers never observe a partially written file,
// and a failed run leaves any previous output intact.
func WriteRunOutput(path string, output models.RunOutput) error {
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run output: %w", err)
	}
	data = append(data, '\n')

	pending, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("failed to create pending output file: %w", err)
	}
	defer pending.Cleanup() //nolint:errcheck // no-op after a successful replace

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("failed to write output data: %w", err)
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("failed to replace output file: %w", err)
	}

	return nil
}
