package models

// RunOutput represents the complete JSON structure written at the end of a run
type RunOutput struct {
	Metadata RunMetadata       `json:"metadata"`
	Summary  SummaryStatistics `json:"summary_statistics"`
	Events   []EventRecord     `json:"events"`
}

// RunMetadata contains metadata about a single scraping run
type RunMetadata struct {
	RunID            string  `json:"run_id"`
	ParsingTimestamp float64 `json:"parsing_timestamp"` // epoch seconds
	ParsingDate      string  `json:"parsing_date"`      // local time, YYYY-MM-DD HH:MM:SS
	Source           string  `json:"source"`
}

// EventRecord represents a single event extracted from a listing document
type EventRecord struct {
	EventID     string       `json:"event_id"`
	Title       string       `json:"title"`
	PosterImage string       `json:"poster_image,omitempty"`
	Details     EventDetails `json:"details"`
	BookingURL  string       `json:"booking_url,omitempty"`
}

// EventDetails holds the labeled detail fields of an event listing.
// All fields are raw strings as found in the source; missing values
// are empty, never an error.
type EventDetails struct {
	Genre    string `json:"genre,omitempty"`    // may be bracket-decorated, e.g. "[Live Concert]"
	DateTime string `json:"date_time,omitempty"` // loosely formatted, e.g. "Aug 16, 2025"
	Venue    string `json:"venue,omitempty"`
	AgeGroup string `json:"age_group,omitempty"`
	Duration string `json:"duration,omitempty"` // e.g. "100 minutes"
}

// ParseFailure records one block that could not be extracted.
// BlockIndex is the zero-based position of the block in the source
// document; WholeDocumentIndex marks a failure of the document itself.
type ParseFailure struct {
	BlockIndex int    `json:"block_index"`
	Reason     string `json:"reason"`
}

// WholeDocumentIndex is the BlockIndex used when the entire document
// failed to match any expected structure.
const WholeDocumentIndex = -1

// RunResult is what the core extraction+aggregation produces for one run
type RunResult struct {
	Events   []EventRecord     `json:"events"`
	Failures []ParseFailure    `json:"failures"`
	Summary  SummaryStatistics `json:"summary"`
}

// SummaryStatistics holds the per-run aggregate counts
type SummaryStatistics struct {
	TotalEvents   int         `json:"total_events"`
	TotalFailures int         `json:"total_failures"`
	Genres        *CountTable `json:"genres"`
	Venues        *CountTable `json:"venues"`
	AgeGroups     *CountTable `json:"age_groups"`
	Months        *CountTable `json:"months"`
}

// SourceFormat selects the extraction strategy for a raw document
type SourceFormat string

const (
	FormatHTML SourceFormat = "html"
	FormatJSON SourceFormat = "json"
)

// Age bucket constants; BucketUnspecified is shared by the genre and
// venue dimensions too.
const (
	AgeBucketAllAges  = "all ages"
	AgeBucket8Plus    = "8+"
	AgeBucket12Plus   = "12+"
	AgeBucket15Plus   = "15+"
	AgeBucket19Plus   = "19+"
	BucketUnspecified = "unspecified"
)
