package services

import (
	"testing"

	"ticket-events-scraper/internal/models"
)

func eventWith(genre, venue, age, dateTime string) models.EventRecord {
	return models.EventRecord{
		EventID: "1",
		Title:   "Some Event",
		Details: models.EventDetails{
			Genre:    genre,
			Venue:    venue,
			AgeGroup: age,
			DateTime: dateTime,
		},
	}
}

func TestSummarizeCompletenessInvariant(t *testing.T) {
	events := []models.EventRecord{
		eventWith("[Live Concert]", "Olympic Hall", "8+", "Aug 16, 2025"),
		eventWith("Musical", "", "", "2025.10.03"),
		eventWith("", "Olympic Hall", "???", ""),
	}

	summary := Summarize(events, 2)

	if summary.TotalEvents != 3 {
		t.Errorf("Expected total_events 3, got %d", summary.TotalEvents)
	}
	if summary.TotalFailures != 2 {
		t.Errorf("Expected total_failures 2, got %d", summary.TotalFailures)
	}
	if got := summary.Genres.Total(); got != summary.TotalEvents {
		t.Errorf("sum(genres) = %d, must equal total_events %d", got, summary.TotalEvents)
	}
	if got := summary.AgeGroups.Total(); got != summary.TotalEvents {
		t.Errorf("sum(age_groups) = %d, must equal total_events %d", got, summary.TotalEvents)
	}
	if got := summary.Venues.Total(); got != summary.TotalEvents {
		t.Errorf("sum(venues) = %d, must equal total_events %d", got, summary.TotalEvents)
	}

	// Months is the asymmetric dimension: events without a month token
	// are excluded, not bucketed as unspecified.
	if got := summary.Months.Total(); got != 1 {
		t.Errorf("Expected 1 month-counted event, got %d", got)
	}
	if summary.Months.Get(models.BucketUnspecified) != 0 {
		t.Error("Months table must not have an unspecified bucket")
	}
}

func TestSummarizeBracketStripping(t *testing.T) {
	decorated := Summarize([]models.EventRecord{eventWith("[Live Concert]", "", "", "")}, 0)
	plain := Summarize([]models.EventRecord{eventWith("Live Concert", "", "", "")}, 0)

	if decorated.Genres.Get("Live Concert") != 1 {
		t.Errorf("Expected bucket key Live Concert for decorated genre, got labels %v", decorated.Genres.Labels())
	}
	if plain.Genres.Get("Live Concert") != 1 {
		t.Errorf("Expected bucket key Live Concert unchanged, got labels %v", plain.Genres.Labels())
	}
}

func TestSummarizeUnspecifiedBuckets(t *testing.T) {
	summary := Summarize([]models.EventRecord{eventWith("", "", "", "")}, 0)

	for name, table := range map[string]*models.CountTable{
		"genres":     summary.Genres,
		"venues":     summary.Venues,
		"age_groups": summary.AgeGroups,
	} {
		if table.Get(models.BucketUnspecified) != 1 {
			t.Errorf("Expected %s unspecified bucket for empty fields, got labels %v", name, table.Labels())
		}
	}
}

func TestAgeBucket(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"8 years and over", models.AgeBucket8Plus},
		{"8+", models.AgeBucket8Plus},
		{"All ages", models.AgeBucketAllAges},
		{"all ages admitted", models.AgeBucketAllAges},
		{"12+", models.AgeBucket12Plus},
		{"13 years and over", models.AgeBucket12Plus},
		{"15+", models.AgeBucket15Plus},
		{"19 and over", models.AgeBucket19Plus},
		{"Over 19 only", models.AgeBucket19Plus},
		{"5+", models.AgeBucketAllAges},
		{"???", models.BucketUnspecified},
		{"", models.BucketUnspecified},
		{"   ", models.BucketUnspecified},
	}

	for _, tt := range tests {
		if got := AgeBucket(tt.input); got != tt.expected {
			t.Errorf("AgeBucket(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestMonthToken(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		found    bool
	}{
		{"Aug 16, 2025 18:00", "Aug", true},
		{"August 16, 2025", "Aug", true},
		{"Sep 5 - Oct 2, 2025", "Sep", true}, // first month in calendar scan order wins
		{"December 31", "Dec", true},
		{"2025.08.16", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, found := monthToken(tt.input)
		if got != tt.expected || found != tt.found {
			t.Errorf("monthToken(%q) = (%q, %v), expected (%q, %v)", tt.input, got, found, tt.expected, tt.found)
		}
	}
}

func TestSummarizeMonthOrder(t *testing.T) {
	// "Sep 5 - Oct 2": Sep is found first because the vocabulary is
	// scanned in calendar order, and only one month is counted.
	summary := Summarize([]models.EventRecord{eventWith("", "", "", "Sep 5 - Oct 2, 2025")}, 0)
	if summary.Months.Get("Sep") != 1 || summary.Months.Get("Oct") != 0 {
		t.Errorf("Expected a single Sep count, got labels %v", summary.Months.Labels())
	}
}

func TestSummarizeVenueVerbatim(t *testing.T) {
	summary := Summarize([]models.EventRecord{eventWith("", "  KSPO DOME  ", "", "")}, 0)
	if summary.Venues.Get("  KSPO DOME  ") != 1 {
		t.Errorf("Expected venue bucket key kept verbatim, got labels %v", summary.Venues.Labels())
	}
}
