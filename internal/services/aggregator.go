package services

import (
	"regexp"
	"strconv"
	"strings"

	"ticket-events-scraper/internal/models"
)

// months is the fixed vocabulary used to pull a month token out of the
// loosely formatted date_time strings. Checked in calendar order; the
// first name or abbreviation contained in the string wins and is
// counted under its abbreviation.
var months = []struct {
	name   string
	abbrev string
}{
	{"January", "Jan"}, {"February", "Feb"}, {"March", "Mar"},
	{"April", "Apr"}, {"May", "May"}, {"June", "Jun"},
	{"July", "Jul"}, {"August", "Aug"}, {"September", "Sep"},
	{"October", "Oct"}, {"November", "Nov"}, {"December", "Dec"},
}

var firstNumber = regexp.MustCompile(`\d+`)

// Summarize reduces extracted events into per-run summary statistics in
// a single pass. Every event lands in exactly one genre bucket, one
// venue bucket and one age bucket ("unspecified" when the field is
// empty or unclassifiable). The month table is the one exception: an
// event whose date_time yields no month token is simply not counted
// there, matching the upstream parser's behavior.
func Summarize(events []models.EventRecord, failureCount int) models.SummaryStatistics {
	summary := models.SummaryStatistics{
		TotalEvents:   len(events),
		TotalFailures: failureCount,
		Genres:        models.NewCountTable(),
		Venues:        models.NewCountTable(),
		AgeGroups:     models.NewCountTable(),
		Months:        models.NewCountTable(),
	}

	for _, event := range events {
		summary.Genres.Add(genreBucket(event.Details.Genre))
		summary.Venues.Add(venueBucket(event.Details.Venue))
		summary.AgeGroups.Add(AgeBucket(event.Details.AgeGroup))

		if month, ok := monthToken(event.Details.DateTime); ok {
			summary.Months.Add(month)
		}
	}

	return summary
}

// genreBucket normalizes a raw genre label into its statistics key:
// bracket decoration stripped, whitespace trimmed, empty → unspecified.
// The record itself keeps the label verbatim.
func genreBucket(genre string) string {
	key := models.StripBrackets(genre)
	if key == "" {
		return models.BucketUnspecified
	}
	return key
}

func venueBucket(venue string) string {
	if strings.TrimSpace(venue) == "" {
		return models.BucketUnspecified
	}
	return venue
}

// AgeBucket classifies a raw age restriction string into the fixed
// bucket set. The first number found selects the tier ("8 years and
// over" and "8+" both land in "8+"); a numberless "all" means no
// restriction; anything else is unspecified.
func AgeBucket(ageGroup string) string {
	normalized := strings.ToLower(strings.TrimSpace(ageGroup))
	if normalized == "" {
		return models.BucketUnspecified
	}

	if digits := firstNumber.FindString(normalized); digits != "" {
		age, err := strconv.Atoi(digits)
		if err != nil {
			return models.BucketUnspecified
		}
		switch {
		case age >= 19:
			return models.AgeBucket19Plus
		case age >= 15:
			return models.AgeBucket15Plus
		case age >= 12:
			return models.AgeBucket12Plus
		case age >= 8:
			return models.AgeBucket8Plus
		default:
			// below the lowest restricted tier, effectively open to all
			return models.AgeBucketAllAges
		}
	}

	if strings.Contains(normalized, "all") {
		return models.AgeBucketAllAges
	}

	return models.BucketUnspecified
}

// monthToken scans a date_time string for the first month name in the
// fixed vocabulary. Returns the abbreviated label and whether anything
// matched; no match means the event is excluded from the month table.
func monthToken(dateTime string) (string, bool) {
	if dateTime == "" {
		return "", false
	}
	for _, m := range months {
		if strings.Contains(dateTime, m.abbrev) || strings.Contains(dateTime, m.name) {
			return m.abbrev, true
		}
	}
	return "", false
}
