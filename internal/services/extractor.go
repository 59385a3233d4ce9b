package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"ticket-events-scraper/internal/models"
)

// ExtractEvents converts one raw listing document into event records plus
// per-block failures. It is a pure function of its inputs: no I/O, no
// retained state, safe to call concurrently for independent documents.
//
// A block that cannot yield either identifying field (event_id, title)
// becomes a ParseFailure; any other missing field falls back to an empty
// value. A document that matches no expected structure at all yields zero
// events and a single whole-document failure. ExtractEvents never returns
// an error: the caller decides whether an empty result is fatal.
//
// genreFilter, when non-empty, restricts extraction to blocks whose
// bracket-stripped genre matches it (case-insensitive); filtered blocks
// contribute neither events nor failures.
func ExtractEvents(doc string, format models.SourceFormat, genreFilter string) ([]models.EventRecord, []models.ParseFailure) {
	switch format {
	case models.FormatJSON:
		return extractFromJSON(doc, genreFilter)
	default:
		return extractFromHTML(doc, genreFilter)
	}
}

// ---------------- HTML strategy ----------------

// htmlFieldRule locates one raw field inside a listing block.
type htmlFieldRule func(block *html.Node) string

// htmlFieldRules maps record fields to their structural location inside
// a `ul.list_wrap` block. The labeled detail lines (genre, venue, ...)
// share one list structure and are handled by detailKeyRules below.
var htmlFieldRules = map[string]htmlFieldRule{
	// li.poster > a[href], the event detail link and the id carrier
	"event_url": func(block *html.Node) string {
		if link := findFirst(findFirst(block, "li", "poster"), "a", ""); link != nil {
			return attrVal(link, "href")
		}
		return ""
	},
	// li.poster a img[src]
	"poster_image": func(block *html.Node) string {
		if img := findFirst(findFirst(block, "li", "poster"), "img", ""); img != nil {
			return attrVal(img, "src")
		}
		return ""
	},
	// li.conlist h3, preferring the nested link text
	"title": func(block *html.Node) string {
		heading := findFirst(findFirst(block, "li", "conlist"), "h3", "")
		if heading == nil {
			return ""
		}
		if link := findFirst(heading, "a", ""); link != nil {
			return nodeText(link)
		}
		return nodeText(heading)
	},
	// following-sibling div.btn a[href]
	"booking_url": func(block *html.Node) string {
		for sib := block.NextSibling; sib != nil; sib = sib.NextSibling {
			if sib.Type != html.ElementNode {
				continue
			}
			if sib.Data == "div" && hasClass(sib, "btn") {
				if link := findFirst(sib, "a", ""); link != nil {
					return attrVal(link, "href")
				}
				return ""
			}
			if sib.Data == "ul" && hasClass(sib, "list_wrap") {
				break // next event block, no booking button for this one
			}
		}
		return ""
	},
}

// detailKeyRules maps the label of a `ul.con_txt` detail line onto the
// EventDetails field it fills. First matching rule wins; unknown labels
// are dropped. Order matters: "Date/Time" must be tested before the
// bare "Time" (duration) label.
var detailKeyRules = []struct {
	match  func(key string) bool
	assign func(d *models.EventDetails, value string)
}{
	{func(k string) bool { return strings.Contains(k, "Genre") },
		func(d *models.EventDetails, v string) { d.Genre = v }},
	{func(k string) bool { return strings.Contains(k, "Date/Time") },
		func(d *models.EventDetails, v string) { d.DateTime = v }},
	{func(k string) bool { return strings.Contains(k, "Venue") },
		func(d *models.EventDetails, v string) { d.Venue = v }},
	{func(k string) bool { return strings.Contains(k, "Age") },
		func(d *models.EventDetails, v string) { d.AgeGroup = v }},
	{func(k string) bool { return k == "Time" },
		func(d *models.EventDetails, v string) { d.Duration = v }},
}

func extractFromHTML(doc string, genreFilter string) ([]models.EventRecord, []models.ParseFailure) {
	events := []models.EventRecord{}
	failures := []models.ParseFailure{}

	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		failures = append(failures, models.ParseFailure{
			BlockIndex: models.WholeDocumentIndex,
			Reason:     fmt.Sprintf("failed to parse HTML document: %v", err),
		})
		return events, failures
	}

	blocks := findAll(root, "ul", "list_wrap")
	if len(blocks) == 0 {
		failures = append(failures, models.ParseFailure{
			BlockIndex: models.WholeDocumentIndex,
			Reason:     "no event containers (ul.list_wrap) found in document",
		})
		return events, failures
	}

	for i, block := range blocks {
		fields := make(map[string]string, len(htmlFieldRules))
		for name, rule := range htmlFieldRules {
			fields[name] = strings.TrimSpace(rule(block))
		}

		details := extractDetails(block)

		if !genreMatches(details.Genre, genreFilter) {
			continue
		}

		record, failure := finalizeBlock(i, fields, details)
		if failure != nil {
			failures = append(failures, *failure)
			continue
		}
		events = append(events, record)
	}

	return events, failures
}

// extractDetails reads the labeled "Key : Value" lines of a block's
// ul.con_txt list into EventDetails.
func extractDetails(block *html.Node) models.EventDetails {
	var details models.EventDetails

	content := findFirst(block, "li", "conlist")
	list := findFirst(content, "ul", "con_txt")
	if list == nil {
		return details
	}

	for _, item := range findAll(list, "li", "") {
		text := nodeText(item)
		key, value, found := strings.Cut(text, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		for _, rule := range detailKeyRules {
			if rule.match(key) {
				rule.assign(&details, value)
				break
			}
		}
	}

	return details
}

// finalizeBlock applies the identifying-field rule: a block missing both
// a recoverable event_id and a title is a ParseFailure, anything less is
// defaulted. Runs after all per-field extraction so one bad field never
// short-circuits the rest of the block.
func finalizeBlock(index int, fields map[string]string, details models.EventDetails) (models.EventRecord, *models.ParseFailure) {
	eventID := models.ExtractEventID(fields["event_url"])
	if eventID == "" {
		eventID = models.ExtractEventID(fields["booking_url"])
	}

	title := strings.TrimSpace(fields["title"])

	if eventID == "" && title == "" {
		return models.EventRecord{}, &models.ParseFailure{
			BlockIndex: index,
			Reason:     "block has no recoverable event_id or title",
		}
	}

	bookingURL := fields["booking_url"]
	if bookingURL == "" {
		bookingURL = fields["event_url"]
	}

	return models.EventRecord{
		EventID:     eventID,
		Title:       title,
		PosterImage: fields["poster_image"],
		Details:     details,
		BookingURL:  bookingURL,
	}, nil
}

// genreMatches reports whether a raw genre passes the filter. Both sides
// are compared bracket-stripped and case-insensitively.
func genreMatches(rawGenre, filter string) bool {
	if strings.TrimSpace(filter) == "" {
		return true
	}
	return strings.EqualFold(models.StripBrackets(rawGenre), models.StripBrackets(filter))
}

// ---------------- JSON strategy ----------------

// jsonFieldKeys lists the alternate payload keys for each record field,
// checked in order. Covers the product-list API naming plus the generic
// snake_case names, so re-parsing our own output also works.
var jsonFieldKeys = map[string][]string{
	"event_id":     {"prodId", "perfId", "event_id", "id"},
	"title":        {"perfName", "prodName", "title"},
	"poster_image": {"posterImg", "posterImage", "poster_image"},
	"genre":        {"perfTypeName", "perfTypeCode", "genre"},
	"venue":        {"placeName", "venue"},
	"date_time":    {"periodInfo", "perfDate", "date_time"},
	"age_group":    {"prfAge", "ageLimit", "age_group"},
	"duration":     {"runningTime", "duration"},
	"booking_url":  {"linkUrl", "bookingUrl", "booking_url"},
}

func extractFromJSON(doc string, genreFilter string) ([]models.EventRecord, []models.ParseFailure) {
	events := []models.EventRecord{}
	failures := []models.ParseFailure{}

	objects, docErr := decodeEventCollection(doc)
	if docErr != "" {
		failures = append(failures, models.ParseFailure{
			BlockIndex: models.WholeDocumentIndex,
			Reason:     docErr,
		})
		return events, failures
	}

	for i, raw := range objects {
		obj, ok := raw.(map[string]interface{})
		if !ok || len(obj) == 0 {
			failures = append(failures, models.ParseFailure{
				BlockIndex: i,
				Reason:     "payload entry is not an event object",
			})
			continue
		}

		fields := make(map[string]string, len(jsonFieldKeys))
		for name, keys := range jsonFieldKeys {
			fields[name] = stringField(obj, keys...)
		}

		details := models.EventDetails{
			Genre:    fields["genre"],
			DateTime: fields["date_time"],
			Venue:    fields["venue"],
			AgeGroup: fields["age_group"],
			Duration: fields["duration"],
		}

		if !genreMatches(details.Genre, genreFilter) {
			continue
		}

		eventID := fields["event_id"]
		if eventID == "" {
			eventID = models.ExtractEventID(fields["booking_url"])
		}
		title := strings.TrimSpace(fields["title"])

		if eventID == "" && title == "" {
			failures = append(failures, models.ParseFailure{
				BlockIndex: i,
				Reason:     "event object has no recoverable event_id or title",
			})
			continue
		}

		events = append(events, models.EventRecord{
			EventID:     eventID,
			Title:       title,
			PosterImage: fields["poster_image"],
			Details:     details,
			BookingURL:  fields["booking_url"],
		})
	}

	return events, failures
}

// decodeEventCollection accepts either a product-list envelope
// {"data": [...]} or a bare top-level array of event objects. The second
// return value is a whole-document failure reason ("" on success).
func decodeEventCollection(doc string) ([]interface{}, string) {
	dec := json.NewDecoder(strings.NewReader(doc))
	dec.UseNumber()

	var payload interface{}
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Sprintf("document is not valid JSON: %v", err)
	}

	switch v := payload.(type) {
	case []interface{}:
		return v, ""
	case map[string]interface{}:
		data, ok := v["data"].([]interface{})
		if !ok {
			return nil, "JSON payload has no event collection (missing \"data\" array)"
		}
		return data, ""
	default:
		return nil, "JSON payload is neither an object nor an array"
	}
}

// stringField returns the first non-empty value among the given keys,
// rendering numbers as their literal text.
func stringField(obj map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		v, ok := obj[key]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s
			}
		case json.Number:
			return t.String()
		}
	}
	return ""
}

// ---------------- HTML tree helpers ----------------

// findAll collects element nodes with the given tag (and class, when
// non-empty) in document order, depth first.
func findAll(n *html.Node, tag, class string) []*html.Node {
	var out []*html.Node
	if n == nil {
		return out
	}
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == tag && (class == "" || hasClass(node, class)) {
			out = append(out, node)
			return // listing blocks do not nest
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		walk(child)
	}
	return out
}

// findFirst returns the first matching descendant, or nil. A nil start
// node is allowed so selector lookups chain without nil checks.
func findFirst(n *html.Node, tag, class string) *html.Node {
	matches := findAll(n, tag, class)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrVal(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attrVal(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// nodeText concatenates the text content of a node's subtree, collapsing
// surrounding whitespace the way a browser renders it.
func nodeText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var parts []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			if t := strings.TrimSpace(node.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}
