package main

import (
	"testing"

	"ticket-events-scraper/internal/models"
)

func TestSelectedCategoriesDefaults(t *testing.T) {
	categories := selectedCategories(LambdaEvent{})
	if len(categories) != 6 {
		t.Errorf("Expected all 6 melon categories by default, got %d", len(categories))
	}
}

func TestSelectedCategoriesFilter(t *testing.T) {
	event := LambdaEvent{CategoryFilter: []string{"concerts", "classical", "bogus"}}
	categories := selectedCategories(event)

	if len(categories) != 2 {
		t.Fatalf("Expected 2 resolved categories, got %d", len(categories))
	}
	if categories[0].Key != "concerts" || categories[1].Key != "classical" {
		t.Errorf("Unexpected categories: %+v", categories)
	}
}

func TestSelectedCategoriesYes24(t *testing.T) {
	event := LambdaEvent{Source: "yes24", CategoryFilter: []string{"concert"}}
	categories := selectedCategories(event)

	if len(categories) != 1 || categories[0].Key != "concert" {
		t.Errorf("Expected the yes24 concert genre, got %+v", categories)
	}
}

func TestFormatForSource(t *testing.T) {
	if got := formatForSource(""); got != models.FormatJSON {
		t.Errorf("Expected default melon source to use JSON format, got %s", got)
	}
	if got := formatForSource("yes24"); got != models.FormatHTML {
		t.Errorf("Expected yes24 source to use HTML format, got %s", got)
	}
}
