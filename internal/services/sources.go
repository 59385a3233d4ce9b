package services

import "sort"

// Yes24Genres maps the CLI genre selector onto the listing page's
// numeric genre codes. "all" requests the unfiltered listing.
var Yes24Genres = map[string]string{
	"all":        "",
	"concert":    "15456",
	"musical":    "15457",
	"play":       "15458",
	"classical":  "15459",
	"exhibition": "15460",
}

// MelonCategory describes one product-list API category
type MelonCategory struct {
	Key           string `json:"key"`
	Name          string `json:"name"`
	PerfGenreCode string `json:"perfGenreCode"`
	PerfThemeCode string `json:"perfThemeCode"`
	Description   string `json:"description"`
}

// MelonCategories returns the product-list categories to fetch, in the
// order they should be processed.
func MelonCategories() []MelonCategory {
	return []MelonCategory{
		{
			Key:           "concerts",
			Name:          "Concerts",
			PerfGenreCode: "GENRE_CON_ALL",
			Description:   "All concert events",
		},
		{
			Key:           "arts",
			Name:          "Arts & Theater",
			PerfGenreCode: "GENRE_ART_ALL",
			Description:   "Theater, musicals, and art performances",
		},
		{
			Key:           "fanmeetings",
			Name:          "Fan Meetings",
			PerfGenreCode: "GENRE_FAN_ALL",
			Description:   "Fan meetings and special events",
		},
		{
			Key:           "classical",
			Name:          "Classical",
			PerfGenreCode: "GENRE_CLA_ALL",
			Description:   "Classical music and opera",
		},
		{
			Key:           "exhibitions",
			Name:          "Exhibitions",
			PerfGenreCode: "GENRE_EXH_ALL",
			Description:   "Exhibitions and cultural events",
		},
		{
			Key:           "all",
			Name:          "All Categories",
			PerfGenreCode: "GENRE_ALL",
			PerfThemeCode: "THEME_ALL",
			Description:   "All available events across genres",
		},
	}
}

// MelonCategoryByKey looks up a category by its CLI key
func MelonCategoryByKey(key string) (MelonCategory, bool) {
	for _, category := range MelonCategories() {
		if category.Key == key {
			return category, true
		}
	}
	return MelonCategory{}, false
}

// Yes24GenreKeys returns the supported genre selector values, sorted
// for stable usage messages.
func Yes24GenreKeys() []string {
	keys := make([]string, 0, len(Yes24Genres))
	for key := range Yes24Genres {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
