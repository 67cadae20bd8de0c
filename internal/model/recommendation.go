package model

const RecommendationCount = 3

// Recommendation lives for one request. Enrichment fields stay nil when the
// metadata lookup found nothing.
type Recommendation struct {
	Title       string  `json:"title"`
	Explanation string  `json:"explanation"`
	PosterURL   *string `json:"poster_url,omitempty"`
	TMDBID      *int64  `json:"tmdb_id,omitempty"`
	ReleaseYear *int    `json:"release_year,omitempty"`
	Overview    *string `json:"overview,omitempty"`
}
