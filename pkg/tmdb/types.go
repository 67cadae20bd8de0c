package tmdb

import (
	"strconv"
	"strings"
)

type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

type Movie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	Overview    string  `json:"overview"`
	VoteAverage float64 `json:"vote_average"`
	GenreIDs    []int64 `json:"genre_ids"`
}

type TVShow struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	PosterPath   string  `json:"poster_path"`
	FirstAirDate string  `json:"first_air_date"`
	Overview     string  `json:"overview"`
	VoteAverage  float64 `json:"vote_average"`
	GenreIDs     []int64 `json:"genre_ids"`
}

// MediaItem is a movie or a TV show behind one shape; MediaType says which.
type MediaItem struct {
	MediaType   MediaType `json:"media_type"`
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	ReleaseDate string    `json:"release_date,omitempty"`
	PosterPath  string    `json:"-"`
	Overview    string    `json:"overview"`
	VoteAverage float64   `json:"vote_average"`
}

func (m Movie) Item() MediaItem {
	return MediaItem{
		MediaType:   MediaTypeMovie,
		ID:          m.ID,
		Title:       m.Title,
		ReleaseDate: m.ReleaseDate,
		PosterPath:  m.PosterPath,
		Overview:    m.Overview,
		VoteAverage: m.VoteAverage,
	}
}

func (s TVShow) Item() MediaItem {
	return MediaItem{
		MediaType:   MediaTypeTV,
		ID:          s.ID,
		Title:       s.Name,
		ReleaseDate: s.FirstAirDate,
		PosterPath:  s.PosterPath,
		Overview:    s.Overview,
		VoteAverage: s.VoteAverage,
	}
}

type searchResponse[T any] struct {
	Page    int `json:"page"`
	Results []T `json:"results"`
}

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type MovieDetails struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	Runtime     int     `json:"runtime"`
	VoteAverage float64 `json:"vote_average"`
	Genres      []Genre `json:"genres"`
	Tagline     string  `json:"tagline"`
}

type CastMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

type CrewMember struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

type Credits struct {
	ID   int64        `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Director returns the first crew member credited as Director.
func (c *Credits) Director() (string, bool) {
	if c == nil {
		return "", false
	}
	for _, p := range c.Crew {
		if p.Job == "Director" {
			return p.Name, true
		}
	}
	return "", false
}

type Provider struct {
	ProviderID      int64  `json:"provider_id"`
	ProviderName    string `json:"provider_name"`
	LogoPath        string `json:"logo_path"`
	DisplayPriority int    `json:"display_priority"`
}

type RegionProviders struct {
	Link     string     `json:"link"`
	Flatrate []Provider `json:"flatrate"`
	Rent     []Provider `json:"rent"`
	Buy      []Provider `json:"buy"`
}

type WatchProviders struct {
	ID      int64                      `json:"id"`
	Results map[string]RegionProviders `json:"results"`
}

// Region returns the availability for a region code, empty when unknown.
func (w *WatchProviders) Region(code string) RegionProviders {
	if w == nil || w.Results == nil {
		return RegionProviders{}
	}
	return w.Results[strings.ToUpper(code)]
}

// ReleaseYear extracts the year from a YYYY-MM-DD date.
func ReleaseYear(date string) (int, bool) {
	if len(date) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil || year <= 0 {
		return 0, false
	}
	return year, true
}
