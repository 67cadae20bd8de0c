package handler

type ProfileResponse struct {
	UserID         string   `json:"user_id"`
	Email          string   `json:"email"`
	DisplayName    string   `json:"display_name"`
	AvatarURL      string   `json:"avatar_url"`
	Bio            string   `json:"bio"`
	FavoriteGenres []string `json:"favorite_genres"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
	IsFollowing    *bool    `json:"is_following,omitempty"`
}

type ProfileStatsResponse struct {
	FollowersCount int                `json:"followers_count"`
	FollowingCount int                `json:"following_count"`
	RecentLogs     []WatchLogResponse `json:"recent_logs"`
}

type AuthorResponse struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

type WatchLogResponse struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Title     string          `json:"title"`
	Caption   *string         `json:"caption"`
	Emoji     *string         `json:"emoji"`
	ImageURL  *string         `json:"image_url"`
	IsPost    bool            `json:"is_post"`
	CreatedAt string          `json:"created_at"`
	Profile   *AuthorResponse `json:"profile,omitempty"`
}

type FeedResponse struct {
	Logs   []WatchLogResponse `json:"logs"`
	Total  int                `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

type MediaItemResponse struct {
	MediaType   string  `json:"media_type"`
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date,omitempty"`
	PosterURL   *string `json:"poster_url"`
	Overview    string  `json:"overview"`
	VoteAverage float64 `json:"vote_average"`
}

type CastResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Character string  `json:"character"`
	PhotoURL  *string `json:"photo_url"`
}

type ProviderResponse struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	LogoURL *string `json:"logo_url"`
}

type StreamingResponse struct {
	Region   string             `json:"region"`
	Link     string             `json:"link,omitempty"`
	Flatrate []ProviderResponse `json:"flatrate"`
	Rent     []ProviderResponse `json:"rent"`
	Buy      []ProviderResponse `json:"buy"`
}

type MovieDetailResponse struct {
	ID           int64             `json:"id"`
	Title        string            `json:"title"`
	Overview     string            `json:"overview"`
	PosterURL    *string           `json:"poster_url"`
	ReleaseDate  string            `json:"release_date"`
	ReleaseYear  *int              `json:"release_year"`
	Runtime      int               `json:"runtime"`
	RuntimeLabel string            `json:"runtime_label"`
	VoteAverage  float64           `json:"vote_average"`
	Genres       []string          `json:"genres"`
	Director     string            `json:"director"`
	Cast         []CastResponse    `json:"cast"`
	Streaming    StreamingResponse `json:"streaming"`
}
