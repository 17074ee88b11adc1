package dto

type SwipeRequest struct {
	MovieID int64 `json:"movie_id"`
	Liked   bool  `json:"liked"`
	// CoupleScoped records the swipe against the caller's active couple.
	// Without an active couple the swipe is stored solo and never matches.
	CoupleScoped bool    `json:"couple_scoped"`
	GenreIDs     []int64 `json:"genre_ids"`
}

type SwipeResponse struct {
	Matched bool `json:"matched"`
}

type WatchlistRequest struct {
	MovieID int64 `json:"movie_id"`
}

type WatchlistResponse struct {
	MovieIDs []int64 `json:"movie_ids"`
}

type PersonalizeRequest struct {
	Settings string `json:"settings"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type MoodChatRequest struct {
	Mood string `json:"mood"`
}

type SuggestionResponse struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

type ChatResponse struct {
	Reply       string               `json:"reply"`
	Suggestions []SuggestionResponse `json:"suggestions"`
}
