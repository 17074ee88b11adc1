package tmdb

// Movie is a catalog entry as returned by list endpoints.
type Movie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	Popularity  float64 `json:"popularity"`
	GenreIDs    []int64 `json:"genre_ids"`
}

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MovieDetail is the full record for a single movie.
type MovieDetail struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	Runtime     int     `json:"runtime"`
	VoteAverage float64 `json:"vote_average"`
	Popularity  float64 `json:"popularity"`
	Genres      []Genre `json:"genres"`
}

// Movie flattens the detail record into the list shape.
func (d *MovieDetail) Movie() Movie {
	genreIDs := make([]int64, 0, len(d.Genres))
	for _, g := range d.Genres {
		genreIDs = append(genreIDs, g.ID)
	}
	return Movie{
		ID:          d.ID,
		Title:       d.Title,
		Overview:    d.Overview,
		PosterPath:  d.PosterPath,
		ReleaseDate: d.ReleaseDate,
		VoteAverage: d.VoteAverage,
		Popularity:  d.Popularity,
		GenreIDs:    genreIDs,
	}
}

type Provider struct {
	ProviderID   int64  `json:"provider_id"`
	ProviderName string `json:"provider_name"`
	LogoPath     string `json:"logo_path"`
}

type pagedMovies struct {
	Page    int     `json:"page"`
	Results []Movie `json:"results"`
}

type genreList struct {
	Genres []Genre `json:"genres"`
}

type providerList struct {
	Results []Provider `json:"results"`
}

type movieProviders struct {
	Results map[string]struct {
		Flatrate []Provider `json:"flatrate"`
		Rent     []Provider `json:"rent"`
		Buy      []Provider `json:"buy"`
	} `json:"results"`
}
