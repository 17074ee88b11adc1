package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/popcorn-picks/backend/internal/tmdb"
)

// MovieHandler proxies the movie catalog. Responses are passed through
// as-is so the frontend sees one consistent shape.
type MovieHandler struct {
	catalog *tmdb.Client
}

func NewMovieHandler(catalog *tmdb.Client) *MovieHandler {
	return &MovieHandler{catalog: catalog}
}

func (h *MovieHandler) Search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		return badRequest(c, "query is required")
	}
	page := c.QueryInt("page", 1)

	movies, err := h.catalog.SearchMovies(c.Context(), query, page)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"movies": movies})
}

func (h *MovieHandler) Discover(c *fiber.Ctx) error {
	genreID, err := strconv.ParseInt(c.Query("genre"), 10, 64)
	if err != nil {
		return badRequest(c, "genre is required")
	}
	page := c.QueryInt("page", 1)

	movies, err := h.catalog.MoviesByGenre(c.Context(), genreID, page)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"movies": movies})
}

func (h *MovieHandler) Details(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("movieID"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid movie id")
	}

	detail, err := h.catalog.MovieDetails(c.Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(detail)
}

func (h *MovieHandler) Genres(c *fiber.Ctx) error {
	genres, err := h.catalog.Genres(c.Context())
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"genres": genres})
}

func (h *MovieHandler) Providers(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("movieID"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid movie id")
	}

	providers, err := h.catalog.WatchProviders(c.Context(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"providers": providers})
}

func (h *MovieHandler) ProvidersList(c *fiber.Ctx) error {
	providers, err := h.catalog.WatchProvidersList(c.Context())
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"providers": providers})
}
