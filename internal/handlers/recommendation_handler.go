package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/popcorn-picks/backend/internal/authctx"
	"github.com/popcorn-picks/backend/internal/services"
)

type RecommendationHandler struct {
	recommendationService *services.RecommendationService
	matchService          *services.MatchService
	partnerService        *services.PartnerService
	preferenceService     *services.PreferenceService
	watchlistService      *services.WatchlistService
}

func NewRecommendationHandler(rec *services.RecommendationService, match *services.MatchService, partner *services.PartnerService, pref *services.PreferenceService, watchlist *services.WatchlistService) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationService: rec,
		matchService:          match,
		partnerService:        partner,
		preferenceService:     pref,
		watchlistService:      watchlist,
	}
}

// Solo recommends movies for the caller from their swipe history, optionally
// steered by mood and occasion query params.
func (h *RecommendationHandler) Solo(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	genres, err := h.matchService.LikedGenres(c.Context(), userID)
	if err != nil {
		return respondErr(c, err)
	}
	// fold in genres recorded before the user ever swiped in the app
	if stored, err := h.preferenceService.LikedGenres(c.Context(), userID); err == nil {
		genres = mergeIDs(genres, stored)
	}

	liked, disliked, err := h.matchService.SwipedMovieIDs(c.Context(), userID)
	if err != nil {
		return respondErr(c, err)
	}

	mood := c.Query("mood")
	occasion := c.Query("occasion")
	movies := h.recommendationService.Solo(c.Context(), genres, liked, disliked, mood, occasion)
	return c.JSON(fiber.Map{"movies": movies})
}

// Couple recommends movies for the caller's couple from both members'
// combined liked genres. Matched movies and the joint watchlist count as
// already seen and are excluded.
func (h *RecommendationHandler) Couple(c *fiber.Ctx) error {
	couple, errResp := requireCouple(c, h.partnerService)
	if couple == nil {
		return errResp
	}

	genres1, err := h.matchService.LikedGenres(c.Context(), couple.User1ID)
	if err != nil {
		return respondErr(c, err)
	}
	genres2, err := h.matchService.LikedGenres(c.Context(), couple.User2ID)
	if err != nil {
		return respondErr(c, err)
	}

	matches, err := h.matchService.ListMatches(c.Context(), couple.ID)
	if err != nil {
		return respondErr(c, err)
	}
	shared := make([]int64, 0, len(matches))
	for _, m := range matches {
		shared = append(shared, m.MovieID)
	}
	// the joint watchlist is already-seen too, not just matches
	watchlisted, err := h.watchlistService.List(c.Context(), couple.ID)
	if err != nil {
		return respondErr(c, err)
	}
	shared = mergeIDs(shared, watchlisted)

	movies := h.recommendationService.Couple(c.Context(), mergeIDs(genres1, genres2), shared)
	return c.JSON(fiber.Map{"movies": movies})
}

func mergeIDs(a, b []int64) []int64 {
	seen := make(map[int64]struct{}, len(a)+len(b))
	out := make([]int64, 0, len(a)+len(b))
	for _, id := range append(a, b...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
