package handlers

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/popcorn-picks/backend/internal/authctx"
	"github.com/popcorn-picks/backend/internal/dto"
	"github.com/popcorn-picks/backend/internal/services"
)

type SwipeHandler struct {
	matchService      *services.MatchService
	partnerService    *services.PartnerService
	preferenceService *services.PreferenceService
}

func NewSwipeHandler(match *services.MatchService, partner *services.PartnerService, pref *services.PreferenceService) *SwipeHandler {
	return &SwipeHandler{matchService: match, partnerService: partner, preferenceService: pref}
}

// Swipe records a like/dislike. Couple-scoped swipes resolve the caller's
// active couple server-side; without one the swipe falls back to solo and
// never produces a match.
func (h *SwipeHandler) Swipe(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.SwipeRequest
	if err := c.BodyParser(&req); err != nil || req.MovieID == 0 {
		return badRequest(c, "movie_id is required")
	}

	coupleID := uuid.Nil
	if req.CoupleScoped {
		couple, err := h.partnerService.ActiveCouple(c.Context(), userID)
		if err != nil {
			return respondErr(c, err)
		}
		if couple != nil {
			coupleID = couple.ID
		}
	}

	matched, err := h.matchService.RecordSwipe(c.Context(), coupleID, userID, req.MovieID, req.Liked, req.GenreIDs)
	if err != nil {
		return respondErr(c, err)
	}

	// write-through to the preference profile; losing this is tolerable
	if req.Liked {
		if err := h.preferenceService.RecordLikedGenres(c.Context(), userID, req.GenreIDs); err != nil {
			slog.Error("failed to record liked genres", "error", err, "user_id", userID)
		}
	}

	return c.JSON(dto.SwipeResponse{Matched: matched})
}

// ListMatches returns the active couple's matched movies.
func (h *SwipeHandler) ListMatches(c *fiber.Ctx) error {
	couple, err := requireCouple(c, h.partnerService)
	if couple == nil {
		return err
	}

	matches, err := h.matchService.ListMatches(c.Context(), couple.ID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"matches": matches})
}

// CheckMatch defensively re-runs detection for one movie, covering a match
// write that failed after the swipe was stored.
func (h *SwipeHandler) CheckMatch(c *fiber.Ctx) error {
	couple, err := requireCouple(c, h.partnerService)
	if couple == nil {
		return err
	}

	movieID, err := parseMovieID(c)
	if err != nil {
		return badRequest(c, "invalid movie id")
	}

	matched, err := h.matchService.CheckMatch(c.Context(), couple.ID, movieID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.SwipeResponse{Matched: matched})
}

func (h *SwipeHandler) RemoveMatch(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	couple, err := requireCouple(c, h.partnerService)
	if couple == nil {
		return err
	}

	movieID, err := parseMovieID(c)
	if err != nil {
		return badRequest(c, "invalid movie id")
	}

	if err := h.matchService.RemoveMatch(c.Context(), couple.ID, userID, movieID); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"message": "match removed"})
}

func parseMovieID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("movieID"), 10, 64)
}
