package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/popcorn-picks/backend/internal/authctx"
	"github.com/popcorn-picks/backend/internal/dto"
	"github.com/popcorn-picks/backend/internal/services"
)

type WatchlistHandler struct {
	watchlistService  *services.WatchlistService
	partnerService    *services.PartnerService
	preferenceService *services.PreferenceService
}

func NewWatchlistHandler(watchlist *services.WatchlistService, partner *services.PartnerService, pref *services.PreferenceService) *WatchlistHandler {
	return &WatchlistHandler{watchlistService: watchlist, partnerService: partner, preferenceService: pref}
}

// AddJoint puts a movie on the couple's shared watchlist. Re-adding an
// existing entry is a no-op.
func (h *WatchlistHandler) AddJoint(c *fiber.Ctx) error {
	couple, errResp := requireCouple(c, h.partnerService)
	if couple == nil {
		return errResp
	}

	var req dto.WatchlistRequest
	if err := c.BodyParser(&req); err != nil || req.MovieID == 0 {
		return badRequest(c, "movie_id is required")
	}

	if err := h.watchlistService.Add(c.Context(), couple.ID, req.MovieID); err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "added to watchlist"})
}

func (h *WatchlistHandler) RemoveJoint(c *fiber.Ctx) error {
	couple, errResp := requireCouple(c, h.partnerService)
	if couple == nil {
		return errResp
	}

	movieID, err := strconv.ParseInt(c.Params("movieID"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid movie id")
	}

	if err := h.watchlistService.Remove(c.Context(), couple.ID, movieID); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"message": "removed from watchlist"})
}

func (h *WatchlistHandler) ListJoint(c *fiber.Ctx) error {
	couple, errResp := requireCouple(c, h.partnerService)
	if couple == nil {
		return errResp
	}

	ids, err := h.watchlistService.List(c.Context(), couple.ID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.WatchlistResponse{MovieIDs: ids})
}

// AddSolo manages the personal (pre-partner) watchlist backed by the KV store.
func (h *WatchlistHandler) AddSolo(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.WatchlistRequest
	if err := c.BodyParser(&req); err != nil || req.MovieID == 0 {
		return badRequest(c, "movie_id is required")
	}

	if err := h.preferenceService.AddToWatchlist(c.Context(), userID, req.MovieID); err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "added to watchlist"})
}

func (h *WatchlistHandler) RemoveSolo(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	movieID, err := strconv.ParseInt(c.Params("movieID"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid movie id")
	}

	if err := h.preferenceService.RemoveFromWatchlist(c.Context(), userID, movieID); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"message": "removed from watchlist"})
}

func (h *WatchlistHandler) ListSolo(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	ids, err := h.preferenceService.Watchlist(c.Context(), userID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.WatchlistResponse{MovieIDs: ids})
}

func (h *WatchlistHandler) SetPersonalize(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.PersonalizeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.preferenceService.SetPersonalize(c.Context(), userID, req.Settings); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"message": "settings saved"})
}

func (h *WatchlistHandler) GetPersonalize(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	settings, err := h.preferenceService.GetPersonalize(c.Context(), userID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dto.PersonalizeRequest{Settings: settings})
}
