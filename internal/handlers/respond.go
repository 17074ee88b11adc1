package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/popcorn-picks/backend/internal/apperr"
	"github.com/popcorn-picks/backend/internal/authctx"
	"github.com/popcorn-picks/backend/internal/dto"
	"github.com/popcorn-picks/backend/internal/models"
	"github.com/popcorn-picks/backend/internal/services"
)

// respondErr renders a service error. Taxonomy errors carry user-safe
// messages; anything else is logged and masked.
func respondErr(c *fiber.Ctx, err error) error {
	status := apperr.HTTPStatus(err)
	msg := err.Error()
	if !apperr.IsTaxonomy(err) {
		slog.Error("unhandled service error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		msg = "Internal server error"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
}

// requireCouple resolves the caller's active couple. On failure it writes the
// response and returns a nil couple, so callers return the second value as-is.
func requireCouple(c *fiber.Ctx, partner *services.PartnerService) (*models.Couple, error) {
	userID, err := authctx.UserID(c)
	if err != nil {
		return nil, unauthorized(c)
	}

	couple, err := partner.ActiveCouple(c.Context(), userID)
	if err != nil {
		return nil, respondErr(c, err)
	}
	if couple == nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "no active partner",
		})
	}
	return couple, nil
}
