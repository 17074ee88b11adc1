package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/popcorn-picks/backend/internal/authctx"
	"github.com/popcorn-picks/backend/internal/dto"
	"github.com/popcorn-picks/backend/internal/models"
	"github.com/popcorn-picks/backend/internal/services"
)

type PartnerHandler struct {
	partnerService *services.PartnerService
}

func NewPartnerHandler(partnerService *services.PartnerService) *PartnerHandler {
	return &PartnerHandler{partnerService: partnerService}
}

func (h *PartnerHandler) SendRequest(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.SendPartnerRequest
	if err := c.BodyParser(&req); err != nil || req.Partner == "" {
		return badRequest(c, "partner email or username is required")
	}

	request, err := h.partnerService.SendRequest(c.Context(), userID, req.Partner)
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(requestResponse(request))
}

func (h *PartnerHandler) ListRequests(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	incoming, outgoing, err := h.partnerService.ListRequests(c.Context(), userID)
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{
		"incoming": requestResponses(incoming),
		"outgoing": requestResponses(outgoing),
	})
}

func (h *PartnerHandler) Respond(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid request id")
	}

	var req dto.RespondPartnerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Decision != "accept" && req.Decision != "decline" {
		return badRequest(c, `decision must be "accept" or "decline"`)
	}

	request, err := h.partnerService.Respond(c.Context(), requestID, userID, req.Decision == "accept")
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(requestResponse(request))
}

// Current returns the caller's active couple with partner profile, or 404.
func (h *PartnerHandler) Current(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	couple, err := h.partnerService.ActiveCouple(c.Context(), userID)
	if err != nil {
		return respondErr(c, err)
	}
	if couple == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "no active partner",
		})
	}

	partner, err := h.partnerService.Partner(c.Context(), couple, userID)
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(dto.CoupleResponse{
		ID:        couple.ID,
		PartnerID: partner.ID,
		Partner:   services.UserResponse(partner),
		Status:    string(couple.Status),
		CreatedAt: couple.CreatedAt,
	})
}

// End terminates the caller's active partnership.
func (h *PartnerHandler) End(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	couple, errResp := requireCouple(c, h.partnerService)
	if couple == nil {
		return errResp
	}

	if err := h.partnerService.End(c.Context(), couple.ID, userID); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"message": "partnership ended"})
}

func requestResponse(r *models.PartnershipRequest) dto.PartnerRequestResponse {
	resp := dto.PartnerRequestResponse{
		ID:         r.ID,
		SenderID:   r.SenderID,
		ReceiverID: r.ReceiverID,
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt,
	}
	if r.Sender.Username != "" {
		resp.Sender = r.Sender.Username
	}
	if r.Receiver.Username != "" {
		resp.Receiver = r.Receiver.Username
	}
	return resp
}

func requestResponses(rs []models.PartnershipRequest) []dto.PartnerRequestResponse {
	out := make([]dto.PartnerRequestResponse, 0, len(rs))
	for i := range rs {
		out = append(out, requestResponse(&rs[i]))
	}
	return out
}
