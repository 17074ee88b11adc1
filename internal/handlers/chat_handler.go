package handlers

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/popcorn-picks/backend/internal/authctx"
	"github.com/popcorn-picks/backend/internal/dto"
	"github.com/popcorn-picks/backend/internal/services"
	"github.com/popcorn-picks/backend/internal/tmdb"
)

type ChatHandler struct {
	chatService  *services.ChatService
	matchService *services.MatchService
	catalog      *tmdb.Client
}

func NewChatHandler(chat *services.ChatService, match *services.MatchService, catalog *tmdb.Client) *ChatHandler {
	return &ChatHandler{chatService: chat, matchService: match, catalog: catalog}
}

// Chat answers a free-form movie question, seeded with the caller's taste.
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	if !h.chatService.Available() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Message: "chat is not configured",
		})
	}

	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		return badRequest(c, "message is required")
	}

	reply, suggestions, err := h.chatService.Chat(c.Context(), req.Message, h.genreNames(c, userID))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(chatResponse(reply, suggestions))
}

// MoodSuggestions returns structured picks for a mood label.
func (h *ChatHandler) MoodSuggestions(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	if !h.chatService.Available() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Message: "chat is not configured",
		})
	}

	var req dto.MoodChatRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Mood) == "" {
		return badRequest(c, "mood is required")
	}

	suggestions, err := h.chatService.MoodSuggestions(c.Context(), req.Mood, h.genreNames(c, userID))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(chatResponse("", suggestions))
}

// genreNames maps the user's liked genre ids to display names. Failures
// degrade to an unseeded prompt rather than failing the chat.
func (h *ChatHandler) genreNames(c *fiber.Ctx, userID uuid.UUID) []string {
	ids, err := h.matchService.LikedGenres(c.Context(), userID)
	if err != nil || len(ids) == 0 {
		return nil
	}

	genres, err := h.catalog.Genres(c.Context())
	if err != nil {
		slog.Warn("failed to load genre names for chat", "error", err)
		return nil
	}

	byID := make(map[int64]string, len(genres))
	for _, g := range genres {
		byID[g.ID] = g.Name
	}

	var names []string
	for _, id := range ids {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return names
}

func chatResponse(reply string, suggestions []services.Suggestion) dto.ChatResponse {
	resp := dto.ChatResponse{Reply: reply, Suggestions: make([]dto.SuggestionResponse, 0, len(suggestions))}
	for _, s := range suggestions {
		resp.Suggestions = append(resp.Suggestions, dto.SuggestionResponse{Title: s.Title, Reason: s.Reason})
	}
	return resp
}
