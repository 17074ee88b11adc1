package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/popcorn-picks/backend/internal/ai"
	"github.com/popcorn-picks/backend/internal/apperr"
)

// Suggestion is one AI-proposed movie with its pitch.
type Suggestion struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// ChatService is the conversational recommendation layer. The model's output
// is free-form text the service parses structured suggestions out of;
// malformed output degrades to an empty suggestion list, never an error.
type ChatService struct {
	client *ai.Client
}

func NewChatService(client *ai.Client) *ChatService {
	return &ChatService{client: client}
}

func (s *ChatService) Available() bool {
	return s.client.Available()
}

const chatSystemPrompt = `You are Popcorn Pal, a friendly movie recommendation assistant.
Answer conversationally in one short paragraph, then recommend up to 5 movies.
After your reply, on a new line, output ONLY a JSON array of objects with
"title" and "reason" fields, no markdown, no extra text.`

// Chat answers a free-form user message and extracts any structured
// suggestions embedded in the reply.
func (s *ChatService) Chat(ctx context.Context, message string, likedGenreNames []string) (string, []Suggestion, error) {
	user := message
	if len(likedGenreNames) > 0 {
		user = fmt.Sprintf("%s\n\n(The user tends to like these genres: %s.)",
			message, strings.Join(likedGenreNames, ", "))
	}

	raw, err := s.client.Complete(ctx, []ai.Message{
		{Role: "system", Content: chatSystemPrompt},
		{Role: "user", Content: user},
	}, 1024, 0.8)
	if err != nil {
		if errors.Is(err, apperr.ErrMalformedUpstream) {
			slog.Warn("model returned unusable chat output", "error", err)
			return "", nil, nil
		}
		return "", nil, err
	}

	reply, suggestions := splitReply(raw)
	return reply, suggestions, nil
}

// MoodSuggestions asks the model for movies matching a mood. Returns an
// empty list on unparseable model output.
func (s *ChatService) MoodSuggestions(ctx context.Context, mood string, likedGenreNames []string) ([]Suggestion, error) {
	prompt := fmt.Sprintf(`Suggest exactly 5 movies for someone in a %q mood.`, mood)
	if len(likedGenreNames) > 0 {
		prompt += fmt.Sprintf(" They usually enjoy: %s.", strings.Join(likedGenreNames, ", "))
	}
	prompt += `

Return ONLY a JSON array with this exact format:
[{"title": "Movie Title", "reason": "one sentence on why it fits the mood"}]
No markdown, no explanation, just the JSON array.`

	raw, err := s.client.Complete(ctx, []ai.Message{
		{Role: "system", Content: "You are a movie recommendation engine. You respond with pure JSON."},
		{Role: "user", Content: prompt},
	}, 1024, 0.9)
	if err != nil {
		if errors.Is(err, apperr.ErrMalformedUpstream) {
			slog.Warn("model returned unusable suggestion output", "error", err)
			return nil, nil
		}
		return nil, err
	}

	return parseSuggestions(raw), nil
}

// splitReply separates the conversational paragraph from the trailing JSON
// suggestion array, tolerating a missing or broken array.
func splitReply(raw string) (string, []Suggestion) {
	idx := strings.Index(raw, "[")
	if idx < 0 {
		return strings.TrimSpace(raw), nil
	}
	reply := strings.TrimSpace(raw[:idx])
	reply = strings.TrimSuffix(reply, "```json")
	reply = strings.TrimSuffix(reply, "```")
	return strings.TrimSpace(reply), parseSuggestions(raw[idx:])
}

// parseSuggestions extracts the suggestion array from model output.
// Malformed output yields an empty list.
func parseSuggestions(raw string) []Suggestion {
	content := ai.StripFences(raw)

	var suggestions []Suggestion
	if err := json.Unmarshal([]byte(content), &suggestions); err != nil {
		slog.Warn("discarding malformed model suggestions", "error", err)
		return nil
	}

	valid := suggestions[:0]
	for _, sug := range suggestions {
		if strings.TrimSpace(sug.Title) == "" {
			continue
		}
		valid = append(valid, sug)
	}
	return valid
}
