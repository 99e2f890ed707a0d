package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"ConversationViewer/internal/domain"
	"ConversationViewer/internal/logging"
	"ConversationViewer/internal/ports"
)

// Recommender runs the news pipeline for one stored conversation.
type Recommender interface {
	Recommend(ctx context.Context, userID, conversationID string) (domain.Recommendation, error)
}

// NotesGenerator produces summaries and speaking feedback.
type NotesGenerator interface {
	Summarize(ctx context.Context, userID, conversationID string) (string, error)
	Feedback(ctx context.Context, userID, conversationID string) (string, error)
}

// UserInitializer seeds example conversations.
type UserInitializer interface {
	InitUser(ctx context.Context, userID string) (int, error)
}

// Handler serves the conversation API for the authenticated user.
type Handler struct {
	store      ports.ConversationStore
	news       Recommender
	notes      NotesGenerator
	onboarding UserInitializer
	logger     *slog.Logger
}

// NewHandler wires use cases into HTTP endpoints.
func NewHandler(store ports.ConversationStore, news Recommender, notes NotesGenerator, onboarding UserInitializer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handler{
		store:      store,
		news:       news,
		notes:      notes,
		onboarding: onboarding,
		logger:     logger,
	}
}

type newsResponse struct {
	Success   bool             `json:"success"`
	Headlines []domain.Article `json:"headlines"`
	Topics    []string         `json:"topics,omitempty"`
	Message   string           `json:"message,omitempty"`
}

// Health reports liveness.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// ListConversations returns the caller's conversations newest first.
func (h *Handler) ListConversations(c echo.Context) error {
	items, err := h.store.List(c.Request().Context(), userID(c))
	if err != nil {
		return h.writeError(c, "list conversations", err)
	}
	if items == nil {
		items = []domain.ConversationMeta{}
	}
	return c.JSON(http.StatusOK, map[string]any{"conversations": items})
}

// GetConversation returns one conversation of the caller.
func (h *Handler) GetConversation(c echo.Context) error {
	conversation, err := h.store.Get(c.Request().Context(), userID(c), c.Param("id"))
	if err != nil {
		return h.writeError(c, "load conversation", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"conversation": conversation})
}

// Summarize generates and stores a summary.
func (h *Handler) Summarize(c echo.Context) error {
	summary, err := h.notes.Summarize(c.Request().Context(), userID(c), c.Param("id"))
	if err != nil {
		return h.writeError(c, "generate summary", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "summary": summary})
}

// Feedback generates and stores speaking feedback.
func (h *Handler) Feedback(c echo.Context) error {
	feedback, err := h.notes.Feedback(c.Request().Context(), userID(c), c.Param("id"))
	if err != nil {
		return h.writeError(c, "generate feedback", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "feedback": feedback})
}

// News recommends headlines related to the conversation.
func (h *Handler) News(c echo.Context) error {
	rec, err := h.news.Recommend(c.Request().Context(), userID(c), c.Param("id"))
	if err != nil {
		return h.writeError(c, "fetch news", err)
	}

	headlines := rec.Headlines
	if headlines == nil {
		headlines = []domain.Article{}
	}
	return c.JSON(http.StatusOK, newsResponse{
		Success:   true,
		Headlines: headlines,
		Topics:    domain.TopicStrings(rec.Topics),
		Message:   rec.Message,
	})
}

// InitUser seeds the caller's example conversations.
func (h *Handler) InitUser(c echo.Context) error {
	user := userID(c)
	created, err := h.onboarding.InitUser(c.Request().Context(), user)
	if err != nil {
		return h.writeError(c, "initialize user", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Example conversations created",
		"userId":  user,
		"created": created,
	})
}
