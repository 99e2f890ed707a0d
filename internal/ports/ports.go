package ports

import (
	"context"

	"ConversationViewer/internal/domain"
)

// Completer sends a single prompt to a text-generation service and returns its reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// FeedFetcher pulls at most a few normalized articles from one syndication endpoint.
type FeedFetcher interface {
	Fetch(ctx context.Context, topic domain.Topic, endpoint string) ([]domain.Article, error)
}

// ConversationStore reads and annotates per-user conversation documents.
type ConversationStore interface {
	List(ctx context.Context, userID string) ([]domain.ConversationMeta, error)
	Get(ctx context.Context, userID, id string) (domain.Conversation, error)
	UpdateNotes(ctx context.Context, userID, id string, update domain.NotesUpdate) error
	Seed(ctx context.Context, userID string, conversations []domain.Conversation) (int, error)
}

// TokenVerifier resolves a bearer credential to a user identifier.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}
