package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"ConversationViewer/internal/domain"
	"ConversationViewer/internal/ports"
)

const summaryPrompt = `Please provide a concise summary of the following conversation. Focus on the main topics discussed, key decisions made, and important takeaways. Keep the summary under 200 words.

Conversation:
%s`

const feedbackPrompt = `Analyze the following conversation and provide constructive speaking feedback. Focus on:
1. Communication clarity and effectiveness
2. Conversation flow and engagement
3. Areas of strength
4. Specific suggestions for improvement
5. Overall speaking style assessment

Provide actionable, encouraging feedback in a professional tone. Keep the feedback under 300 words.

Conversation:
%s`

// Notes generates summaries and speaking feedback and stores them with the conversation.
type Notes struct {
	store     ports.ConversationStore
	completer ports.Completer
	logger    *slog.Logger
}

// NewNotes wires the store with the completion service.
func NewNotes(store ports.ConversationStore, completer ports.Completer, logger *slog.Logger) *Notes {
	return &Notes{store: store, completer: completer, logger: logger}
}

// Summarize writes a fresh summary for the conversation and returns it.
func (n *Notes) Summarize(ctx context.Context, userID, conversationID string) (string, error) {
	return n.generate(ctx, userID, conversationID, summaryPrompt, func(text string) domain.NotesUpdate {
		return domain.NotesUpdate{Summary: &text}
	})
}

// Feedback writes speaking feedback for the conversation and returns it.
func (n *Notes) Feedback(ctx context.Context, userID, conversationID string) (string, error) {
	return n.generate(ctx, userID, conversationID, feedbackPrompt, func(text string) domain.NotesUpdate {
		return domain.NotesUpdate{Feedback: &text}
	})
}

func (n *Notes) generate(
	ctx context.Context,
	userID, conversationID, template string,
	update func(string) domain.NotesUpdate,
) (string, error) {
	conversation, err := n.store.Get(ctx, userID, conversationID)
	if err != nil {
		return "", fmt.Errorf("load conversation %s: %w", conversationID, err)
	}

	text, err := n.completer.Complete(ctx, fmt.Sprintf(template, conversation.Dialogue()))
	if err != nil {
		return "", fmt.Errorf("generate notes: %w", err)
	}

	if err := n.store.UpdateNotes(ctx, userID, conversationID, update(text)); err != nil {
		return "", fmt.Errorf("store notes: %w", err)
	}

	if n.logger != nil {
		n.logger.Info("notes generated", "conversation", conversationID, "chars", len(text))
	}
	return text, nil
}
