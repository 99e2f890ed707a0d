package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ConversationViewer/internal/domain"
	"ConversationViewer/internal/ports"
	"ConversationViewer/internal/registry"
)

const (
	classifyExcerptRunes = 2000
	maxTopics            = 3
)

// TopicClassifier asks the completion service which registry topics a conversation touches.
type TopicClassifier struct {
	completer ports.Completer
	registry  *registry.Registry
	logger    *slog.Logger
}

// NewTopicClassifier wires the completion service with the topic registry.
func NewTopicClassifier(completer ports.Completer, reg *registry.Registry, logger *slog.Logger) *TopicClassifier {
	return &TopicClassifier{completer: completer, registry: reg, logger: logger}
}

// Classify returns up to three known topics; an empty result is not an error.
func (c *TopicClassifier) Classify(ctx context.Context, text string) ([]domain.Topic, error) {
	prompt := BuildTopicPrompt(c.registry.Topics(), text)

	response, err := c.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, &domain.ClassificationError{Err: err}
	}

	topics := ParseTopics(response, c.registry)
	if c.logger != nil {
		c.logger.Debug("topics classified", "raw", response, "topics", domain.TopicStrings(topics))
	}
	return topics, nil
}

// BuildTopicPrompt enumerates the allowed labels and embeds a prefix of the conversation.
func BuildTopicPrompt(topics []domain.Topic, text string) string {
	return fmt.Sprintf(`Based on this conversation, select 1-3 most relevant topics from this list: %s

Return ONLY the topic names separated by commas, nothing else. Choose topics that would help find relevant news articles for this conversation.

Conversation:
%s`, strings.Join(domain.TopicStrings(topics), ", "), domain.Prefix(text, classifyExcerptRunes))
}

// ParseTopics keeps exact registry keys from a comma separated reply, first occurrence wins.
func ParseTopics(response string, reg *registry.Registry) []domain.Topic {
	var (
		topics []domain.Topic
		seen   = map[domain.Topic]bool{}
	)
	for _, token := range strings.Split(strings.ToLower(strings.TrimSpace(response)), ",") {
		topic := domain.Topic(strings.TrimSpace(token))
		if !reg.Has(topic) || seen[topic] {
			continue
		}
		seen[topic] = true
		topics = append(topics, topic)
		if len(topics) == maxTopics {
			break
		}
	}
	return topics
}
