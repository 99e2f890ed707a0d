package registry

import (
	"fmt"
	"strings"

	"ConversationViewer/internal/domain"
)

// TopicFeeds describes one topic and its ordered feed endpoints.
type TopicFeeds struct {
	Topic domain.Topic
	Feeds []string
}

// Registry keeps an immutable mapping from topic labels to feed endpoints.
type Registry struct {
	order []domain.Topic
	feeds map[domain.Topic][]string
}

// New validates entries and builds a registry that preserves their order.
func New(entries []TopicFeeds) (*Registry, error) {
	r := &Registry{
		order: make([]domain.Topic, 0, len(entries)),
		feeds: make(map[domain.Topic][]string, len(entries)),
	}
	for _, entry := range entries {
		topic := domain.Topic(strings.ToLower(strings.TrimSpace(string(entry.Topic))))
		if topic == "" {
			return nil, fmt.Errorf("registry: empty topic name")
		}
		if strings.Contains(string(topic), ",") {
			return nil, fmt.Errorf("registry: topic %q contains a comma", topic)
		}
		if _, dup := r.feeds[topic]; dup {
			return nil, fmt.Errorf("registry: topic %s declared twice", topic)
		}
		if len(entry.Feeds) == 0 {
			return nil, fmt.Errorf("registry: topic %s has no feeds", topic)
		}
		r.order = append(r.order, topic)
		r.feeds[topic] = append([]string(nil), entry.Feeds...)
	}
	if len(r.order) == 0 {
		return nil, fmt.Errorf("registry: no topics configured")
	}
	return r, nil
}

// MustNew is New for static tables known to be valid.
func MustNew(entries []TopicFeeds) *Registry {
	r, err := New(entries)
	if err != nil {
		panic(err)
	}
	return r
}

// Topics lists labels in declaration order.
func (r *Registry) Topics() []domain.Topic {
	return append([]domain.Topic(nil), r.order...)
}

// Has reports whether the label is a known topic.
func (r *Registry) Has(topic domain.Topic) bool {
	_, ok := r.feeds[topic]
	return ok
}

// FeedsFor returns a copy of the topic's endpoints.
func (r *Registry) FeedsFor(topic domain.Topic) ([]string, error) {
	feeds, ok := r.feeds[topic]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownTopic, topic)
	}
	return append([]string(nil), feeds...), nil
}
