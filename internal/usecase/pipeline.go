package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"ConversationViewer/internal/domain"
	"ConversationViewer/internal/ports"
)

// Classifier maps conversation text to topic labels.
type Classifier interface {
	Classify(ctx context.Context, text string) ([]domain.Topic, error)
}

// CandidateSource builds the recency-sorted candidate pool for topics.
type CandidateSource interface {
	Aggregate(ctx context.Context, topics []domain.Topic) []domain.Article
}

// Selector picks the final headlines from a candidate pool.
type Selector interface {
	Select(ctx context.Context, text string, pool []domain.Article) ([]domain.Article, error)
}

var (
	_ Classifier      = (*TopicClassifier)(nil)
	_ CandidateSource = (*Aggregator)(nil)
	_ Selector        = (*RelevanceSelector)(nil)
)

// PipelineDeps wires all collaborators into the recommendation pipeline.
type PipelineDeps struct {
	Store      ports.ConversationStore
	Classifier Classifier
	Candidates CandidateSource
	Selector   Selector
	Logger     *slog.Logger
}

// Pipeline implements the news recommendation workflow for one conversation.
type Pipeline struct {
	store      ports.ConversationStore
	classifier Classifier
	candidates CandidateSource
	selector   Selector
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		store:      deps.Store,
		classifier: deps.Classifier,
		candidates: deps.Candidates,
		selector:   deps.Selector,
		logger:     deps.Logger,
	}
}

// Recommend loads the user's conversation and runs the pipeline on its content.
func (p *Pipeline) Recommend(ctx context.Context, userID, conversationID string) (domain.Recommendation, error) {
	conversation, err := p.store.Get(ctx, userID, conversationID)
	if err != nil {
		return domain.Recommendation{}, fmt.Errorf("load conversation %s: %w", conversationID, err)
	}
	return p.RecommendText(ctx, conversation.Content)
}

// RecommendText classifies, aggregates, and selects. Empty outcomes carry a message instead of an error.
func (p *Pipeline) RecommendText(ctx context.Context, text string) (domain.Recommendation, error) {
	topics, err := p.classifier.Classify(ctx, text)
	if err != nil {
		return domain.Recommendation{}, err
	}
	if len(topics) == 0 {
		p.info("no topics matched")
		return domain.Recommendation{Headlines: []domain.Article{}, Message: domain.MessageNoTopics}, nil
	}
	p.info("topics selected", "topics", domain.TopicStrings(topics))

	pool := p.candidates.Aggregate(ctx, topics)
	if len(pool) == 0 {
		p.info("no articles found", "topics", domain.TopicStrings(topics))
		return domain.Recommendation{
			Headlines: []domain.Article{},
			Topics:    topics,
			Message:   domain.MessageNoArticles,
		}, nil
	}

	headlines, err := p.selector.Select(ctx, text, pool)
	if err != nil {
		return domain.Recommendation{}, err
	}
	p.info("headlines selected", "pool", len(pool), "headlines", len(headlines))

	return domain.Recommendation{Headlines: headlines, Topics: topics}, nil
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}
