package usecase

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"ConversationViewer/internal/domain"
	"ConversationViewer/internal/ports"
	"ConversationViewer/internal/registry"
)

const (
	defaultWorkers       = 8
	defaultFeedsPerTopic = 5
)

// AggregatorOptions tunes fan-out; zero values fall back to defaults.
type AggregatorOptions struct {
	Workers       int
	FeedsPerTopic int
	DedupeByURL   bool
}

// Aggregator fetches every feed of the selected topics and merges the results by recency.
type Aggregator struct {
	registry      *registry.Registry
	fetcher       ports.FeedFetcher
	workers       int
	feedsPerTopic int
	dedupe        bool
	logger        *slog.Logger
}

// NewAggregator builds an aggregator over the registry and fetcher.
func NewAggregator(reg *registry.Registry, fetcher ports.FeedFetcher, opts AggregatorOptions, logger *slog.Logger) *Aggregator {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.FeedsPerTopic <= 0 {
		opts.FeedsPerTopic = defaultFeedsPerTopic
	}
	return &Aggregator{
		registry:      reg,
		fetcher:       fetcher,
		workers:       opts.Workers,
		feedsPerTopic: opts.FeedsPerTopic,
		dedupe:        opts.DedupeByURL,
		logger:        logger,
	}
}

type feedJob struct {
	topic    domain.Topic
	endpoint string
}

// Aggregate never fails: unreachable feeds contribute nothing.
func (a *Aggregator) Aggregate(ctx context.Context, topics []domain.Topic) []domain.Article {
	jobs := a.plan(topics)

	// One slot per job keeps topic, feed, and in-feed order independent of completion order.
	slots := make([][]domain.Article, len(jobs))

	var g errgroup.Group
	g.SetLimit(a.workers)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			articles, err := a.fetcher.Fetch(ctx, job.topic, job.endpoint)
			if err != nil {
				a.warn("feed skipped", "topic", job.topic, "endpoint", job.endpoint, "error", err)
				return nil
			}
			a.debug("feed fetched", "topic", job.topic, "endpoint", job.endpoint, "count", len(articles))
			slots[i] = articles
			return nil
		})
	}
	_ = g.Wait()

	var pool []domain.Article
	for _, articles := range slots {
		pool = append(pool, articles...)
	}

	domain.SortByRecency(pool)
	if a.dedupe {
		pool = domain.DedupeByURL(pool)
	}

	a.debug("aggregation done", "feeds", len(jobs), "articles", len(pool))
	return pool
}

func (a *Aggregator) plan(topics []domain.Topic) []feedJob {
	var jobs []feedJob
	for _, topic := range topics {
		feeds, err := a.registry.FeedsFor(topic)
		if err != nil {
			a.warn("topic skipped", "topic", topic, "error", err)
			continue
		}
		if len(feeds) > a.feedsPerTopic {
			feeds = feeds[:a.feedsPerTopic]
		}
		for _, endpoint := range feeds {
			jobs = append(jobs, feedJob{topic: topic, endpoint: endpoint})
		}
	}
	return jobs
}

func (a *Aggregator) debug(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}

func (a *Aggregator) warn(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}
