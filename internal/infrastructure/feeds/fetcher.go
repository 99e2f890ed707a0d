package feeds

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"ConversationViewer/internal/domain"
	"ConversationViewer/internal/ports"
)

const (
	defaultTimeout   = 8 * time.Second
	defaultPerFeed   = 3
	rawSnippetLength = 200
)

// Options tunes a Fetcher; zero values fall back to defaults.
type Options struct {
	Timeout   time.Duration
	PerFeed   int
	UserAgent string
}

// Fetcher retrieves RSS/Atom documents and normalizes their newest entries.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	perFeed   int
	userAgent string
	now       func() time.Time
}

var _ ports.FeedFetcher = (*Fetcher)(nil)

// NewFetcher wires an HTTP client; a nil client gets a plain one.
func NewFetcher(client *http.Client, opts Options) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.PerFeed <= 0 {
		opts.PerFeed = defaultPerFeed
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "ConversationViewer/1.0"
	}
	return &Fetcher{
		client:    client,
		timeout:   opts.Timeout,
		perFeed:   opts.PerFeed,
		userAgent: opts.UserAgent,
		now:       time.Now,
	}
}

// Fetch parses the endpoint and returns its first entries tagged with topic.
func (f *Fetcher) Fetch(ctx context.Context, topic domain.Topic, endpoint string) ([]domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	// gofeed parsers keep per-document state, so each fetch gets its own.
	parser := gofeed.NewParser()
	parser.Client = f.client
	parser.UserAgent = f.userAgent

	feed, err := parser.ParseURLWithContext(endpoint, ctx)
	if err != nil {
		return nil, &domain.FetchError{Endpoint: endpoint, Err: err}
	}

	return normalizeFeed(feed, topic, f.perFeed, f.now().UTC()), nil
}

func normalizeFeed(feed *gofeed.Feed, topic domain.Topic, limit int, fetchedAt time.Time) []domain.Article {
	source := strings.TrimSpace(feed.Title)
	if source == "" {
		source = domain.UnknownSource
	}

	items := feed.Items
	if len(items) > limit {
		items = items[:limit]
	}

	articles := make([]domain.Article, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		articles = append(articles, domain.Article{
			Title:       item.Title,
			Description: describe(item),
			URL:         item.Link,
			Source:      source,
			PublishedAt: publishedAt(item, fetchedAt),
			Topic:       topic,
		})
	}
	return articles
}

func describe(item *gofeed.Item) string {
	raw := item.Content
	if strings.TrimSpace(raw) == "" {
		raw = item.Description
	}
	if snippet := plainText(raw); snippet != "" {
		return snippet
	}
	return domain.Prefix(raw, rawSnippetLength)
}

// plainText strips markup and collapses whitespace.
func plainText(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func publishedAt(item *gofeed.Item, fallback time.Time) time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.UTC()
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed.UTC()
	}
	return fallback
}
