package domain

import (
	"sort"
	"time"
)

// Topic is a category label used to pick which feeds to query.
type Topic string

// UnknownSource is reported when a feed does not name itself.
const UnknownSource = "Unknown Source"

// Article is a headline fetched from a syndication feed under a topic.
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"publishedAt"`
	Topic       Topic     `json:"topic"`
}

// Recommendation is the outcome of one news pipeline run.
type Recommendation struct {
	Headlines []Article
	Topics    []Topic
	Message   string
}

const (
	MessageNoTopics   = "No relevant topics found"
	MessageNoArticles = "No articles found for selected topics"
)

// SortByRecency orders articles newest first. Equal timestamps keep discovery order.
func SortByRecency(articles []Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
}

// DedupeByURL keeps the first occurrence of every non-empty URL.
func DedupeByURL(articles []Article) []Article {
	seen := make(map[string]struct{}, len(articles))
	out := articles[:0:0]
	for _, article := range articles {
		if article.URL != "" {
			if _, ok := seen[article.URL]; ok {
				continue
			}
			seen[article.URL] = struct{}{}
		}
		out = append(out, article)
	}
	return out
}

// TopicStrings converts labels for transport.
func TopicStrings(topics []Topic) []string {
	out := make([]string, len(topics))
	for i, topic := range topics {
		out[i] = string(topic)
	}
	return out
}
