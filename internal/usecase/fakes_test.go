package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"ConversationViewer/internal/domain"
	"ConversationViewer/internal/registry"
)

// scriptedCompleter replies with queued responses, one per call.
type scriptedCompleter struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	prompts   []string
}

func (s *scriptedCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	call := len(s.prompts)
	s.prompts = append(s.prompts, prompt)
	if call < len(s.errs) && s.errs[call] != nil {
		return "", s.errs[call]
	}
	if call < len(s.responses) {
		return s.responses[call], nil
	}
	return "", errors.New("unexpected completion call")
}

type feedResult struct {
	articles []domain.Article
	err      error
	delay    time.Duration
}

// stubFetcher serves canned results per endpoint and records calls.
type stubFetcher struct {
	mu      sync.Mutex
	results map[string]feedResult
	calls   []string
}

func (f *stubFetcher) Fetch(ctx context.Context, topic domain.Topic, endpoint string) ([]domain.Article, error) {
	f.mu.Lock()
	f.calls = append(f.calls, endpoint)
	res, ok := f.results[endpoint]
	f.mu.Unlock()

	if res.delay > 0 {
		select {
		case <-time.After(res.delay):
		case <-ctx.Done():
			return nil, &domain.FetchError{Endpoint: endpoint, Err: ctx.Err()}
		}
	}
	if !ok {
		return nil, &domain.FetchError{Endpoint: endpoint, Err: errors.New("no such feed")}
	}
	if res.err != nil {
		return nil, &domain.FetchError{Endpoint: endpoint, Err: res.err}
	}

	out := make([]domain.Article, len(res.articles))
	for i, article := range res.articles {
		article.Topic = topic
		out[i] = article
	}
	return out, nil
}

func (f *stubFetcher) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.calls...)
	sort.Strings(out)
	return out
}

// memoryStore is an in-memory ConversationStore.
type memoryStore struct {
	mu    sync.Mutex
	items map[string]domain.Conversation
}

func newMemoryStore(conversations ...domain.Conversation) *memoryStore {
	s := &memoryStore{items: map[string]domain.Conversation{}}
	for _, c := range conversations {
		s.items[c.UserID+"/"+c.ID] = c
	}
	return s
}

func (s *memoryStore) List(_ context.Context, userID string) ([]domain.ConversationMeta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.ConversationMeta
	for _, c := range s.items {
		if c.UserID == userID {
			out = append(out, c.Meta())
		}
	}
	domain.SortConversations(out)
	return out, nil
}

func (s *memoryStore) Get(_ context.Context, userID, id string) (domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[userID+"/"+id]
	if !ok {
		return domain.Conversation{}, domain.ErrNotFound
	}
	return c, nil
}

func (s *memoryStore) UpdateNotes(_ context.Context, userID, id string, update domain.NotesUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[userID+"/"+id]
	if !ok {
		return domain.ErrNotFound
	}
	if update.Summary != nil {
		c.Summary = *update.Summary
	}
	if update.Feedback != nil {
		c.Feedback = *update.Feedback
	}
	s.items[userID+"/"+id] = c
	return nil
}

func (s *memoryStore) Seed(_ context.Context, userID string, conversations []domain.Conversation) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	created := 0
	for _, c := range conversations {
		key := userID + "/" + c.ID
		if _, ok := s.items[key]; ok {
			continue
		}
		c.UserID = userID
		s.items[key] = c
		created++
	}
	return created, nil
}

func testRegistry() *registry.Registry {
	return registry.MustNew([]registry.TopicFeeds{
		{Topic: "technology", Feeds: []string{"tech-1", "tech-2"}},
		{Topic: "science", Feeds: []string{"sci-1", "sci-2"}},
		{Topic: "sports", Feeds: []string{"sports-1"}},
	})
}

var baseTime = time.Date(2025, time.November, 8, 12, 0, 0, 0, time.UTC)

func at(hours int) time.Time {
	return baseTime.Add(time.Duration(hours) * time.Hour)
}
